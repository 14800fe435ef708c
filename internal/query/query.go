// Package query parses and evaluates query expressions over the target
// graph and the analysis store, and renders the result as text.
//
// The expression grammar is small: a bare label evaluates to itself,
// `deps(expr)` and `rdeps(expr)` compute transitive closures, and the
// top-level-only wrappers `count(expr)`, `actions(expr)` and
// `nactions(expr)` switch the output from label lines to the cardinality
// of the set, action descriptor lines, or per-target action counts.
// `actions` requires the full analysis payload and therefore fails on a
// store loaded from a snapshot; `count` and `nactions` work on any store.
package query

import (
	"fmt"
	"io"
	"strings"

	"github.com/vk/buildgrid/internal/analysis"
	"github.com/vk/buildgrid/internal/graph"
	"github.com/vk/buildgrid/internal/label"
)

// Mode selects how the evaluated label set is rendered.
type Mode int

const (
	// ModeLabels prints one canonical label per line.
	ModeLabels Mode = iota
	// ModeActions prints the action descriptors of each target.
	ModeActions
	// ModeNumActions prints `<label> <count>` per target.
	ModeNumActions
	// ModeCount prints the number of targets in the evaluated set.
	ModeCount
)

// Query is a parsed query expression ready for evaluation.
type Query struct {
	mode Mode
	expr expr
}

// expr is a node of the parsed expression tree.
type expr interface {
	eval(g *graph.Graph) ([]label.Label, error)
}

type labelExpr struct{ l label.Label }

func (e labelExpr) eval(g *graph.Graph) ([]label.Label, error) {
	if _, ok := g.Target(e.l); !ok {
		return nil, fmt.Errorf("target not found: %s", e.l)
	}
	return []label.Label{e.l}, nil
}

type depsExpr struct{ arg expr }

func (e depsExpr) eval(g *graph.Graph) ([]label.Label, error) {
	roots, err := e.arg.eval(g)
	if err != nil {
		return nil, err
	}
	return g.TransitiveDeps(roots...)
}

type rdepsExpr struct{ arg expr }

func (e rdepsExpr) eval(g *graph.Graph) ([]label.Label, error) {
	roots, err := e.arg.eval(g)
	if err != nil {
		return nil, err
	}
	return g.TransitiveRdeps(roots...)
}

// Parse parses a query string. The output-mode wrappers `count`, `actions`
// and `nactions` are only meaningful at the top level; everywhere else only
// `deps`, `rdeps`, and labels are accepted.
func Parse(s string) (*Query, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("query expression is empty")
	}

	mode := ModeLabels
	if name, inner, ok := splitCall(s); ok {
		switch name {
		case "actions":
			mode = ModeActions
			s = inner
		case "nactions":
			mode = ModeNumActions
			s = inner
		case "count":
			mode = ModeCount
			s = inner
		}
	}

	e, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	return &Query{mode: mode, expr: e}, nil
}

func parseExpr(s string) (expr, error) {
	s = strings.TrimSpace(s)
	if name, inner, ok := splitCall(s); ok {
		arg, err := parseExpr(inner)
		if err != nil {
			return nil, err
		}
		switch name {
		case "deps":
			return depsExpr{arg: arg}, nil
		case "rdeps":
			return rdepsExpr{arg: arg}, nil
		default:
			return nil, fmt.Errorf("unknown query function %q", name)
		}
	}

	l, err := label.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid label in query: %w", err)
	}
	return labelExpr{l: l}, nil
}

// splitCall recognizes `name(inner)` and returns its parts.
func splitCall(s string) (name, inner string, ok bool) {
	i := strings.IndexByte(s, '(')
	if i <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return strings.TrimSpace(s[:i]), s[i+1 : len(s)-1], true
}

// Eval evaluates the query against the graph and store and writes the
// rendered result to w. The caller owns the sink lifecycle around w.
func (q *Query) Eval(g *graph.Graph, store *analysis.Store, w io.Writer) error {
	labels, err := q.expr.eval(g)
	if err != nil {
		return err
	}

	switch q.mode {
	case ModeLabels:
		for _, l := range labels {
			if _, err := fmt.Fprintln(w, l); err != nil {
				return fmt.Errorf("writing query output: %w", err)
			}
		}
	case ModeActions:
		for _, l := range labels {
			v, err := storedValue(store, l)
			if err != nil {
				return err
			}
			actions, err := v.Actions()
			if err != nil {
				return err
			}
			for _, d := range actions {
				if _, err := fmt.Fprintln(w, d); err != nil {
					return fmt.Errorf("writing query output: %w", err)
				}
			}
		}
	case ModeNumActions:
		for _, l := range labels {
			v, err := storedValue(store, l)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s %d\n", l, v.NumActions()); err != nil {
				return fmt.Errorf("writing query output: %w", err)
			}
		}
	case ModeCount:
		if _, err := fmt.Fprintf(w, "%d\n", len(labels)); err != nil {
			return fmt.Errorf("writing query output: %w", err)
		}
	}
	return nil
}

func storedValue(store *analysis.Store, l label.Label) (*analysis.Value, error) {
	v, ok := store.Get(l)
	if !ok {
		return nil, fmt.Errorf("no analysis value for %s", l)
	}
	return v, nil
}
