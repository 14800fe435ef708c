package analyzer

import (
	"fmt"

	"github.com/vk/buildgrid/internal/action"
	"github.com/vk/buildgrid/internal/analysis"
	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/label"
)

// Rule kinds the analyzer understands.
const (
	// KindFilegroup groups existing source files; it produces no actions.
	KindFilegroup = "filegroup"
	// KindGenrule runs a command producing declared outputs.
	KindGenrule = "genrule"
)

// analyzeTarget synthesizes the analysis value for one target. All of the
// target's dependencies are guaranteed to be in the store already.
func (a *Analyzer) analyzeTarget(t *config.Target) (*analysis.Value, error) {
	switch t.Kind {
	case KindFilegroup:
		// Present-but-empty: a filegroup legitimately generates nothing.
		return analysis.New(t.Label, nil), nil
	case KindGenrule:
		return a.analyzeGenrule(t)
	default:
		return nil, fmt.Errorf("unknown rule kind %q", t.Kind)
	}
}

// analyzeGenrule produces the single command action of a genrule. Its
// inputs are the declared srcs plus the outputs of every direct dependency,
// in declaration order with repeats contributing once, so the descriptor
// is deterministic.
func (a *Analyzer) analyzeGenrule(t *config.Target) (*analysis.Value, error) {
	if len(t.Outs) == 0 {
		return nil, fmt.Errorf("genrule %s declares no outputs", t.Label)
	}

	inputs := append([]string{}, t.Srcs...)
	seen := make(map[label.Label]bool, len(t.Deps))
	for _, dep := range t.Deps {
		if seen[dep] {
			continue
		}
		seen[dep] = true
		depTarget, ok := a.graph.Target(dep)
		if !ok {
			return nil, fmt.Errorf("dependency %s not in graph", dep)
		}
		if depTarget.Kind == KindFilegroup {
			inputs = append(inputs, depTarget.Srcs...)
		} else {
			inputs = append(inputs, depTarget.Outs...)
		}
	}

	desc := action.Descriptor{
		Mnemonic: "Genrule",
		Owner:    t.Label,
		Inputs:   inputs,
		Outputs:  append([]string{}, t.Outs...),
		Argv:     append([]string{}, t.Argv...),
	}
	return analysis.New(t.Label, []action.Descriptor{desc}), nil
}
