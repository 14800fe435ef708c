package hcl

import (
	"fmt"
	"strings"

	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/label"
	"github.com/vk/buildgrid/internal/schema"
)

// translateTargets converts the HCL-specific target schema of one build
// file into the agnostic model, assigning labels from the file's package.
func translateTargets(pkg string, targets []*schema.Target) ([]*config.Target, error) {
	out := make([]*config.Target, 0, len(targets))
	for _, t := range targets {
		translated, err := translateTarget(pkg, t)
		if err != nil {
			return nil, err
		}
		out = append(out, translated)
	}
	return out, nil
}

func translateTarget(pkg string, t *schema.Target) (*config.Target, error) {
	l, err := label.New(pkg, t.Name)
	if err != nil {
		return nil, fmt.Errorf("target %q in package %q: %w", t.Name, pkg, err)
	}
	if t.Kind == "" {
		return nil, fmt.Errorf("target %s has an empty rule kind", l)
	}

	deps := make([]label.Label, 0, len(t.Deps))
	for _, raw := range t.Deps {
		dep, err := parseDep(pkg, raw)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", l, err)
		}
		deps = append(deps, dep)
	}

	return &config.Target{
		Label: l,
		Kind:  t.Kind,
		Srcs:  t.Srcs,
		Outs:  t.Outs,
		Argv:  t.Argv,
		Deps:  deps,
	}, nil
}

// parseDep resolves one `deps` entry. Absolute labels (`//pkg:name`) are
// parsed as-is; the shorthand `:name` refers to a target in the same package.
func parseDep(pkg, raw string) (label.Label, error) {
	if strings.HasPrefix(raw, ":") {
		return label.New(pkg, raw[1:])
	}
	return label.Parse(raw)
}
