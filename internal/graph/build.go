package graph

import (
	"context"
	"fmt"

	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/ctxlog"
)

// Build constructs a complete, validated dependency graph from a config model.
func Build(ctx context.Context, model *config.Model) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	g := New()

	// First pass: create all nodes.
	for _, t := range model.Targets {
		if err := g.AddTarget(t); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Node creation complete.", "node_count", g.Len())

	// Second pass: link dependencies.
	for _, t := range model.Targets {
		for _, dep := range t.Deps {
			if err := g.AddEdge(dep, t.Label); err != nil {
				return nil, fmt.Errorf("linking %s: %w", t.Label, err)
			}
		}
	}
	logger.Debug("Build: Node linking complete.")

	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	return g, nil
}
