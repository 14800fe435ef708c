package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/buildgrid/internal/analysis"
	"github.com/vk/buildgrid/internal/analyzer"
	"github.com/vk/buildgrid/internal/ctxlog"
	"github.com/vk/buildgrid/internal/graph"
	"github.com/vk/buildgrid/internal/query"
	"github.com/vk/buildgrid/internal/queryout"
)

// Run executes one query invocation end to end: load the build
// configuration, build the target graph, obtain analysis values (fresh or
// from a snapshot), evaluate the query, and write its output through the
// configured sink.
func (a *App) Run(ctx context.Context) error {
	logger := a.logger.With("run_id", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	// Parse the query up front so a bad expression fails before the
	// expensive loading and analysis work.
	parsed, err := query.Parse(a.config.Query)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	model, err := a.loader.Load(ctx, a.config.Root)
	if err != nil {
		return fmt.Errorf("failed to load build configuration: %w", err)
	}
	logger.Debug("Build configuration loaded.", "target_count", len(model.Targets))

	g, err := graph.Build(ctx, model)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	logger.Debug("Dependency graph built.", "node_count", g.Len())

	store, err := a.obtainAnalysis(ctx, g)
	if err != nil {
		return err
	}

	if a.config.SaveAnalysis != "" {
		if err := store.SaveFile(a.config.SaveAnalysis); err != nil {
			return fmt.Errorf("failed to save analysis snapshot: %w", err)
		}
		logger.Debug("Analysis snapshot saved.", "path", a.config.SaveAnalysis)
	}

	if err := a.runQuery(ctx, parsed, g, store); err != nil {
		return err
	}

	logger.Debug("App.Run method finished.")
	return nil
}

// obtainAnalysis either analyzes the graph or reconstructs values from a
// snapshot. Values from a snapshot carry no actions; queries that need the
// full payload will fail loudly rather than see empty results.
func (a *App) obtainAnalysis(ctx context.Context, g *graph.Graph) (*analysis.Store, error) {
	logger := ctxlog.FromContext(ctx)

	if a.config.LoadAnalysis != "" {
		store, err := analysis.LoadFile(a.config.LoadAnalysis)
		if err != nil {
			return nil, fmt.Errorf("failed to load analysis snapshot: %w", err)
		}
		logger.Debug("Analysis snapshot loaded.", "path", a.config.LoadAnalysis, "value_count", store.Len())
		return store, nil
	}

	store, err := analyzer.New(g, a.config.Workers).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return store, nil
}

// runQuery routes query output through a sink: write, finalize only on
// success, and always close exactly once on every exit path.
func (a *App) runQuery(ctx context.Context, parsed *query.Query, g *graph.Graph, store *analysis.Store) (err error) {
	logger := ctxlog.FromContext(ctx)

	sink, err := queryout.New(
		queryout.Env{Stdout: a.outW, WorkDir: a.config.WorkDir},
		queryout.Options{OutputFile: a.config.OutputFile},
	)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := parsed.Eval(g, store, sink.OutputStream()); err != nil {
		return err
	}
	logger.Debug("Query evaluated and output written.")
	return sink.AfterOutputWritten()
}
