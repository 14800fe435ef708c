package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/buildgrid/internal/analysis"
	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/graph"
	"github.com/vk/buildgrid/internal/label"
)

func mustLabel(t *testing.T, raw string) label.Label {
	t.Helper()
	l, err := label.Parse(raw)
	require.NoError(t, err)
	return l
}

func buildGraph(t *testing.T, targets ...*config.Target) *graph.Graph {
	t.Helper()
	g, err := graph.Build(context.Background(), &config.Model{Targets: targets})
	require.NoError(t, err)
	return g
}

func TestRun_AnalyzesInDependencyOrder(t *testing.T) {
	files := &config.Target{
		Label: mustLabel(t, "//lib:files"),
		Kind:  KindFilegroup,
		Srcs:  []string{"lib/in.txt"},
	}
	gen := &config.Target{
		Label: mustLabel(t, "//lib:gen"),
		Kind:  KindGenrule,
		Outs:  []string{"lib/out.txt"},
		Argv:  []string{"cp", "lib/in.txt", "lib/out.txt"},
		Deps:  []label.Label{files.Label},
	}
	bundle := &config.Target{
		Label: mustLabel(t, "//app:bundle"),
		Kind:  KindGenrule,
		Srcs:  []string{"app/main.txt"},
		Outs:  []string{"app/bundle.tar"},
		Deps:  []label.Label{gen.Label},
	}

	store, err := New(buildGraph(t, files, gen, bundle), 4).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, store.Len())

	// A filegroup analyzes to a present-but-empty action sequence.
	v, ok := store.Get(files.Label)
	require.True(t, ok)
	actions, err := v.Actions()
	require.NoError(t, err)
	assert.Empty(t, actions)

	// A genrule's action inherits its filegroup dep's srcs as inputs.
	v, ok = store.Get(gen.Label)
	require.True(t, ok)
	actions, err = v.Actions()
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "Genrule", actions[0].Mnemonic)
	assert.Equal(t, []string{"lib/in.txt"}, actions[0].Inputs)
	assert.Equal(t, []string{"lib/out.txt"}, actions[0].Outputs)

	// A genrule depending on another genrule sees its outs as inputs.
	v, ok = store.Get(bundle.Label)
	require.True(t, ok)
	actions, err = v.Actions()
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, []string{"app/main.txt", "lib/out.txt"}, actions[0].Inputs)
}

func TestRun_FailureSkipsDependents(t *testing.T) {
	bad := &config.Target{
		Label: mustLabel(t, "//p:bad"),
		Kind:  "mystery",
	}
	dependent := &config.Target{
		Label: mustLabel(t, "//p:dependent"),
		Kind:  KindGenrule,
		Outs:  []string{"p/out.txt"},
		Deps:  []label.Label{bad.Label},
	}
	unrelated := &config.Target{
		Label: mustLabel(t, "//p:unrelated"),
		Kind:  KindGenrule,
		Outs:  []string{"p/other.txt"},
	}

	store, err := New(buildGraph(t, bad, dependent, unrelated), 2).Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown rule kind")
	assert.ErrorContains(t, err, "//p:bad")

	// The failure does not stop independent subgraphs.
	_, ok := store.Get(unrelated.Label)
	assert.True(t, ok)
	_, ok = store.Get(dependent.Label)
	assert.False(t, ok)
}

func TestRun_DuplicateDepsEntry(t *testing.T) {
	files := &config.Target{
		Label: mustLabel(t, "//lib:files"),
		Kind:  KindFilegroup,
		Srcs:  []string{"lib/in.txt"},
	}
	gen := &config.Target{
		Label: mustLabel(t, "//lib:gen"),
		Kind:  KindGenrule,
		Outs:  []string{"lib/out.txt"},
		Deps:  []label.Label{files.Label, files.Label},
	}

	// The graph stores one edge per distinct dependency, so a repeated
	// deps entry must not leave the target waiting on a second decrement.
	var store *analysis.Store
	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		store, err = New(buildGraph(t, files, gen), 2).Run(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("analysis did not finish")
	}
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	// The repeated entry also counts once toward the action's inputs.
	v, ok := store.Get(gen.Label)
	require.True(t, ok)
	actions, err := v.Actions()
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, []string{"lib/in.txt"}, actions[0].Inputs)
}

func TestRun_GenruleWithoutOuts(t *testing.T) {
	bad := &config.Target{
		Label: mustLabel(t, "//p:bad"),
		Kind:  KindGenrule,
	}

	_, err := New(buildGraph(t, bad), 1).Run(context.Background())
	assert.ErrorContains(t, err, "declares no outputs")
}

func TestRun_EmptyGraph(t *testing.T) {
	store, err := New(buildGraph(t), 1).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestRun_SingleWorkerWideGraph(t *testing.T) {
	var targets []*config.Target
	var deps []label.Label
	for _, name := range []string{"a", "b", "c", "d"} {
		tgt := &config.Target{
			Label: mustLabel(t, "//p:"+name),
			Kind:  KindGenrule,
			Outs:  []string{"p/" + name + ".out"},
		}
		targets = append(targets, tgt)
		deps = append(deps, tgt.Label)
	}
	targets = append(targets, &config.Target{
		Label: mustLabel(t, "//p:top"),
		Kind:  KindGenrule,
		Outs:  []string{"p/top.out"},
		Deps:  deps,
	})

	store, err := New(buildGraph(t, targets...), 1).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, store.Len())

	v, ok := store.Get(mustLabel(t, "//p:top"))
	require.True(t, ok)
	actions, err := v.Actions()
	require.NoError(t, err)
	assert.Equal(t, []string{"p/a.out", "p/b.out", "p/c.out", "p/d.out"}, actions[0].Inputs)
}
