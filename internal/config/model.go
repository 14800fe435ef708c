package config

import (
	"sort"

	"github.com/vk/buildgrid/internal/label"
)

// Model is the unified, format-agnostic representation of the entire build
// configuration loaded for one run.
type Model struct {
	Targets []*Target
}

// Target is the format-agnostic representation of a `target` block.
type Target struct {
	// Label uniquely identifies the target within the workspace.
	Label label.Label
	// Kind is the rule kind, e.g. "genrule" or "filegroup". It decides how
	// the analyzer synthesizes actions for the target.
	Kind string
	// Srcs are workspace-relative source paths the target reads.
	Srcs []string
	// Outs are workspace-relative output paths the target produces.
	Outs []string
	// Argv is the command line for rule kinds that run one.
	Argv []string
	// Deps are the labels of targets this target depends on.
	Deps []label.Label
}

// SortTargets orders the model's targets by canonical label so that
// iteration over the model is deterministic regardless of load order.
func (m *Model) SortTargets() {
	sort.Slice(m.Targets, func(i, j int) bool {
		return m.Targets[i].Label.String() < m.Targets[j].Label.String()
	})
}
