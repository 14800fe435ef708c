// Package action defines the descriptor for a single step that produces
// build outputs. Descriptors are opaque metadata to the rest of the system:
// they are created during analysis, owned by the analysis value of the
// target that generated them, and never executed or mutated here.
package action

import (
	"fmt"
	"strings"

	"github.com/vk/buildgrid/internal/label"
)

// Descriptor describes one output-producing step of a build target.
// A Descriptor is immutable after construction; the slices it carries must
// not be modified by consumers.
type Descriptor struct {
	// Mnemonic is a short, human-readable verb for the kind of work,
	// e.g. "Genrule".
	Mnemonic string
	// Owner is the label of the target whose analysis created this action.
	Owner label.Label
	// Inputs are the workspace-relative paths the action reads.
	Inputs []string
	// Outputs are the workspace-relative paths the action writes.
	Outputs []string
	// Argv is the command line the action would run, empty for actions that
	// are pure file operations.
	Argv []string
}

// String renders a one-line diagnostic form of the descriptor,
// e.g. `Genrule //lib:gen -> [lib/out.txt]`.
func (d Descriptor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s -> [%s]", d.Mnemonic, d.Owner, strings.Join(d.Outputs, ", "))
	return sb.String()
}
