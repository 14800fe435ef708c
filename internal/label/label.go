package label

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Label is the structured representation of a unique build target
// identifier. The zero value is not a valid label; use Parse or New.
type Label struct {
	// pkg is the slash-separated package path, without the leading `//`.
	// Empty for the workspace root package.
	pkg string
	// name is the target's instance name within the package.
	name string
}

// segmentRegex validates a single package path segment or target name.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.+-]*$`)

// New constructs a label from an already-split package path and name.
func New(pkg, name string) (Label, error) {
	if err := validatePkg(pkg); err != nil {
		return Label{}, err
	}
	if !segmentRegex.MatchString(name) {
		return Label{}, fmt.Errorf("invalid target name: %q", name)
	}
	return Label{pkg: pkg, name: name}, nil
}

// Parse creates a Label by parsing its canonical string representation.
// Accepted forms are `//pkg/path:name`, `//pkg/path` (name defaults to the
// last path segment), and `//:name` for the root package.
func Parse(raw string) (Label, error) {
	if raw == "" {
		return Label{}, fmt.Errorf("label cannot be empty")
	}
	if !strings.HasPrefix(raw, "//") {
		return Label{}, fmt.Errorf("label must start with //: %q", raw)
	}

	rest := raw[2:]
	pkg := rest
	name := ""
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		pkg = rest[:i]
		name = rest[i+1:]
		if name == "" {
			return Label{}, fmt.Errorf("label has empty target name: %q", raw)
		}
	} else {
		if pkg == "" {
			return Label{}, fmt.Errorf("label names neither a package nor a target: %q", raw)
		}
		name = path.Base(pkg)
	}

	return New(pkg, name)
}

func validatePkg(pkg string) error {
	if pkg == "" {
		return nil
	}
	for _, seg := range strings.Split(pkg, "/") {
		if !segmentRegex.MatchString(seg) {
			return fmt.Errorf("invalid package path segment: %q", seg)
		}
	}
	return nil
}

// String serializes the Label into its canonical `//pkg:name` form. The
// target name is always spelled out, even when it matches the last package
// path segment, so canonical strings sort and compare predictably.
func (l Label) String() string {
	var sb strings.Builder
	sb.WriteString("//")
	sb.WriteString(l.pkg)
	sb.WriteByte(':')
	sb.WriteString(l.name)
	return sb.String()
}

// Package returns the slash-separated package path, empty for the root package.
func (l Label) Package() string {
	return l.pkg
}

// Name returns the target's instance name within its package.
func (l Label) Name() string {
	return l.name
}

// Equal checks for equality between two labels.
func (l Label) Equal(other Label) bool {
	return l == other
}

// IsZero reports whether the label is the (invalid) zero value.
func (l Label) IsZero() bool {
	return l == Label{}
}
