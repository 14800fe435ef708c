// Package schema holds the HCL-specific struct definitions that build files
// decode into. The hcl package translates these into the format-agnostic
// config model; nothing else should import this package.
package schema

import "github.com/hashicorp/hcl/v2"

// Target represents a `target` block from a build file. The two block
// labels are the rule kind and the target's instance name, e.g.
// `target "genrule" "docs" { ... }`.
type Target struct {
	Kind string   `hcl:"kind,label"`
	Name string   `hcl:"instance_name,label"`
	Srcs []string `hcl:"srcs,optional"`
	Outs []string `hcl:"outs,optional"`
	Argv []string `hcl:"argv,optional"`
	Deps []string `hcl:"deps,optional"`
}

// Locals represents a `locals` block. Its attributes are evaluated first
// and exposed to the rest of the file as `local.<name>`.
type Locals struct {
	Body hcl.Body `hcl:",remain"`
}

// BuildFile represents the top-level structure of one build file.
type BuildFile struct {
	Locals  []*Locals `hcl:"locals,block"`
	Targets []*Target `hcl:"target,block"`
}
