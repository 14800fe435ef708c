package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/ctxlog"
	"github.com/vk/buildgrid/internal/fsutil"
	"github.com/vk/buildgrid/internal/label"
	"github.com/vk/buildgrid/internal/schema"
)

// buildFileExtension selects which files under the workspace root are
// treated as build files.
const buildFileExtension = ".hcl"

// Loader reads HCL build files and translates them into the config model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load implements config.Loader. It discovers all build files under root,
// parses each one, and merges the declared targets into a single model,
// rejecting duplicate labels across files.
func (l *Loader) Load(ctx context.Context, root string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(root, buildFileExtension)
	if err != nil {
		return nil, fmt.Errorf("discovering build files: %w", err)
	}
	logger.Debug("Build file discovery complete.", "root", root, "file_count", len(files))

	model := &config.Model{}
	seen := make(map[label.Label]string)
	for _, path := range files {
		targets, err := l.loadFile(ctx, root, path)
		if err != nil {
			return nil, err
		}
		for _, t := range targets {
			if prev, dup := seen[t.Label]; dup {
				return nil, fmt.Errorf("duplicate target %s: declared in both %s and %s", t.Label, prev, path)
			}
			seen[t.Label] = path
			model.Targets = append(model.Targets, t)
		}
	}

	model.SortTargets()
	logger.Debug("Build configuration loaded.", "target_count", len(model.Targets))
	return model, nil
}

// loadFile parses and translates a single build file.
func (l *Loader) loadFile(ctx context.Context, root, path string) ([]*config.Target, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing build file.", "path", path)

	f, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	evalCtx, err := localsContext(f.Body)
	if err != nil {
		return nil, fmt.Errorf("evaluating locals in %s: %w", path, err)
	}

	var bf schema.BuildFile
	if diags := gohcl.DecodeBody(f.Body, evalCtx, &bf); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", path, diags)
	}

	pkg, err := packagePath(root, path)
	if err != nil {
		return nil, err
	}
	return translateTargets(pkg, bf.Targets)
}

// localsSchema extracts only the locals blocks during the first decode pass.
var localsSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "locals"}},
}

// localsContext evaluates every `locals` block in the body and returns an
// evaluation context exposing them as `local.<name>`. Locals must evaluate
// without referencing other variables.
func localsContext(body hcl.Body) (*hcl.EvalContext, error) {
	content, _, diags := body.PartialContent(localsSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	locals := make(map[string]cty.Value)
	for _, block := range content.Blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, diags
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("local %q: %w", name, diags)
			}
			locals[name] = val
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"local": cty.ObjectVal(locals),
		},
	}, nil
}

// packagePath derives the slash-separated package path of a build file from
// its location relative to the workspace root.
func packagePath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("resolving package path of %s: %w", path, err)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}
