package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/selfreg/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HCLLoader is the HCL implementation of Loader.
type HCLLoader struct {
	// Environ supplies the env variable; it defaults to os.Environ.
	Environ func() []string
}

// NewHCLLoader creates a new HCL manifest loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{Environ: os.Environ}
}

// hclRoot is the top-level schema of an HCL manifest.
type hclRoot struct {
	Order   []string     `hcl:"order,optional"`
	Policy  *hclPolicy   `hcl:"policy,block"`
	Modules []*hclModule `hcl:"module,block"`
}

type hclPolicy struct {
	DuplicateNames *string `hcl:"duplicate_names,optional"`
	Unresolved     *string `hcl:"unresolved,optional"`
	Parallelism    *int    `hcl:"parallelism,optional"`
}

type hclModule struct {
	Name     string         `hcl:"name,label"`
	Enabled  *bool          `hcl:"enabled,optional"`
	Settings hcl.Expression `hcl:"settings,optional"`
}

// Load parses the HCL file at path.
func (l *HCLLoader) Load(ctx context.Context, path string) (*Model, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return l.Parse(ctx, src, path)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func (l *HCLLoader) Parse(ctx context.Context, src []byte, filename string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL manifest loader started.", "file", filename)

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL manifest %s: %w", filename, diags)
	}

	evalCtx := l.evalContext()
	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL manifest %s: %w", filename, diags)
	}

	model := Default()
	model.Order = root.Order
	if p := root.Policy; p != nil {
		if p.DuplicateNames != nil {
			model.Policy.DuplicateNames = *p.DuplicateNames
		}
		if p.Unresolved != nil {
			model.Policy.Unresolved = *p.Unresolved
		}
		if p.Parallelism != nil {
			model.Policy.Parallelism = *p.Parallelism
		}
	}

	for _, block := range root.Modules {
		if _, dup := model.Modules[block.Name]; dup {
			return nil, fmt.Errorf("HCL manifest %s: duplicate module block %q", filename, block.Name)
		}
		mod := &Module{Name: block.Name, Enabled: true}
		if block.Enabled != nil {
			mod.Enabled = *block.Enabled
		}
		settings, err := decodeSettings(block.Settings, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("HCL manifest %s: module %q: %w", filename, block.Name, err)
		}
		mod.Settings = settings
		model.Modules[block.Name] = mod
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("HCL manifest %s: %w", filename, err)
	}
	logger.Debug("HCL manifest loaded.", "order", model.Order, "modules", len(model.Modules))
	return model, nil
}

// evalContext exposes the process environment as the env object.
func (l *HCLLoader) evalContext() *hcl.EvalContext {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	vars := make(map[string]cty.Value)
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

// decodeSettings turns the settings attribute into a flat string map. Any
// object or map whose values convert to strings is accepted.
func decodeSettings(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, errors.New("settings must be known at load time")
	}

	converted, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("settings must be a map of strings: %w", err)
	}
	var out map[string]string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return out, nil
}
