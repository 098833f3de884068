package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/selfreg/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// YAMLLoader is the YAML implementation of Loader.
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAML manifest loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

type yamlRoot struct {
	Order   []string               `yaml:"order"`
	Policy  *yamlPolicy            `yaml:"policy"`
	Modules map[string]*yamlModule `yaml:"modules"`
}

type yamlPolicy struct {
	DuplicateNames *string `yaml:"duplicate_names"`
	Unresolved     *string `yaml:"unresolved"`
	Parallelism    *int    `yaml:"parallelism"`
}

type yamlModule struct {
	Enabled  *bool             `yaml:"enabled"`
	Settings map[string]string `yaml:"settings"`
}

// Load parses the YAML file at path.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*Model, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return l.Parse(ctx, src, path)
}

// Parse decodes YAML source. Unknown keys are rejected.
func (l *YAMLLoader) Parse(ctx context.Context, src []byte, filename string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML manifest loader started.", "file", filename)

	var root yamlRoot
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML manifest %s: %w", filename, err)
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
	for name, entry := range root.Modules {
		mod := &Module{Name: name, Enabled: true}
		if entry != nil {
			if entry.Enabled != nil {
				mod.Enabled = *entry.Enabled
			}
			mod.Settings = entry.Settings
		}
		model.Modules[name] = mod
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("YAML manifest %s: %w", filename, err)
	}
	logger.Debug("YAML manifest loaded.", "order", model.Order, "modules", len(model.Modules))
	return model, nil
}
