package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Loader reads a manifest file and translates it into the Model.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}

// LoaderFor picks a loader by file extension.
func LoaderFor(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return NewHCLLoader(), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported manifest format %q: use .hcl, .yaml or .yml", filepath.Ext(path))
	}
}

// Load reads the manifest at path. An empty path yields Default().
func Load(ctx context.Context, path string) (*Model, error) {
	if path == "" {
		return Default(), nil
	}
	l, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, path)
}
