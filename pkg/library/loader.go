// Package library loads named patterns from YAML files, validates them
// against their examples, and compiles them into a registry as a Set.
package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/regcache/pkg/types"
	"gopkg.in/yaml.v3"
)

// builtinDir is the directory of builtinFS holding pattern files.
const builtinDir = "patterns"

// Loader handles loading patterns from YAML files.
type Loader struct {
	fs fs.FS // source of built-in patterns
}

// NewLoader creates a loader with the built-in patterns from the embedded filesystem.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinFS,
	}
}

// NewLoaderWithFS creates a loader whose built-in patterns come from fsys.
// fsys must contain a "patterns" directory.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

// Parse loads every pattern in a YAML document.
func (l *Loader) Parse(data []byte) ([]*types.Pattern, error) {
	var file yamlPatternsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Patterns) == 0 {
		return nil, fmt.Errorf("no patterns found in YAML")
	}

	patterns := make([]*types.Pattern, 0, len(file.Patterns))
	for _, yp := range file.Patterns {
		patterns = append(patterns, convertYAMLPattern(yp))
	}
	return patterns, nil
}

// LoadFile loads the patterns in a YAML file.
func (l *Loader) LoadFile(path string) ([]*types.Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	patterns, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return patterns, nil
}

// LoadPath loads a YAML file, or every .yml/.yaml file below a directory.
// Files in a directory are read in lexical order.
func (l *Loader) LoadPath(path string) ([]*types.Pattern, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return l.LoadFile(path)
	}

	return l.walk(os.DirFS(path), ".", path)
}

// LoadBuiltin loads all built-in patterns.
func (l *Loader) LoadBuiltin() ([]*types.Pattern, error) {
	return l.walk(l.fs, builtinDir, "")
}

func (l *Loader) walk(fsys fs.FS, root, display string) ([]*types.Pattern, error) {
	var patterns []*types.Pattern

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		loaded, err := l.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Join(display, path), err)
		}
		patterns = append(patterns, loaded...)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return patterns, nil
}

func isYAML(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yml" || ext == ".yaml"
}

// convertYAMLPattern converts yamlPattern to types.Pattern and computes StructuralID.
func convertYAMLPattern(yp yamlPattern) *types.Pattern {
	p := &types.Pattern{
		ID:               yp.ID,
		Name:             yp.Name,
		Pattern:          yp.Pattern,
		Description:      yp.Description,
		Examples:         yp.Examples,
		NegativeExamples: yp.NegativeExamples,
		Categories:       yp.Categories,
		Keywords:         yp.Keywords,
	}
	p.StructuralID = p.ComputeStructuralID()
	return p
}
