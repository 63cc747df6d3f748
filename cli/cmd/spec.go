package cmd

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/windstyle/expression"
)

// specExts are the file extensions tried, in order, for a spec name found on
// the spec path.
var specExts = []string{".yaml", ".yml", ".json"}

// target selects the property spec expressions are typed against.
type target struct {
	Spec string `default:"particle-color" help:"Built-in property name, spec name on the spec path, or spec file" placeholder:"SPEC" short:"t"`
}

func (t target) load(ctx context.Context) (*expression.PropertySpec, error) {
	return LookupSpec(t.Spec, specPathFrom(ctx))
}

// LookupSpec resolves name to a property spec. Built-in particle properties
// take precedence, followed by a spec file at path name, then by the first
// name.yaml, name.yml, or name.json found in dirs.
func LookupSpec(name string, dirs []string) (*expression.PropertySpec, error) {
	if spec, ok := expression.BuiltinSpecs()[name]; ok {
		return spec, nil
	}

	candidates := []string{name}

	if filepath.Base(name) == name && filepath.Ext(name) == "" {
		for _, dir := range dirs {
			for _, ext := range specExts {
				candidates = append(candidates, filepath.Join(dir, name+ext))
			}
		}
	}

	for _, path := range candidates {
		file, err := os.Open(path)
		if err != nil {
			continue
		}

		spec, err := expression.LoadSpec(file)
		_ = file.Close()

		if err != nil {
			return nil, expression.WrapError(err).With(slog.String("file", path))
		}

		return spec, nil
	}

	return nil, ErrUnknownSpec.With(
		slog.String("spec", name),
		slog.String("builtin", strings.Join(slices.Sorted(maps.Keys(expression.BuiltinSpecs())), ",")),
		slog.String("path", strings.Join(dirs, string(os.PathListSeparator))),
	)
}
