package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/ardnew/windstyle/pkg"
)

const (
	// baseConfig is the base name of the configuration file.
	baseConfig = "config.yaml"

	// baseSpecs is the directory under the configuration directory searched
	// last for property spec files.
	baseSpecs = "specs"
)

// DefaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// specPathEnv returns the name of the environment variable holding the
// spec search path, e.g. WINDSTYLE_SPEC_PATH.
func specPathEnv() string { return pkg.EnvName("spec-path") }

// specPath returns the directories searched for property spec files: the
// --spec-path flags first, then the spec path environment variable, then
// the specs directory of the configuration directory. Duplicates keep their
// first position.
func specPath(flags []string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(specPathEnv()), configPath(baseSpecs)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(flags...),
		mung.WithFilter(func(dir string) bool { return dir != "" }),
	).String()

	var dirs []string

	seen := make(map[string]struct{})

	for _, dir := range filepath.SplitList(list) {
		if dir == "" {
			continue
		}

		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; ok {
			continue
		}

		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	return dirs
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
