package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name of the running executable. It names the
// configuration and cache directories and prefixes environment variables
// (see [EnvName]).
//
// Debugger and test binaries ("__debug_bin1234", "cmd.test") are reported
// as [Name], and leading dots are removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))
		id = leadingDots.ReplaceAllString(id, "")

		if id == "" || debugBin.MatchString(id) || filepath.Ext(filepath.Base(os.Args[0])) == ".test" {
			return Name
		}

		return id
	},
)

var (
	debugBin    = regexp.MustCompile(`^__debug_bin\d*$`)
	leadingDots = regexp.MustCompile(`^\.+`)
)

// EnvName returns the environment variable named by suffix under [Prefix],
// e.g. EnvName("spec-path") is "WINDSTYLE_SPEC_PATH".
func EnvName(suffix string) string {
	r := strings.NewReplacer("-", "_", ".", "_", " ", "_")

	return strings.ToUpper(r.Replace(Prefix()) + "_" + r.Replace(suffix))
}

// ConfigDir returns the directory holding the configuration file and spec
// files. The CONFIG_DIR variable (see [EnvName]) overrides it.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return userDir("config-dir", os.UserConfigDir, ".config")
	},
)

// CacheDir returns the directory holding REPL history and profiles. The
// CACHE_DIR variable (see [EnvName]) overrides it.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return userDir("cache-dir", os.UserCacheDir, ".cache")
	},
)

// userDir returns the Prefix directory under base(), falling back to the
// hidden directory under $HOME and then to the working directory.
func userDir(env string, base func() (string, error), hidden string) string {
	if dir := os.Getenv(EnvName(env)); dir != "" {
		return filepath.Clean(dir)
	}

	dir, err := base()
	if err != nil {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
