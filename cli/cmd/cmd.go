package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/windstyle/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

type (
	sourcesKey  struct{}
	specPathKey struct{}
)

// Sources is a deduplicated list of expression document paths. Regular files
// are absolute and symlink-free. Stdin, if named, is always last.
type Sources []string

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// WithSources returns a new context.Context containing the expression
// document files named by sources.
//
// Duplicates are dropped by comparing device/inode pairs after resolving
// symlinks, and every occurrence of "-" collapses to a single stdin source
// placed last. Files that cannot be resolved are skipped.
func WithSources(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourcesKey{}, uniqueSources(sources))
}

func uniqueSources(sources []string) Sources {
	if len(sources) == 0 {
		return nil
	}

	srcs := make(Sources, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, stdinOK := makeFileKey(stdinInfo)
	hasStdin := false

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		path, key, ok := resolveSource(src)
		if !ok {
			log.Debug("skipping source", slog.String("path", src))

			continue
		}

		// Stdin may also be named by a path such as /dev/stdin.
		if stdinOK && key == stdinKey {
			hasStdin = true

			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		srcs = append(srcs, path)
	}

	if hasStdin {
		srcs = append(srcs, stdinSource)
	}

	if len(srcs) == 0 {
		return nil
	}

	return srcs
}

// resolveSource returns the absolute, symlink-free path of src and its
// device/inode key.
func resolveSource(src string) (string, fileKey, bool) {
	absPath, err := filepath.Abs(src)
	if err != nil {
		return "", fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return "", fileKey{}, false
	}

	key, ok := makeFileKey(info)

	return resolved, key, ok
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourcesFrom retrieves the sources stored in ctx by WithSources.
func sourcesFrom(ctx context.Context) Sources {
	s, _ := ctx.Value(sourcesKey{}).(Sources)

	return s
}

// Files returns the regular files of s, excluding stdin.
func (s Sources) Files() []string {
	if n := len(s); n > 0 && s[n-1] == stdinSource {
		return s[:n-1]
	}

	return s
}

// readSource reads the whole document named by path.
func readSource(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if path == stdinSource {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", path))
	}

	return data, nil
}

// WithSpecPath returns a new context.Context containing the directories
// searched for property spec files.
func WithSpecPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, specPathKey{}, dirs)
}

func specPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(specPathKey{}).([]string)

	return dirs
}
