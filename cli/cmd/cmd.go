package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/miltov/lang"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
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

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write their
// results to w instead of stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Sources reads the concatenation of one or more script sources.
type Sources struct {
	io.Reader

	names  []string
	closer []io.Closer
}

// Name describes the sources for log messages.
func (s *Sources) Name() string { return strings.Join(s.names, ",") }

// Close closes every opened file.
func (s *Sources) Close() error {
	var first error

	for _, c := range s.closer {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// Parse reads all sources and parses them as one program.
func (s *Sources) Parse(ctx context.Context, opts ...lang.Option) (*lang.Program, error) {
	return lang.ParseReader(ctx, s, opts...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each path in order. An empty list or "-" reads stdin.
//
// Files are deduplicated by device and inode after resolving symlinks. Stdin
// is read once, after all regular files, however many times it is named,
// including by the path of the file it is redirected from.
func openSources(paths []string) (*Sources, error) {
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	var (
		srcs     Sources
		readers  []io.Reader
		hasStdin bool
		stdinKey fileKey
	)

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(info)
	}

	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(path, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrReadSource.Wrap(err).With(slog.String("file", path))
		}

		if file == nil {
			continue
		}

		if key != (fileKey{}) && key == stdinKey {
			hasStdin = true

			_ = file.Close()

			continue
		}

		readers = append(readers, file)
		srcs.closer = append(srcs.closer, file)
		srcs.names = append(srcs.names, path)
	}

	if hasStdin {
		readers = append(readers, os.Stdin)
		srcs.names = append(srcs.names, stdinSource)
	}

	srcs.Reader = io.MultiReader(separated(readers)...)

	return &srcs, nil
}

// separated returns readers with a newline between each pair, so a source
// without a trailing newline cannot run into the next one.
func separated(readers []io.Reader) []io.Reader {
	out := make([]io.Reader, 0, 2*len(readers))

	for i, r := range readers {
		if i > 0 {
			out = append(out, strings.NewReader("\n"))
		}

		out = append(out, r)
	}

	return out
}

// openUniqueFile opens the file at path unless an equivalent file is in
// seen, in which case it returns a nil file and no error.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
