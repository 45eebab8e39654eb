package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache stores parsed programs keyed by the xxh3 hash of their source.
// Programs are immutable, so every caller may share the cached instance.
var programCache sync.Map

// entry parses its source at most once.
type entry struct {
	once    sync.Once
	program *Program
	err     error
}

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Fetch ahead asynchronously while earlier chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString lexes and parses src into a [Program].
//
// Results, including errors, are cached by source content, so identical
// sources are parsed once even when requested from many goroutines.
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	hash := xxh3.HashString(src)

	value, hit := programCache.LoadOrStore(hash, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return parse(src)
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Int("source_bytes", len(src)),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.program, e.err = parse(src)
	})

	if e.err != nil {
		return nil, e.err
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("statements", len(e.program.Body)),
	)

	return e.program, nil
}

// ClearCache removes all cached programs.
func ClearCache() {
	programCache.Clear()
}
