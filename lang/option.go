package lang

import "github.com/ardnew/miltov/log"

// DefaultMaxDepth is the default limit on nested user function calls.
const DefaultMaxDepth = 10000

// Option configures parsing and evaluation.
type Option func(*config)

type config struct {
	logger   log.Logger
	sink     Sink
	actions  Actions
	maxDepth int
}

func makeConfig(opts ...Option) config {
	cfg := config{
		sink:     discard{},
		actions:  Actions{},
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithSink sets the destination of message and shout statements.
// A nil sink discards output.
func WithSink(sink Sink) Option {
	return func(c *config) {
		if sink == nil {
			sink = discard{}
		}

		c.sink = sink
	}
}

// WithActions adds host actions. Later registrations replace earlier ones of
// the same name.
func WithActions(actions ...Actions) Option {
	return func(c *config) {
		c.actions = c.actions.Merge(actions...)
	}
}

// WithMaxDepth limits nested user function calls. Values less than 1 select
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		c.maxDepth = depth
	}
}
