package eval

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// Option configures a single evaluation.
type Option func(*config)

type config struct {
	ctx    context.Context
	logger *log.Logger
}

func newConfig(opts []Option) *config {
	c := &config{ctx: context.Background()}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// WithLogger routes per-node debug messages to l.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithContext sets the context handed to observability hooks. Evaluation
// itself is not cancellable.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}
