// SPDX-License-Identifier: MIT

package sketch

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option configures a transform at construction.
type Option func(*options)

type options struct {
	logger *log.Logger
	fut    FUTKind
	id     uint64
	named  bool // id was set with WithIdentity
}

func defaultOptions() options {
	return options{
		logger: log.New(io.Discard),
		fut:    DCTKind,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// WithLogger routes construction and apply events to l at debug level.
// A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFUT selects the fast transform used by FJLT (DCTKind by default).
func WithFUT(k FUTKind) Option {
	return func(o *options) { o.fut = k }
}

// WithIdentity names the transform: its random data is drawn from a block
// derived from id alone (see Context.Scope) instead of the next block of the
// shared counter. Transforms built with the same seed, id and shape are equal
// whatever the order or concurrency of construction.
func WithIdentity(id uint64) Option {
	return func(o *options) { o.id, o.named = id, true }
}

// contextFor returns the context the transform reserves its slots from.
func (o options) contextFor(ctx *Context) *Context {
	if !o.named || ctx == nil {
		return ctx
	}

	return ctx.Scope(o.id)
}
