package querysql

import "log/slog"

// DefaultLimit is the page size used when limit is absent or unusable.
const DefaultLimit = 50

// Option configures a Compiler.
type Option func(*Compiler)

// WithMaxDepth bounds filter nesting (0 = filterir.DefaultMaxDepth).
func WithMaxDepth(depth int) Option {
	return func(c *Compiler) {
		c.maxDepth = depth
	}
}

// WithDefaultLimit sets the page size used when limit is absent or invalid.
// Non-positive values are ignored.
func WithDefaultLimit(limit int) Option {
	return func(c *Compiler) {
		if limit > 0 {
			c.defaultLimit = limit
		}
	}
}

// WithMaxLimit clamps larger limits down to max. Zero disables the clamp.
func WithMaxLimit(max int) Option {
	return func(c *Compiler) {
		if max >= 0 {
			c.maxLimit = max
		}
	}
}

// WithLogger sets the logger used for degraded input and debug summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}
