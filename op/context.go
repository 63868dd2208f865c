package op

import (
	"github.com/gogpu/stroketess"
)

// Context is the read-mostly state shared by every op of a device:
// capabilities, the program cache and strategy policy. It is safe for
// concurrent pre-preparation.
type Context struct {
	caps     Caps
	programs *ProgramCache
	hardware bool
}

type contextOptions struct {
	hardware  bool
	cacheSize int
}

// ContextOption configures NewContext.
type ContextOption func(*contextOptions)

// WithHardwareTessellation allows (the default) or forbids the hardware
// tessellation strategy. Forbidding it forces indirect draws on every
// device.
func WithHardwareTessellation(enabled bool) ContextOption {
	return func(o *contextOptions) { o.hardware = enabled }
}

// WithProgramCacheSize bounds the number of cached pipelines. 0 means
// unlimited.
func WithProgramCacheSize(n int) ContextOption {
	return func(o *contextOptions) { o.cacheSize = n }
}

// ContextOptionsFromConfig translates cfg into context options.
func ContextOptionsFromConfig(cfg stroketess.Config) []ContextOption {
	return []ContextOption{
		WithHardwareTessellation(!cfg.Tessellation.DisableHardware),
		WithProgramCacheSize(cfg.Tessellation.ProgramCacheSize),
	}
}

// NewContext returns a context for a device with caps whose pipelines
// are built by builder.
func NewContext(caps Caps, builder ProgramBuilder, opts ...ContextOption) *Context {
	o := contextOptions{hardware: true, cacheSize: stroketess.DefaultProgramCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Context{
		caps:     caps,
		programs: NewProgramCache(builder, o.cacheSize),
		hardware: o.hardware,
	}
}

// Caps returns the device capabilities.
func (c *Context) Caps() Caps { return c.caps }

// Programs returns the shared program cache.
func (c *Context) Programs() *ProgramCache { return c.programs }

// HardwareTessellationAllowed reports whether policy permits the
// hardware strategy. Device support is checked separately.
func (c *Context) HardwareTessellationAllowed() bool { return c.hardware }

// Release releases every cached pipeline.
func (c *Context) Release() { c.programs.Release() }
