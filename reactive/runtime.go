package reactive

import (
	"errors"
	"io"
	"log/slog"
)

const DefaultMaxDepth = 64

var (
	ErrReentrantEvaluation = errors.New("subscriber evaluation already in progress")
	ErrCycle               = errors.New("cyclic structure")
	ErrMaxDepth            = errors.New("maximum nesting depth exceeded")
	ErrNotObservable       = errors.New("value is not a structured value")
	ErrUnknownKey          = errors.New("unknown key")
)

// Runtime holds the active-subscriber register shared by every object it
// converts. A Runtime is not safe for concurrent use.
type Runtime struct {
	activeSub    *Watcher
	logger       *slog.Logger
	maxDepth     int
	detectCycles bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for diagnostics. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithMaxDepth bounds how deep conversion descends into nested values.
func WithMaxDepth(depth int) Option {
	return func(rt *Runtime) {
		if depth > 0 {
			rt.maxDepth = depth
		}
	}
}

// WithCycleDetection controls whether a value that contains one of its own
// ancestors is rejected with ErrCycle. When disabled the ancestor's converted
// object is reused, producing a cyclic object graph.
func WithCycleDetection(enabled bool) Option {
	return func(rt *Runtime) {
		rt.detectCycles = enabled
	}
}

// NewRuntime returns a Runtime with an empty register, cycle detection on
// and a conversion depth of DefaultMaxDepth.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth:     DefaultMaxDepth,
		detectCycles: true,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Logger returns the runtime's diagnostic logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Tracking reports whether a subscriber currently occupies the register.
func (rt *Runtime) Tracking() bool {
	return rt.activeSub != nil
}

// track runs fn with w in the register. The register is released even if fn
// panics.
func (rt *Runtime) track(w *Watcher, fn func()) error {
	if rt.activeSub != nil {
		return ErrReentrantEvaluation
	}
	rt.activeSub = w
	defer func() {
		rt.activeSub = nil
	}()
	fn()
	return nil
}
