package flecs

import (
	"github.com/BlackPhoenix134/flecs-go/native"
	"go.uber.org/zap"
)

// Option configures a world during NewWorld.
type Option func(*worldOptions)

type worldOptions struct {
	engine  native.Engine
	logger  *zap.Logger
	threads int
	args    []string
}

func defaultOptions() worldOptions {
	return worldOptions{
		logger: zap.NewNop(),
	}
}

// WithEngine runs the world on the given engine instead of the embedded one.
// The engine must not be initialized yet.
func WithEngine(engine native.Engine) Option {
	return func(o *worldOptions) {
		o.engine = engine
	}
}

// WithLogger routes bridge and engine debug output to the given logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *worldOptions) {
		o.logger = logger
	}
}

// WithArgs forwards bootstrap arguments to the engine, argv style and
// unparsed.
func WithArgs(args ...string) Option {
	return func(o *worldOptions) {
		o.args = args
	}
}

// WithThreads bounds the workers the embedded engine uses for multi threaded
// systems. It has no effect on an engine supplied via WithEngine.
func WithThreads(n int) Option {
	return func(o *worldOptions) {
		o.threads = n
	}
}
