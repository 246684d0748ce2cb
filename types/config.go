package types

import "time"

// MetricsSink receives timing observations from the resolution engine's
// <BUILD> and <CUSTOMIZE> steps. Implementations live in package metrics;
// this interface is declared here, next to Config, purely to avoid a
// dependency from types on metrics.
type MetricsSink interface {
	// ObserveBuild records how long Construct took to build name.
	ObserveBuild(name Name, d time.Duration)
	// ObserveCustomize records how long one Customizer took to wrap name.
	ObserveCustomize(name Name, label string, d time.Duration)
}

// Config carries the cross-cutting settings every Factory is built with:
// how it logs, where it reports timings, and the global properties a Rule
// may consult while building its Engines. It is assembled once, via
// NewConfig and a chain of Options, and then treated as read-only.
type Config struct {
	// Logger receives structured diagnostic output during bootstrap and
	// resolution. Defaults to a no-op Logger.
	Logger Logger

	// Metrics receives <BUILD>/<CUSTOMIZE> timing observations. Defaults
	// to a no-op sink.
	Metrics MetricsSink

	// Properties holds free-form key/value configuration (connection
	// strings, feature flags, environment name) that Rules may read while
	// deciding what to build. Populated by bootstrap configuration
	// loading or set directly with WithProperty.
	Properties map[string]string

	// BuildTimeout bounds how long a single Builder.Build call may run
	// before it is aborted. Zero means no timeout.
	BuildTimeout time.Duration
}

// Property returns a configuration value and whether it was set.
func (c Config) Property(key string) (string, bool) {
	if c.Properties == nil {
		return "", false
	}
	v, ok := c.Properties[key]
	return v, ok
}

// NewConfig builds a Config with sensible defaults and applies opts in
// order. A later option always overrides an earlier one.
func NewConfig(opts ...Option) Config {
	c := &Config{
		Logger:     NopLogger{},
		Metrics:    nopMetricsSink{},
		Properties: map[string]string{},
	}
	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}

type nopMetricsSink struct{}

func (nopMetricsSink) ObserveBuild(Name, time.Duration)             {}
func (nopMetricsSink) ObserveCustomize(Name, string, time.Duration) {}
