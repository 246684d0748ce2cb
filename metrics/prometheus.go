package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wireway/factory/types"
)

// PrometheusSink reports <BUILD> and <CUSTOMIZE> timings as a
// HistogramVec, in the same shape the teacher's engine package registers
// for its own request timings: one vector keyed by a label describing what
// was timed, observed in seconds via a deferred timer.
type PrometheusSink struct {
	buildDuration     *prometheus.HistogramVec
	customizeDuration *prometheus.HistogramVec
}

// NewPrometheusSink creates and registers the sink's collectors against
// reg. Pass prometheus.DefaultRegisterer for the global registry.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "factory_build_duration_seconds",
			Help: "Duration of a single Engine.Construct call, by Name.",
		}, []string{"name"}),
		customizeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "factory_customize_duration_seconds",
			Help: "Duration of a single Customizer application, by Name and customizer label.",
		}, []string{"name", "customizer"}),
	}
	reg.MustRegister(s.buildDuration, s.customizeDuration)
	return s
}

func (s *PrometheusSink) ObserveBuild(name types.Name, d time.Duration) {
	s.buildDuration.WithLabelValues(name.String()).Observe(d.Seconds())
}

func (s *PrometheusSink) ObserveCustomize(name types.Name, label string, d time.Duration) {
	s.customizeDuration.WithLabelValues(name.String(), label).Observe(d.Seconds())
}
