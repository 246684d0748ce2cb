package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wireway/factory/metrics"
	"github.com/wireway/factory/types"
)

func TestNopSinkDiscardsEverything(t *testing.T) {
	var sink types.MetricsSink = metrics.NopSink{}
	sink.ObserveBuild(types.NameOf[string]("x"), time.Millisecond)
	sink.ObserveCustomize(types.NameOf[string]("x"), "label", time.Millisecond)
}

func TestInMemorySinkAccumulatesBuildsAndCustomizations(t *testing.T) {
	sink := metrics.NewInMemorySink()
	name := types.NameOf[string]("x")

	sink.ObserveBuild(name, 5*time.Millisecond)
	sink.ObserveBuild(name, 7*time.Millisecond)
	sink.ObserveCustomize(name, "upper", time.Millisecond)

	builds := sink.Builds()
	assert.Len(t, builds, 2)
	assert.Equal(t, 5*time.Millisecond, builds[0].Duration)
	assert.Equal(t, 7*time.Millisecond, builds[1].Duration)

	customizations := sink.Customizations()
	assert.Len(t, customizations, 1)
	assert.Equal(t, "upper", customizations[0].Label)
}

func TestInMemorySinkBuildsReturnsAnIndependentCopy(t *testing.T) {
	sink := metrics.NewInMemorySink()
	sink.ObserveBuild(types.NameOf[string]("x"), time.Millisecond)

	snapshot := sink.Builds()
	sink.ObserveBuild(types.NameOf[string]("y"), time.Millisecond)

	assert.Len(t, snapshot, 1, "earlier snapshot must not grow when new observations arrive")
	assert.Len(t, sink.Builds(), 2)
}
