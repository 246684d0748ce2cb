package overlay_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wireway/factory/overlay"
	"github.com/wireway/factory/types"
)

func TestSetThenRulesProducesASingletonAtDefaultPriority(t *testing.T) {
	r := overlay.New()
	name := types.NameOf[string]("flag")
	r.Set(name, "on")

	rules := r.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, overlay.DefaultOverlayPriority, rules[0].Priority())
	assert.True(t, rules[0].CanBuild(name))
}

func TestSetPriorityOverridesTheDefault(t *testing.T) {
	r := overlay.New()
	name := types.NameOf[string]("flag")
	r.SetPriority(name, "on", 42)

	rules := r.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, 42, rules[0].Priority())
}

func TestSetTwiceReplacesTheEntry(t *testing.T) {
	r := overlay.New()
	name := types.NameOf[string]("flag")
	r.Set(name, "first")
	r.Set(name, "second")

	rules := r.Rules()
	require.Len(t, rules, 1)
	eng, err := rules[0].EngineFor(name)
	require.NoError(t, err)
	box, err := eng.Construct(types.NewSatisfiedBOM())
	require.NoError(t, err)
	nc, _ := box.Pick()
	assert.Equal(t, "second", nc.Value)
}

func TestUnsetRemovesTheEntry(t *testing.T) {
	r := overlay.New()
	name := types.NameOf[string]("flag")
	r.Set(name, "on")
	r.Unset(name)
	assert.Empty(t, r.Rules())
}

func TestRulesSnapshotDoesNotSeeLaterChanges(t *testing.T) {
	r := overlay.New()
	name := types.NameOf[string]("flag")
	r.Set(name, "on")
	snapshot := r.Rules()
	r.Unset(name)

	require.Len(t, snapshot, 1)
	assert.Empty(t, r.Rules())
}

func TestContextScopingRoundTrips(t *testing.T) {
	r := overlay.New()
	ctx := overlay.WithContext(context.Background(), r)

	got, ok := overlay.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, r, got)

	_, ok = overlay.FromContext(context.Background())
	assert.False(t, ok)
}
