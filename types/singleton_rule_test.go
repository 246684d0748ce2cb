package types_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wireway/factory/types"
)

func TestSingletonRuleProducesItsNameOnly(t *testing.T) {
	name := types.NameOf[string]("greeting")
	rule := types.NewSingletonRule(name, "hello", 5)

	assert.True(t, rule.CanBuild(name))
	assert.False(t, rule.CanBuild(types.NameOf[string]("other")))
	assert.Equal(t, []types.Name{name}, rule.NamesProducedFor(reflect.TypeOf("")))
	assert.Equal(t, 5, rule.Priority())
}

func TestSingletonRuleNamesProducedForNarrowsByTarget(t *testing.T) {
	name := types.NameOf[string]("greeting")
	rule := types.NewSingletonRule(name, "hello", 0)

	assert.Empty(t, rule.NamesProducedFor(reflect.TypeOf(0)))
}

func TestSingletonRuleEngineBuildsTheStoredValue(t *testing.T) {
	name := types.NameOf[int]("answer")
	rule := types.NewSingletonRule(name, 42, 0)

	eng, err := rule.EngineFor(name)
	require.NoError(t, err)
	assert.Equal(t, name, eng.Name())
	assert.Nil(t, eng.BOM())

	box, err := eng.Construct(types.NewSatisfiedBOM())
	require.NoError(t, err)
	nc, present := box.Pick()
	require.True(t, present)
	assert.Equal(t, 42, nc.Value)
}

func TestFuncRuleThreadsBOMThroughConstruct(t *testing.T) {
	depName := types.NameOf[string]("dep")
	name := types.NameOf[string]("composed")

	rule := types.NewFuncRule(name, 0, nil, func(s *types.SatisfiedBOM) (types.Box, error) {
		dep, _ := s.One(nil)
		return types.NewBox(types.NamedComponent{Name: name, Value: "built from " + dep.Value.(string)}), nil
	})

	eng, err := rule.EngineFor(name)
	require.NoError(t, err)

	sat := types.NewSatisfiedBOM()
	sat.Put(nil, []types.NamedComponent{{Name: depName, Value: "dep-value"}})

	box, err := eng.Construct(sat)
	require.NoError(t, err)
	nc, present := box.Pick()
	require.True(t, present)
	assert.Equal(t, "built from dep-value", nc.Value)
}
