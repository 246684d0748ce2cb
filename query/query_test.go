package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wireway/factory/engine"
	"github.com/wireway/factory/query"
	"github.com/wireway/factory/types"
)

func TestByNameFindsTheRegisteredComponent(t *testing.T) {
	name := types.NameOf[string]("greeting")
	f, err := engine.NewFactory([]engine.RuleBucket{{Label: "explicit", Rules: []types.Rule{
		types.NewSingletonRule(name, "hi", 0),
	}}}, nil, types.NewConfig())
	require.NoError(t, err)

	q := query.ByName(name)
	comps, err := q.Find(f)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, "hi", comps[0].Value)

	nc, found, err := q.FindOne(f)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hi", nc.Value)
}

func TestByNameOptionalCheckSatisfyAllowsAbsence(t *testing.T) {
	f, err := engine.NewFactory(nil, nil, types.NewConfig())
	require.NoError(t, err)

	mandatory := query.ByName(types.NameOf[string]("missing"))
	assert.Error(t, mandatory.CheckSatisfy(f))

	optional := query.ByName(types.NameOf[string]("missing")).Optional()
	assert.NoError(t, optional.CheckSatisfy(f))
}

type greeter interface{ Greet() string }

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type frenchGreeter struct{}

func (frenchGreeter) Greet() string { return "bonjour" }

func TestByClassFindsEveryAssignableName(t *testing.T) {
	en := types.NameOf[greeter]("en")
	fr := types.NameOf[greeter]("fr")

	f, err := engine.NewFactory([]engine.RuleBucket{{Label: "explicit", Rules: []types.Rule{
		types.NewSingletonRule(en, englishGreeter{}, 0),
		types.NewSingletonRule(fr, frenchGreeter{}, 0),
	}}}, nil, types.NewConfig())
	require.NoError(t, err)

	comps, err := query.ByClass[greeter]().Find(f)
	require.NoError(t, err)
	assert.Len(t, comps, 2)
}

func TestByClassSingleRejectsMultipleMatches(t *testing.T) {
	en := types.NameOf[greeter]("en")
	fr := types.NameOf[greeter]("fr")

	f, err := engine.NewFactory([]engine.RuleBucket{{Label: "explicit", Rules: []types.Rule{
		types.NewSingletonRule(en, englishGreeter{}, 0),
		types.NewSingletonRule(fr, frenchGreeter{}, 0),
	}}}, nil, types.NewConfig())
	require.NoError(t, err)

	_, err = query.ByClass[greeter]().Single().Find(f)
	require.Error(t, err)
	var ambiguous *types.Ambiguous
	assert.ErrorAs(t, err, &ambiguous)
}

func TestByClassOptionalWithNoMatchesIsEmptyNotError(t *testing.T) {
	f, err := engine.NewFactory(nil, nil, types.NewConfig())
	require.NoError(t, err)

	comps, err := query.ByClass[greeter]().Optional().Find(f)
	require.NoError(t, err)
	assert.Empty(t, comps)
}

func TestFactoryQueryResolvesToTheBuildingFactory(t *testing.T) {
	f, err := engine.NewFactory(nil, nil, types.NewConfig())
	require.NoError(t, err)

	nc, found, err := query.Factory().FindOne(f)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Same(t, f, nc.Value)
}
