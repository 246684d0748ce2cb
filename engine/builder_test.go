package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wireway/factory/engine"
	"github.com/wireway/factory/types"
)

// metaRuleProducing returns a plain singleton Rule whose produced value is
// another Rule - the bootstrap's meta-rule case: a Rule that, once built, yields a
// Rule the Builder must fold back into the rule set.
func metaRuleProducing(producedName types.Name, producedValue any, priority int) types.Rule {
	inner := types.NewSingletonRule(producedName, producedValue, priority)
	return types.NewSingletonRule(types.NameOf[types.Rule](producedName.String()), inner, 0)
}

func TestBuilderFoldsInMetaRulesUntilFixedPoint(t *testing.T) {
	leafName := types.NameOf[string]("bootstrapped")
	b := engine.NewBuilder(types.NewConfig())
	b.AddRule(metaRuleProducing(leafName, "discovered", 0))

	f, err := b.Build(context.Background())
	require.NoError(t, err)

	nc, found, err := f.Get(leafName)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "discovered", nc.Value)
}

type staticRuleSource struct {
	name  string
	rules []types.Rule
	err   error
}

func (s *staticRuleSource) Name() string { return s.name }
func (s *staticRuleSource) Discover(ctx context.Context) ([]types.Rule, error) {
	return s.rules, s.err
}

func TestBuilderContributesRulesFromRuleSources(t *testing.T) {
	name := types.NameOf[string]("from-source")
	src := &staticRuleSource{name: "static", rules: []types.Rule{types.NewSingletonRule(name, "via-source", 0)}}

	b := engine.NewBuilder(types.NewConfig())
	b.AddRuleSource(src)

	f, err := b.Build(context.Background())
	require.NoError(t, err)

	nc, found, err := f.Get(name)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "via-source", nc.Value)
}

func TestBuilderPropagatesRuleSourceFailure(t *testing.T) {
	boom := errors.New("boom")
	src := &staticRuleSource{name: "flaky", err: boom}

	b := engine.NewBuilder(types.NewConfig())
	b.AddRuleSource(src)

	_, err := b.Build(context.Background())
	require.Error(t, err)
	var failure *types.RuleDiscoveryFailure
	assert.ErrorAs(t, err, &failure)
}

func TestBuilderOverlayRulesWinOverExplicitRulesAtLowerPriority(t *testing.T) {
	name := types.NameOf[string]("overlayed")
	b := engine.NewBuilder(types.NewConfig())
	b.AddRule(types.NewSingletonRule(name, "explicit-default", 10))
	b.WithOverlayRules(func() []types.Rule {
		return []types.Rule{types.NewSingletonRule(name, "overlay-wins", -1000)}
	})

	f, err := b.Build(context.Background())
	require.NoError(t, err)

	nc, found, err := f.Get(name)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "overlay-wins", nc.Value)
}

func TestBuilderBuildsACustomizerEngineAndAppliesIt(t *testing.T) {
	targetName := types.NameOf[string]("customized")
	ceName := types.NameOf[types.CustomizerEngine]("uppercaser")

	b := engine.NewBuilder(types.NewConfig())
	b.AddRule(
		types.NewSingletonRule(targetName, "plain", 0),
		types.NewSingletonRule(ceName, uppercasingEngine{target: targetName}, 0),
	)

	f, err := b.Build(context.Background())
	require.NoError(t, err)

	nc, found, err := f.Get(targetName)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "PLAIN", nc.Value)
}

type uppercasingEngine struct{ target types.Name }

func (u uppercasingEngine) CanCustomize(name types.Name) bool { return name == u.target }
func (u uppercasingEngine) CustomizerFor(name types.Name) (types.Customizer, error) {
	return types.Customizer{
		Label:    "uppercase",
		Priority: 0,
		Transform: func(b types.Box) types.Box {
			nc, ok := b.Pick()
			if !ok {
				return b
			}
			return types.NewBox(types.NamedComponent{Name: nc.Name, Value: upper(nc.Value.(string))})
		},
	}, nil
}

func upper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'z' {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}
