package engine

import (
	"context"
	"fmt"

	"github.com/wireway/factory/query"
	"github.com/wireway/factory/types"
)

// RuleSource is a pluggable discovery mechanism for Rules: static Go code
// registration, a manifest file, an announcement arriving over MQTT
// (package mqttrule), anything that can hand back a batch of Rules when
// asked. Builder runs every RuleSource once per Build call, the same
// way the teacher's engine discovers components through its
// ComponentRegistry at chain-construction time.
type RuleSource interface {
	Name() string
	Discover(ctx context.Context) ([]types.Rule, error)
}

// Builder assembles a Factory from explicit Rules, RuleSources and
// overlays, via the fixed-point bootstrap: rules that themselves produce
// Rules (meta-rules) are built and folded back in, round after round,
// until a round adds nothing new.
type Builder struct {
	cfg          types.Config
	explicit     []types.Rule
	ruleSources  []RuleSource
	overlayRules func() []types.Rule
}

// NewBuilder returns a Builder configured with cfg. Use AddRule,
// AddRuleSource and WithOverlayRules to populate it before calling Build.
func NewBuilder(cfg types.Config) *Builder {
	return &Builder{cfg: cfg}
}

// AddRule registers an explicit, statically-known Rule.
func (b *Builder) AddRule(rules ...types.Rule) *Builder {
	b.explicit = append(b.explicit, rules...)
	return b
}

// AddRuleSource registers a pluggable discovery mechanism.
func (b *Builder) AddRuleSource(sources ...RuleSource) *Builder {
	b.ruleSources = append(b.ruleSources, sources...)
	return b
}

// WithOverlayRules registers a func returning the current contents of an
// overlay registry as Rules, re-evaluated fresh on every Build call so a
// rebuild always reflects the overlay's latest state.
func (b *Builder) WithOverlayRules(f func() []types.Rule) *Builder {
	b.overlayRules = f
	return b
}

// Build runs rule discovery, the meta-rule fixed point, CustomizerEngine
// construction, and returns the final, immutable Factory. It never
// mutates a previously returned Factory - every call produces a fresh one.
func (b *Builder) Build(ctx context.Context) (*Factory, error) {
	if b.cfg.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.BuildTimeout)
		defer cancel()
	}

	buckets := []RuleBucket{{Label: "explicit", Rules: b.explicit}}
	for _, src := range b.ruleSources {
		discovered, err := src.Discover(ctx)
		if err != nil {
			return nil, &types.RuleDiscoveryFailure{Source: src.Name(), Err: err}
		}
		buckets = append(buckets, RuleBucket{Label: src.Name(), Rules: discovered})
		b.cfg.Logger.Infof("factory: rule source %q contributed %d rule(s)", src.Name(), len(discovered))
	}
	if b.overlayRules != nil {
		buckets = append(buckets, RuleBucket{Label: "overlay", Rules: b.overlayRules()})
	}

	// Rules built by meta-rules go in a bucket of their own, after all others.
	var folded []types.Rule
	withFolded := func() []RuleBucket {
		return append(append([]RuleBucket{}, buckets...), RuleBucket{Label: "meta", Rules: folded})
	}

	round := 0
	seen := map[types.Name]bool{}
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		scratch, err := NewFactory(withFolded(), nil, b.cfg)
		if err != nil {
			return nil, err
		}

		metaRules, err := query.ByClass[types.Rule]().Optional().Find(scratch)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, nc := range metaRules {
			if seen[nc.Name] {
				continue
			}
			r, ok := nc.Value.(types.Rule)
			if !ok {
				continue
			}
			seen[nc.Name] = true
			folded = append(folded, r)
			added++
		}
		if added == 0 {
			break // this round produced no meta-rule not already folded in; the rule set is stable
		}
		round++
		b.cfg.Logger.Infof("factory: bootstrap round %d added %d meta-rule(s)", round, added)
	}

	rulesOnly, err := NewFactory(withFolded(), nil, b.cfg)
	if err != nil {
		return nil, err
	}

	ceComponents, err := query.ByClass[types.CustomizerEngine]().Optional().Find(rulesOnly)
	if err != nil {
		return nil, err
	}
	var customizerEngines []types.CustomizerEngine
	for _, nc := range ceComponents {
		if ce, ok := nc.Value.(types.CustomizerEngine); ok {
			customizerEngines = append(customizerEngines, ce)
		}
	}

	final, err := NewFactory(withFolded(), customizerEngines, b.cfg)
	if err != nil {
		return nil, err
	}
	if err := final.Start(); err != nil {
		return nil, fmt.Errorf("starting factory: %w", err)
	}
	return final, nil
}
