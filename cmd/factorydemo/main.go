// Command factorydemo wires a small Factory together end to end: a
// three-rule dependency chain, an overlay override, a predicate-driven
// Customizer, and a metrics sink, then dumps what got built.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/wireway/factory/engine"
	"github.com/wireway/factory/metrics"
	"github.com/wireway/factory/overlay"
	"github.com/wireway/factory/predicate"
	"github.com/wireway/factory/query"
	"github.com/wireway/factory/types"
)

type greeting struct {
	Text string
}

func main() {
	sink := metrics.NewInMemorySink()
	cfg := types.NewConfig(
		types.WithMetrics(sink),
		types.WithProperty("environment", "demo"),
	)

	who := types.NameOf[string]("who")
	message := types.NameOf[string]("message")
	greet := types.NameOf[*greeting]("greet")

	whoRule := types.NewSingletonRule(who, "world", 0)

	whoQuery := query.ByName(who)
	messageRule := types.NewFuncRule(message, 0, types.BOM{whoQuery}, func(s *types.SatisfiedBOM) (types.Box, error) {
		w, _ := s.One(whoQuery)
		return types.NewBox(types.NamedComponent{Name: message, Value: "hello, " + w.Value.(string)}), nil
	})

	messageQuery := query.ByName(message)
	greetRule := types.NewFuncRule(greet, 0, types.BOM{messageQuery}, func(s *types.SatisfiedBOM) (types.Box, error) {
		m, _ := s.One(messageQuery)
		return types.NewBox(types.NamedComponent{Name: greet, Value: &greeting{Text: m.Value.(string)}}), nil
	})

	exclaimer, err := predicate.NewEngine(`Class contains "greeting"`, 0, "exclaim", func(b types.Box) types.Box {
		nc, ok := b.Pick()
		if !ok {
			return b
		}
		g := nc.Value.(*greeting)
		return types.NewBox(types.NamedComponent{Name: nc.Name, Value: &greeting{Text: g.Text + "!"}})
	})
	if err != nil {
		log.Fatalf("compiling exclaimer predicate: %v", err)
	}

	overrides := overlay.New()
	overrides.Set(who, "override")

	b := engine.NewBuilder(cfg)
	b.AddRule(whoRule, messageRule, greetRule)
	b.AddRule(types.NewSingletonRule(types.NameOf[types.CustomizerEngine]("exclaimer"), exclaimer, 0))
	b.WithOverlayRules(overrides.Rules)

	f, err := b.Build(context.Background())
	if err != nil {
		log.Fatalf("building factory: %v", err)
	}
	defer f.Close()

	nc, found, err := f.Get(greet)
	if err != nil {
		log.Fatalf("getting %s: %v", greet, err)
	}
	if !found {
		log.Fatalf("no rule built %s", greet)
	}

	fmt.Println(nc.Value.(*greeting).Text)
	fmt.Println()
	fmt.Println(f.Dump())

	fmt.Printf("recorded %d build(s), %d customization(s)\n", len(sink.Builds()), len(sink.Customizations()))
}
