/*
 * Copyright 2024 The Factory Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mqttrule implements an engine.RuleSource that discovers Rules
// announced over MQTT: retained messages on a topic, each one a small JSON
// manifest decoded into a literal component value. It demonstrates the
// discoverable-plugin extension point a Builder's rule sources exist for -
// a fleet of factories picking up new configuration broadcast over the
// wire rather than redeployed.
package mqttrule

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/wireway/factory/types"
)

// Announcement is the wire shape of one retained MQTT message: enough to
// build a types.SingletonRule out of it without knowing the target Go type
// in advance - the Name's class is resolved by the caller-supplied
// decode function passed to NewSource, keyed by Announcement.Class.
type Announcement struct {
	Class    string         `json:"class"`
	ID       string         `json:"id"`
	Priority int            `json:"priority"`
	Value    map[string]any `json:"value"`
}

// Source subscribes to a topic tree and accumulates the most recent
// Announcement seen per MQTT topic, turning each into a Rule on demand.
// decode maps an Announcement's Class and raw Value into a (Name, value)
// pair the Rule will serve - typically a mapstructure.Decode into a
// concrete Go struct registered for that class name.
type Source struct {
	client mqtt.Client
	topic  string
	decode func(Announcement) (types.Name, any, error)

	mu            sync.RWMutex
	byTopic       map[string]Announcement
	subscribeOnce sync.Once
	subscribeErr  error
}

// NewSource returns a Source that will subscribe to topic (which may use
// MQTT wildcards, e.g. "factory/rules/#") on its first Discover call.
func NewSource(client mqtt.Client, topic string, decode func(Announcement) (types.Name, any, error)) *Source {
	return &Source{client: client, topic: topic, decode: decode, byTopic: map[string]Announcement{}}
}

func (s *Source) Name() string { return "mqtt:" + s.topic }

// Discover returns a Rule for every Announcement currently known. The
// first call subscribes to the topic; because MQTT brokers typically
// replay retained messages immediately on subscribe, by the time
// subscription completes the initial rule set is usually already present.
func (s *Source) Discover(ctx context.Context) ([]types.Rule, error) {
	s.subscribeOnce.Do(func() {
		s.subscribeErr = s.subscribe(ctx)
	})
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := make([]types.Rule, 0, len(s.byTopic))
	for _, ann := range s.byTopic {
		name, value, err := s.decode(ann)
		if err != nil {
			continue
		}
		rules = append(rules, types.NewSingletonRule(name, value, ann.Priority))
	}
	return rules, nil
}

func (s *Source) subscribe(ctx context.Context) error {
	token := s.client.Subscribe(s.topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		var ann Announcement
		if err := json.Unmarshal(msg.Payload(), &ann); err != nil {
			return
		}
		s.mu.Lock()
		s.byTopic[msg.Topic()] = ann
		s.mu.Unlock()
	})

	deadline := 5 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			deadline = d
		}
	}
	if !token.WaitTimeout(deadline) {
		return fmt.Errorf("mqttrule: subscribing to %q timed out", s.topic)
	}
	return token.Error()
}
