// Package memory provides an in-process audit publisher for tests and
// single-node deployments without Kafka.
package memory

import (
	"context"
	"sync"

	"rollcall/pkg/platform/audit"
)

// Publisher records events in memory.
type Publisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func New() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Emit(_ context.Context, event audit.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *Publisher) Close() error { return nil }

// Events returns a copy of everything emitted so far.
func (p *Publisher) Events() []audit.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]audit.Event, len(p.events))
	copy(out, p.events)
	return out
}

// ByEvent filters recorded entries for one attendance event.
func (p *Publisher) ByEvent(eventID string) []audit.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []audit.Event
	for _, e := range p.events {
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out
}
