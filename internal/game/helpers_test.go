package game

import (
	"context"
	"testing"
)

type recordingSink struct {
	msgs []string
}

func (s *recordingSink) Post(msg string) {
	s.msgs = append(s.msgs, msg)
}

func (s *recordingSink) reset() {
	s.msgs = nil
}

type recordingObserver struct {
	results []Resolution
}

func (o *recordingObserver) Observe(r Resolution) {
	o.results = append(o.results, r)
}

func newTestWorld(t *testing.T, opts ...WorldOpt) *World {
	t.Helper()
	topo, err := DefaultTopology()
	if err != nil {
		t.Fatalf("building topology: %v", err)
	}
	w, err := NewWorld(topo, opts...)
	if err != nil {
		t.Fatalf("creating world: %v", err)
	}
	return w
}

// join adds a character and places it in room, discarding setup messages.
func join(t *testing.T, w *World, name, room string, sinks map[string]*recordingSink) *Character {
	t.Helper()
	sink := &recordingSink{}
	c, err := w.AddCharacter(context.Background(), name, sink)
	if err != nil {
		t.Fatalf("adding %s: %v", name, err)
	}
	if room != "" && room != w.StartZone().StartRoom().Name() {
		r, ok := w.StartZone().FindRoom(room)
		if !ok {
			t.Fatalf("room %s not found", room)
		}
		w.StartZone().StartRoom().Leave(c)
		r.Enter(c)
	}
	sinks[name] = sink
	for _, s := range sinks {
		s.reset()
	}
	return c
}
