package game

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/charleslucas/tbdmud/internal/event"
)

// World owns every zone, the clock, the event queue and the actor
// directory. It is not safe for concurrent use; a single goroutine drives it.
type World struct {
	tick      uint64
	queue     *event.Queue
	zones     map[string]*Zone
	startZone *Zone
	directory *Directory

	startZoneName string
	messageSrc    Messages
	messages      messageTemplates
	observer      Observer

	sun  celestial
	moon celestial
}

func NewWorld(topo Topology, opts ...WorldOpt) (*World, error) {
	w := &World{
		queue:      event.NewQueue(),
		directory:  NewDirectory(),
		messageSrc: DefaultMessages(),
		sun:        celestial{every: DefaultSunCycle},
		moon:       celestial{every: DefaultMoonCycle},
	}

	for _, opt := range opts {
		opt(w)
	}

	zones, err := topo.build()
	if err != nil {
		return nil, fmt.Errorf("building topology: %w", err)
	}
	w.zones = zones

	if w.startZoneName == "" {
		w.startZoneName = defaultStartZone(zones)
	}
	start, ok := zones[w.startZoneName]
	if !ok {
		return nil, fmt.Errorf("start zone: %w: %s", ErrZoneNotFound, w.startZoneName)
	}
	w.startZone = start

	w.messages, err = w.messageSrc.compile()
	if err != nil {
		return nil, fmt.Errorf("compiling messages: %w", err)
	}

	return w, nil
}

func defaultStartZone(zones map[string]*Zone) string {
	if _, ok := zones[DefaultZone]; ok {
		return DefaultZone
	}
	names := make([]string, 0, len(zones))
	for name := range zones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}

// Now returns the current tick.
func (w *World) Now() uint64 {
	return w.tick
}

// Directory returns the registry of connected actors.
func (w *World) Directory() *Directory {
	return w.directory
}

// Enqueue schedules ev relative to the current tick.
func (w *World) Enqueue(ev event.Event) event.EntryID {
	return w.queue.Add(ev, w.tick)
}

// Pending returns the number of scheduled events.
func (w *World) Pending() int {
	return w.queue.Len()
}

func (w *World) FindZone(name string) (*Zone, bool) {
	z, ok := w.zones[name]
	return z, ok
}

func (w *World) FindRoom(zone, room string) (*Room, bool) {
	z, ok := w.zones[zone]
	if !ok {
		return nil, false
	}
	return z.FindRoom(room)
}

// Zones returns every zone sorted by name.
func (w *World) Zones() []*Zone {
	names := make([]string, 0, len(w.zones))
	for name := range w.zones {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Zone, 0, len(names))
	for _, name := range names {
		out = append(out, w.zones[name])
	}
	return out
}

// StartZone is where new characters are placed.
func (w *World) StartZone() *Zone {
	return w.startZone
}

// RoomOf returns the room the character currently stands in.
func (w *World) RoomOf(c *Character) (*Room, bool) {
	zone, room := c.Location()
	return w.FindRoom(zone, room)
}

// Tick advances the clock, runs tick hooks and schedules periodic events.
func (w *World) Tick(ctx context.Context) error {
	w.tick++

	for _, z := range w.Zones() {
		z.OnTick(w.tick)
	}

	w.periodicEvents(ctx)
	return nil
}

// ProcessEvents resolves at most one due event. It reports whether an
// event was taken off the queue.
func (w *World) ProcessEvents(ctx context.Context) bool {
	entry, ok := w.queue.PopEligible(w.tick)
	if !ok {
		return false
	}

	res := w.resolve(ctx, entry)
	if w.observer != nil {
		w.observer.Observe(res)
	}
	return true
}

// Drain resolves every due event and returns how many were processed.
func (w *World) Drain(ctx context.Context) int {
	n := 0
	for w.ProcessEvents(ctx) {
		n++
	}
	return n
}

// AddCharacter creates a character and places it in the start room.
func (w *World) AddCharacter(ctx context.Context, name string, sink Sink) (*Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("character name is required")
	}
	if w.directory.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrCharacterExists, name)
	}

	start := w.startZone.StartRoom()
	c := NewCharacter(name)
	data := MessageData{Origin: name, To: start.Name()}

	joined, err := w.messages.render("join_others", data)
	if err != nil {
		return nil, err
	}
	for _, o := range start.Characters() {
		w.directory.Post(o.Name(), joined)
	}

	w.directory.add(c, sink)
	w.startZone.Enter(c)
	start.Enter(c)

	welcome, err := w.messages.render("join_self", data)
	if err != nil {
		return nil, err
	}
	sink.Post(welcome)
	sink.Post(start.Describe())

	slog.InfoContext(ctx, "character joined", "name", name, "zone", w.startZone.Name(), "room", start.Name())
	return c, nil
}

// RemoveCharacter takes a character out of the directory, its room and
// its zone and tells everyone left.
func (w *World) RemoveCharacter(ctx context.Context, name string) error {
	c, ok := w.directory.remove(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCharacterNotFound, name)
	}

	zone, room := c.Location()
	if r, ok := w.FindRoom(zone, room); ok {
		r.Leave(c)
	}
	if z, ok := w.FindZone(zone); ok {
		z.Leave(c)
	}

	msg, err := w.messages.render("disconnect", MessageData{Origin: c.Name()})
	if err != nil {
		return err
	}
	w.directory.ForEach(func(o *Character) {
		w.directory.Post(o.Name(), msg)
	})

	slog.InfoContext(ctx, "character left", "name", c.Name())
	return nil
}
