package game

import (
	"sort"
	"strings"
)

// Sink delivers text to one actor. Post must not block the caller.
type Sink interface {
	Post(msg string)
}

type SinkFunc func(msg string)

func (f SinkFunc) Post(msg string) {
	f(msg)
}

type actor struct {
	character *Character
	sink      Sink
}

// Directory maps actor names to their characters and outbound sinks.
// Names are matched without regard to case.
type Directory struct {
	actors map[string]*actor
}

func NewDirectory() *Directory {
	return &Directory{actors: map[string]*actor{}}
}

func directoryKey(name string) string {
	return strings.ToLower(name)
}

func (d *Directory) add(c *Character, sink Sink) bool {
	key := directoryKey(c.Name())
	if _, ok := d.actors[key]; ok {
		return false
	}
	d.actors[key] = &actor{character: c, sink: sink}
	return true
}

func (d *Directory) remove(name string) (*Character, bool) {
	key := directoryKey(name)
	a, ok := d.actors[key]
	if !ok {
		return nil, false
	}
	delete(d.actors, key)
	return a.character, true
}

// Has reports whether an actor with the given name is connected.
func (d *Directory) Has(name string) bool {
	_, ok := d.actors[directoryKey(name)]
	return ok
}

// Lookup returns the character registered under name.
func (d *Directory) Lookup(name string) (*Character, bool) {
	a, ok := d.actors[directoryKey(name)]
	if !ok {
		return nil, false
	}
	return a.character, true
}

// Post sends msg to the named actor. It reports false when no such actor
// is connected.
func (d *Directory) Post(name string, msg string) bool {
	a, ok := d.actors[directoryKey(name)]
	if !ok {
		return false
	}
	a.sink.Post(msg)
	return true
}

// Names returns every connected actor's name sorted case-insensitively.
func (d *Directory) Names() []string {
	keys := d.keys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, d.actors[k].character.Name())
	}
	return names
}

// ForEach calls fn for each connected character in name order.
func (d *Directory) ForEach(fn func(c *Character)) {
	for _, k := range d.keys() {
		fn(d.actors[k].character)
	}
}

func (d *Directory) Len() int {
	return len(d.actors)
}

func (d *Directory) keys() []string {
	keys := make([]string, 0, len(d.actors))
	for k := range d.actors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
