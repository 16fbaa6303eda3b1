package game

import (
	"fmt"
	"sort"

	"github.com/pixil98/go-errors"
)

// ZoneDef is the stored definition of a zone.
type ZoneDef struct {
	StartRoom string `json:"start_room" yaml:"start_room"`
}

// Validate satisfies storage.ValidatingSpec.
func (z *ZoneDef) Validate() error {
	el := errors.NewErrorList()

	if z.StartRoom == "" {
		el.Add(fmt.Errorf("start_room is required"))
	}

	return el.Err()
}

// Zone is a named group of rooms.
type Zone struct {
	name       string
	rooms      map[string]*Room
	startRoom  *Room
	characters []*Character
}

func newZone(name string) *Zone {
	return &Zone{
		name:  name,
		rooms: map[string]*Room{},
	}
}

func (z *Zone) Name() string {
	return z.name
}

func (z *Zone) FindRoom(name string) (*Room, bool) {
	r, ok := z.rooms[name]
	return r, ok
}

func (z *Zone) StartRoom() *Room {
	return z.startRoom
}

// Rooms returns the zone's rooms sorted by name.
func (z *Zone) Rooms() []*Room {
	names := make([]string, 0, len(z.rooms))
	for name := range z.rooms {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Room, 0, len(names))
	for _, name := range names {
		out = append(out, z.rooms[name])
	}
	return out
}

// Enter adds c to the zone's character list.
func (z *Zone) Enter(c *Character) {
	z.characters = append(z.characters, c)
	c.zone = z.name
}

// Leave removes c from the zone's character list. It is a no-op when c is
// not in the zone.
func (z *Zone) Leave(c *Character) {
	for i, o := range z.characters {
		if o == c {
			z.characters = append(z.characters[:i], z.characters[i+1:]...)
			c.zone = ""
			return
		}
	}
}

// Characters returns the characters in the zone in arrival order.
func (z *Zone) Characters() []*Character {
	out := make([]*Character, len(z.characters))
	copy(out, z.characters)
	return out
}

// OnTick runs once per world tick.
func (z *Zone) OnTick(tick uint64) {
	for _, r := range z.Rooms() {
		r.OnTick(tick)
	}
}
