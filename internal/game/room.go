package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pixil98/go-errors"
)

// RoomDef is the stored definition of a room. Exits map a label to the id
// of a room in the same zone.
type RoomDef struct {
	ZoneId      string            `json:"zone_id" yaml:"zone_id"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Exits       map[string]string `json:"exits" yaml:"exits"`
}

// Validate satisfies storage.ValidatingSpec.
func (r *RoomDef) Validate() error {
	el := errors.NewErrorList()

	if r.ZoneId == "" {
		el.Add(fmt.Errorf("zone_id is required"))
	}

	for label, to := range r.Exits {
		if strings.TrimSpace(label) == "" {
			el.Add(fmt.Errorf("exit labels must not be blank"))
		}
		if to == "" {
			el.Add(fmt.Errorf("exit %s: room id is required", label))
		}
	}

	return el.Err()
}

// Room is a location characters stand in.
type Room struct {
	name        string
	zone        string
	description string

	characters []*Character
	exits      map[string]*Room
}

func newRoom(name, zone, description string) *Room {
	return &Room{
		name:        name,
		zone:        zone,
		description: description,
		exits:       map[string]*Room{},
	}
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) Zone() string {
	return r.zone
}

// Enter adds c to the room's occupants.
func (r *Room) Enter(c *Character) {
	r.characters = append(r.characters, c)
	c.room = r.name
}

// Leave removes c from the room's occupants. It is a no-op when c is not here.
func (r *Room) Leave(c *Character) {
	for i, o := range r.characters {
		if o == c {
			r.characters = append(r.characters[:i], r.characters[i+1:]...)
			c.room = ""
			return
		}
	}
}

// Has reports whether c is one of the room's occupants.
func (r *Room) Has(c *Character) bool {
	for _, o := range r.characters {
		if o == c {
			return true
		}
	}
	return false
}

// Characters returns the occupants in arrival order.
func (r *Room) Characters() []*Character {
	out := make([]*Character, len(r.characters))
	copy(out, r.characters)
	return out
}

// Exits returns a copy of the room's exits keyed by label.
func (r *Room) Exits() map[string]*Room {
	out := make(map[string]*Room, len(r.exits))
	for label, to := range r.exits {
		out[label] = to
	}
	return out
}

// Exit finds the exit whose label matches, ignoring case.
func (r *Room) Exit(label string) (*Room, bool) {
	if to, ok := r.exits[label]; ok {
		return to, true
	}
	for l, to := range r.exits {
		if strings.EqualFold(l, label) {
			return to, true
		}
	}
	return nil, false
}

// ExitLabels returns the exit labels in sorted order.
func (r *Room) ExitLabels() []string {
	labels := make([]string, 0, len(r.exits))
	for label := range r.exits {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Neighbours returns each distinct room reachable through one exit,
// excluding r itself, in exit label order.
func (r *Room) Neighbours() []*Room {
	seen := map[*Room]bool{r: true}
	var out []*Room
	for _, label := range r.ExitLabels() {
		to := r.exits[label]
		if seen[to] {
			continue
		}
		seen[to] = true
		out = append(out, to)
	}
	return out
}

// Describe renders what a character standing in the room sees.
func (r *Room) Describe() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are in:  %s\n", r.name)
	if r.description != "" {
		sb.WriteString(r.description)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "exits:  %s\n", strings.Join(r.ExitLabels(), " "))

	sb.WriteString("\nStanding around:\n")
	for _, c := range r.characters {
		fmt.Fprintf(&sb, "  %s\n", c.Name())
	}

	return strings.TrimRight(sb.String(), "\n")
}

// OnTick runs once per world tick.
func (r *Room) OnTick(tick uint64) {
	for _, c := range r.characters {
		c.OnTick(tick)
	}
}
