package game

// Character is an actor placed in the world.
type Character struct {
	name string
	zone string
	room string
}

func NewCharacter(name string) *Character {
	return &Character{name: name}
}

func (c *Character) Name() string {
	return c.name
}

// Location returns the names of the zone and room the character is in.
// Both are empty when the character has not been placed.
func (c *Character) Location() (zone string, room string) {
	return c.zone, c.room
}

// OnTick runs once per world tick.
func (c *Character) OnTick(tick uint64) {}
