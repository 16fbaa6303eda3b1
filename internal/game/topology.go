package game

import (
	"fmt"
	"sort"

	"github.com/charleslucas/tbdmud/internal/storage"
	"github.com/pixil98/go-errors"
)

// DefaultZone is the zone of the built-in topology.
const DefaultZone = "Zion"

// Topology supplies the zone and room definitions a world is built from.
type Topology struct {
	Zones storage.Storer[*ZoneDef]
	Rooms storage.Storer[*RoomDef]
}

// DefaultTopology is a single zone laid out as a three by three grid of
// rooms around Start, plus an unreachable Nowhere.
func DefaultTopology() (Topology, error) {
	zones, err := storage.NewMemoryStore(map[string]*ZoneDef{
		DefaultZone: {StartRoom: "Start"},
	})
	if err != nil {
		return Topology{}, fmt.Errorf("building default zones: %w", err)
	}

	room := func(exits map[string]string) *RoomDef {
		return &RoomDef{ZoneId: DefaultZone, Exits: exits}
	}

	rooms, err := storage.NewMemoryStore(map[string]*RoomDef{
		"Nowhere":   room(map[string]string{}),
		"Start":     room(map[string]string{"N": "North", "S": "South", "E": "East", "W": "West"}),
		"North":     room(map[string]string{"S": "Start", "E": "NorthEast", "W": "NorthWest"}),
		"South":     room(map[string]string{"N": "Start", "E": "SouthEast", "W": "SouthWest"}),
		"East":      room(map[string]string{"N": "NorthEast", "S": "SouthEast", "W": "Start"}),
		"West":      room(map[string]string{"N": "NorthWest", "S": "SouthWest", "E": "Start"}),
		"NorthEast": room(map[string]string{"S": "East", "W": "North"}),
		"NorthWest": room(map[string]string{"S": "West", "E": "North"}),
		"SouthEast": room(map[string]string{"N": "East", "W": "South"}),
		"SouthWest": room(map[string]string{"N": "West", "E": "South"}),
	})
	if err != nil {
		return Topology{}, fmt.Errorf("building default rooms: %w", err)
	}

	return Topology{Zones: zones, Rooms: rooms}, nil
}

// build instantiates every zone and room and links exits. Exits may only
// lead to rooms in the same zone.
func (t Topology) build() (map[string]*Zone, error) {
	if t.Zones == nil || t.Rooms == nil {
		return nil, fmt.Errorf("topology requires zone and room stores")
	}

	zones := map[string]*Zone{}
	for id := range t.Zones.GetAll() {
		zones[id] = newZone(id)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("topology has no zones")
	}

	el := errors.NewErrorList()

	roomDefs := t.Rooms.GetAll()
	ids := make([]string, 0, len(roomDefs))
	for id := range roomDefs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		def := roomDefs[id]
		z, ok := zones[def.ZoneId]
		if !ok {
			el.Add(fmt.Errorf("room %s: %w: %s", id, ErrZoneNotFound, def.ZoneId))
			continue
		}
		z.rooms[id] = newRoom(id, z.name, def.Description)
	}

	for _, id := range ids {
		def := roomDefs[id]
		z, ok := zones[def.ZoneId]
		if !ok {
			continue
		}
		r := z.rooms[id]
		for label, to := range def.Exits {
			dest, ok := z.rooms[to]
			if !ok {
				el.Add(fmt.Errorf("room %s exit %s: %w in zone %s: %s", id, label, ErrRoomNotFound, z.name, to))
				continue
			}
			r.exits[label] = dest
		}
	}

	for id, def := range t.Zones.GetAll() {
		start, ok := zones[id].rooms[def.StartRoom]
		if !ok {
			el.Add(fmt.Errorf("zone %s start room: %w: %s", id, ErrRoomNotFound, def.StartRoom))
			continue
		}
		zones[id].startRoom = start
	}

	if err := el.Err(); err != nil {
		return nil, err
	}
	return zones, nil
}
