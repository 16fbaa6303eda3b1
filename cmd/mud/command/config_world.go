package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/charleslucas/tbdmud/internal/game"
	"github.com/charleslucas/tbdmud/internal/storage"
)

// WorldConfig describes the topology and world rules. Without zone and room
// paths the built-in grid is used.
type WorldConfig struct {
	Zones     AssetConfig[*game.ZoneDef] `json:"zones"`
	Rooms     AssetConfig[*game.RoomDef] `json:"rooms"`
	StartZone string                     `json:"start_zone"`
	SunCycle  *uint64                    `json:"sun_cycle"`
	MoonCycle *uint64                    `json:"moon_cycle"`
	Messages  game.Messages              `json:"messages"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if (c.Zones.Path == "") != (c.Rooms.Path == "") {
		el.Add(fmt.Errorf("world: zones and rooms paths must be set together"))
	}
	if c.Zones.Path != "" {
		el.Add(c.Zones.Validate("world zones"))
	}
	if c.Rooms.Path != "" {
		el.Add(c.Rooms.Validate("world rooms"))
	}
	if err := c.Messages.Merge(game.DefaultMessages()).Validate(); err != nil {
		el.Add(fmt.Errorf("world messages: %w", err))
	}

	return el.Err()
}

func (c *WorldConfig) buildTopology() (game.Topology, error) {
	if c.Zones.Path == "" {
		return game.DefaultTopology()
	}

	zones, err := c.Zones.BuildFileStore()
	if err != nil {
		return game.Topology{}, fmt.Errorf("creating zone store: %w", err)
	}
	rooms, err := c.Rooms.BuildFileStore()
	if err != nil {
		return game.Topology{}, fmt.Errorf("creating room store: %w", err)
	}

	return game.Topology{Zones: zones, Rooms: rooms}, nil
}

func (c *WorldConfig) BuildWorld(observer game.Observer) (*game.World, error) {
	topo, err := c.buildTopology()
	if err != nil {
		return nil, err
	}

	opts := []game.WorldOpt{game.WithMessages(c.Messages)}
	if c.StartZone != "" {
		opts = append(opts, game.WithStartZone(c.StartZone))
	}
	if c.SunCycle != nil {
		opts = append(opts, game.WithSunCycle(*c.SunCycle))
	}
	if c.MoonCycle != nil {
		opts = append(opts, game.WithMoonCycle(*c.MoonCycle))
	}
	if observer != nil {
		opts = append(opts, game.WithObserver(observer))
	}

	return game.NewWorld(topo, opts...)
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
