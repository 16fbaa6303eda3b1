package command

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/charleslucas/tbdmud/internal/game"
)

func validConfig() *Config {
	return &Config{
		TickInterval: "1s",
		Listeners:    []ListenerConfig{{Protocol: ListenerTypeTelnet, Port: 4000}},
	}
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]struct {
		mutate func(c *Config)
		expErr []string
	}{
		"valid": {
			mutate: func(c *Config) {},
		},
		"defaults": {
			mutate: func(c *Config) { c.TickInterval = "" },
		},
		"bad tick": {
			mutate: func(c *Config) { c.TickInterval = "soon" },
			expErr: []string{"parsing tick_interval"},
		},
		"negative poll": {
			mutate: func(c *Config) { c.PollInterval = "-1s" },
			expErr: []string{"parsing poll_interval: duration must be positive"},
		},
		"no listeners": {
			mutate: func(c *Config) { c.Listeners = nil },
			expErr: []string{"at least one listener is required"},
		},
		"listener errors collected": {
			mutate: func(c *Config) {
				c.Listeners = []ListenerConfig{
					{Protocol: ListenerTypeTelnet},
					{Protocol: ListenerTypeTelnet, Port: 4000, Path: "/ws"},
					{Protocol: ListenerTypeWebsocket, Port: 4001, Path: "ws"},
				}
			},
			expErr: []string{
				"listener 0: port must be set to a positive integer",
				"listener 1: path is only valid for websocket listeners",
				"listener 2: path must start with /",
			},
		},
		"bad nats timeout": {
			mutate: func(c *Config) { c.Nats.StartTimeout = "later" },
			expErr: []string{"parsing start_timeout"},
		},
		"world paths must pair": {
			mutate: func(c *Config) { c.World.Zones.Path = dir },
			expErr: []string{"zones and rooms paths must be set together"},
		},
		"world path missing": {
			mutate: func(c *Config) {
				c.World.Zones.Path = filepath.Join(dir, "nope")
				c.World.Rooms.Path = dir
			},
			expErr: []string{"world zones: invalid path"},
		},
		"bad message template": {
			mutate: func(c *Config) { c.World.Messages.SaySelf = "{{ .Text" },
			expErr: []string{"world messages"},
		},
		"journal unknown driver": {
			mutate: func(c *Config) { c.Journal = JournalConfig{Driver: "csv", Path: "x"} },
			expErr: []string{`journal: unknown driver "csv"`},
		},
		"journal without path": {
			mutate: func(c *Config) { c.Journal = JournalConfig{Driver: JournalDriverSQLite} },
			expErr: []string{"journal: path is required"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if len(tt.expErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			for _, exp := range tt.expErr {
				testutil.AssertErrorContains(t, err, exp)
			}
		})
	}
}

func TestConfig_Unmarshal(t *testing.T) {
	raw := `{
		"tick_interval": "2s",
		"listeners": [
			{"protocol": "telnet", "port": 4000},
			{"protocol": "ssh", "port": 4022},
			{"protocol": "websocket", "port": 8080, "path": "/play"}
		],
		"nats": {"disabled": true},
		"world": {"start_zone": "Zion", "sun_cycle": 0, "messages": {"say_self": "You mutter: {{ .Text }}"}},
		"journal": {"driver": "zstd", "path": "journal.zst"}
	}`

	var c Config
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "listeners", len(c.Listeners), 3)
	testutil.AssertEqual(t, "telnet", c.Listeners[0].Protocol, ListenerTypeTelnet)
	testutil.AssertEqual(t, "ssh", c.Listeners[1].Protocol, ListenerTypeSSH)
	testutil.AssertEqual(t, "websocket", c.Listeners[2].Protocol, ListenerTypeWebsocket)
	testutil.AssertEqual(t, "path", c.Listeners[2].Path, "/play")
	testutil.AssertEqual(t, "nats disabled", c.Nats.Disabled, true)
	testutil.AssertEqual(t, "sun cycle set", c.World.SunCycle != nil, true)
	testutil.AssertEqual(t, "moon cycle set", c.World.MoonCycle != nil, false)
	testutil.AssertEqual(t, "say self", c.World.Messages.SaySelf, "You mutter: {{ .Text }}")
	testutil.AssertEqual(t, "journal", c.Journal.Driver, JournalDriverZstd)

	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListenerType_UnmarshalUnknown(t *testing.T) {
	var c ListenerConfig
	err := json.Unmarshal([]byte(`{"protocol": "gopher", "port": 70}`), &c)
	testutil.AssertErrorContains(t, err, "unknown listener type: gopher")
}

func TestWorldConfig_BuildWorld(t *testing.T) {
	tests := map[string]struct {
		cfg          WorldConfig
		expStartZone string
		expErr       string
	}{
		"built in grid": {
			expStartZone: "Zion",
		},
		"unknown start zone": {
			cfg:    WorldConfig{StartZone: "Atlantis"},
			expErr: "zone not found: Atlantis",
		},
		"sun disabled": {
			cfg:          WorldConfig{SunCycle: uint64Ptr(0)},
			expStartZone: "Zion",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w, err := tt.cfg.BuildWorld(nil)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "start zone", w.StartZone().Name(), tt.expStartZone)
		})
	}
}

func TestWorldConfig_BuildWorldFromFiles(t *testing.T) {
	dir := t.TempDir()
	zones := filepath.Join(dir, "zones")
	rooms := filepath.Join(dir, "rooms")
	for _, d := range []string{zones, rooms} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	write := func(path, body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	write(filepath.Join(zones, "harbor.yaml"), "version: 1\nid: Harbor\nspec:\n  start_room: Dock\n")
	write(filepath.Join(rooms, "dock.json"), `{"version": 1, "id": "Dock", "spec": {"zone_id": "Harbor", "exits": {"E": "Market"}}}`)
	write(filepath.Join(rooms, "market.yaml"), "version: 1\nid: Market\nspec:\n  zone_id: Harbor\n  exits:\n    W: Dock\n")

	cfg := WorldConfig{
		Zones: AssetConfig[*game.ZoneDef]{Path: zones},
		Rooms: AssetConfig[*game.RoomDef]{Path: rooms},
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, err := cfg.BuildWorld(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "start zone", w.StartZone().Name(), "Harbor")
	testutil.AssertEqual(t, "start room", w.StartZone().StartRoom().Name(), "Dock")

	market, ok := w.FindRoom("Harbor", "Market")
	testutil.AssertEqual(t, "market found", ok, true)
	west, ok := market.Exit("w")
	testutil.AssertEqual(t, "west exit", ok, true)
	testutil.AssertEqual(t, "west room", west.Name(), "Dock")
}

func TestJournalConfig_BuildJournal(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]struct {
		cfg    JournalConfig
		expNil bool
		expErr string
	}{
		"disabled": {
			expNil: true,
		},
		"sqlite": {
			cfg: JournalConfig{Driver: JournalDriverSQLite, Path: filepath.Join(dir, "j.db")},
		},
		"zstd": {
			cfg: JournalConfig{Driver: JournalDriverZstd, Path: filepath.Join(dir, "j.zst"), Buffer: 8},
		},
		"unknown": {
			cfg:    JournalConfig{Driver: "csv", Path: "x"},
			expErr: `unknown journal driver "csv"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			j, err := tt.cfg.BuildJournal()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "nil journal", j == nil, tt.expNil)
			if j == nil {
				return
			}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if err := j.Start(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

type startRecorder struct {
	started chan struct{}
}

func (s *startRecorder) Start(ctx context.Context) error {
	close(s.started)
	<-ctx.Done()
	return nil
}

func TestAfterReady(t *testing.T) {
	ready := make(chan struct{})
	inner := &startRecorder{started: make(chan struct{})}
	w := &afterReady{ready: ready, worker: inner}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	select {
	case <-inner.started:
		t.Fatal("started before ready")
	case <-time.After(20 * time.Millisecond):
	}

	close(ready)
	select {
	case <-inner.started:
	case <-time.After(5 * time.Second):
		t.Fatal("not started after ready")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAfterReady_Timeout(t *testing.T) {
	w := &afterReady{
		ready:   make(chan struct{}),
		worker:  &startRecorder{started: make(chan struct{})},
		timeout: 10 * time.Millisecond,
	}
	err := w.Start(context.Background())
	testutil.AssertErrorContains(t, err, "dependencies not ready")
}
