package command

import (
	"context"
	"fmt"
	"time"

	"github.com/pixil98/go-service"

	"github.com/charleslucas/tbdmud/internal/commands"
	"github.com/charleslucas/tbdmud/internal/driver"
	"github.com/charleslucas/tbdmud/internal/game"
	"github.com/charleslucas/tbdmud/internal/listener"
	"github.com/charleslucas/tbdmud/internal/messaging"
	"github.com/charleslucas/tbdmud/internal/player"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	workers := service.WorkerList{}

	// Journal first so the world can report to it
	var observer game.Observer
	jrnl, err := cfg.Journal.BuildJournal()
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}
	if jrnl != nil {
		observer = jrnl
		workers["journal"] = jrnl
	}

	world, err := cfg.World.BuildWorld(observer)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}

	// Setup the mud driver
	tick, err := parseDuration(cfg.TickInterval, driver.DefaultTickLength)
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}
	poll, err := parseDuration(cfg.PollInterval, driver.DefaultPollInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing poll_interval: %w", err)
	}
	drv := driver.NewMudDriver(
		[]driver.Ticker{world},
		[]driver.Processor{world},
		driver.WithTickLength(tick),
		driver.WithPollInterval(poll),
	)
	workers["driver"] = drv

	// Player messages go over embedded nats unless disabled
	var broker messaging.Broker
	var ready <-chan struct{}
	if cfg.Nats.Disabled {
		broker = messaging.NewLocalBroker()
	} else {
		ns, err := cfg.Nats.buildNatsServer()
		if err != nil {
			return nil, fmt.Errorf("creating nats server: %w", err)
		}
		broker = ns
		ready = ns.Ready()
		workers["nats"] = ns
	}

	var pmOpts []player.PlayerManagerOpt
	if cfg.Welcome != "" {
		pmOpts = append(pmOpts, player.WithWelcome(cfg.Welcome))
	}
	pm := player.NewPlayerManager(world, drv, commands.NewHandler(), broker, pmOpts...)
	cm := listener.NewConnectionManager(pm)

	// Create Listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lw, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lw
	}
	workers["listeners"] = &afterReady{ready: ready, worker: &listeners}

	return workers, nil
}

// afterReady holds a worker back until ready is closed. A nil ready starts
// it immediately.
type afterReady struct {
	ready   <-chan struct{}
	worker  service.Worker
	timeout time.Duration
}

func (a *afterReady) Start(ctx context.Context) error {
	if a.ready != nil {
		timeout := a.timeout
		if timeout == 0 {
			timeout = time.Minute
		}
		select {
		case <-a.ready:
		case <-ctx.Done():
			return nil
		case <-time.After(timeout):
			return fmt.Errorf("dependencies not ready after %s", timeout)
		}
	}
	return a.worker.Start(ctx)
}
