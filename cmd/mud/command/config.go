package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/charleslucas/tbdmud/internal/driver"
)

type Config struct {
	TickInterval string           `json:"tick_interval"`
	PollInterval string           `json:"poll_interval"`
	Welcome      string           `json:"welcome"`
	Listeners    []ListenerConfig `json:"listeners"`
	Nats         NatsConfig       `json:"nats"`
	World        WorldConfig      `json:"world"`
	Journal      JournalConfig    `json:"journal"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if _, err := parseDuration(c.TickInterval, driver.DefaultTickLength); err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	}
	if _, err := parseDuration(c.PollInterval, driver.DefaultPollInterval); err != nil {
		el.Add(fmt.Errorf("parsing poll_interval: %w", err))
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Nats.validate())
	el.Add(c.World.validate())
	el.Add(c.Journal.validate())

	return el.Err()
}

// parseDuration parses a positive duration, using def when s is empty.
func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
