package driver

import (
	"context"
	"time"
)

type MudDriverOpt func(*MudDriver)

func WithTickLength(tickLength time.Duration) MudDriverOpt {
	return func(d *MudDriver) {
		d.tickLength = tickLength
	}
}

// WithPollInterval sets how often the event queue is drained.
func WithPollInterval(interval time.Duration) MudDriverOpt {
	return func(d *MudDriver) {
		d.pollInterval = interval
	}
}

// WithInboxSize sets how much submitted work may wait before Submit blocks.
func WithInboxSize(size int) MudDriverOpt {
	return func(d *MudDriver) {
		d.inbox = make(chan func(context.Context), size)
	}
}
