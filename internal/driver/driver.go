package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultTickLength   = time.Second
	DefaultPollInterval = 10 * time.Millisecond
	DefaultInboxSize    = 256
)

// Ticker advances simulated time.
type Ticker interface {
	Tick(context.Context) error
}

// Processor resolves one due event per call and reports whether it did.
type Processor interface {
	ProcessEvents(context.Context) bool
}

// MudDriver is the single goroutine that owns world state. Ticks, queue
// draining and work submitted by connections all run inside Start.
type MudDriver struct {
	tickLength   time.Duration
	pollInterval time.Duration

	tickers    []Ticker
	processors []Processor
	inbox      chan func(context.Context)
}

func NewMudDriver(tickers []Ticker, processors []Processor, opts ...MudDriverOpt) *MudDriver {
	d := &MudDriver{
		tickLength:   DefaultTickLength,
		pollInterval: DefaultPollInterval,
		tickers:      tickers,
		processors:   processors,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.inbox == nil {
		d.inbox = make(chan func(context.Context), DefaultInboxSize)
	}

	return d
}

func (d *MudDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	poll := time.NewTicker(d.pollInterval)
	defer poll.Stop()

	slog.InfoContext(ctx, "driver started", "tick_length", d.tickLength, "poll_interval", d.pollInterval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		case <-poll.C:
			d.Drain(ctx)
		case fn := <-d.inbox:
			fn(ctx)
		}
	}
}

// Tick advances every ticker once.
func (d *MudDriver) Tick(ctx context.Context) error {
	for _, t := range d.tickers {
		if err := t.Tick(ctx); err != nil {
			return fmt.Errorf("ticking: %w", err)
		}
	}
	return nil
}

// Drain resolves every event that is due.
func (d *MudDriver) Drain(ctx context.Context) {
	for _, p := range d.processors {
		for p.ProcessEvents(ctx) {
		}
	}
}

// Submit queues fn to run on the driver goroutine.
func (d *MudDriver) Submit(ctx context.Context, fn func(context.Context)) error {
	select {
	case d.inbox <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call runs fn on the driver goroutine and waits for it to finish.
func (d *MudDriver) Call(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)

	err := d.Submit(ctx, func(ctx context.Context) {
		done <- fn(ctx)
	})
	if err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
