package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/charleslucas/tbdmud/internal/game"
)

const (
	DefaultBufferSize = 1024

	// flushTimeout bounds the final drain once the journal is stopped.
	flushTimeout = 5 * time.Second
)

// Writer persists resolution records.
type Writer interface {
	Write(ctx context.Context, r game.Resolution) error
	Close() error
}

// Journal records every resolved event without slowing the world down.
// Observe never blocks; when the buffer is full the record is dropped.
type Journal struct {
	w       Writer
	records chan game.Resolution

	dropped atomic.Uint64
	written atomic.Uint64
}

func NewJournal(w Writer, bufferSize int) *Journal {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Journal{
		w:       w,
		records: make(chan game.Resolution, bufferSize),
	}
}

// Observe satisfies game.Observer.
func (j *Journal) Observe(r game.Resolution) {
	select {
	case j.records <- r:
	default:
		j.dropped.Add(1)
	}
}

// Dropped reports how many records were discarded because the buffer was full.
func (j *Journal) Dropped() uint64 {
	return j.dropped.Load()
}

// Written reports how many records reached the writer.
func (j *Journal) Written() uint64 {
	return j.written.Load()
}

// Start writes records until ctx is done, then flushes what is buffered
// and closes the writer.
func (j *Journal) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "journal started", "buffer", cap(j.records))

	for {
		select {
		case <-ctx.Done():
			return j.shutdown(ctx)
		case r := <-j.records:
			if ctx.Err() != nil {
				return j.shutdown(ctx, r)
			}
			j.write(ctx, r)
		}
	}
}

// shutdown runs after ctx is cancelled, so the remaining writes get a
// fresh deadline of their own.
func (j *Journal) shutdown(ctx context.Context, pending ...game.Resolution) error {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()

	for _, r := range pending {
		j.write(flushCtx, r)
	}

	for {
		select {
		case r := <-j.records:
			j.write(flushCtx, r)
		default:
			slog.InfoContext(ctx, "journal stopped", "written", j.Written(), "dropped", j.Dropped())
			if err := j.w.Close(); err != nil {
				return fmt.Errorf("closing journal: %w", err)
			}
			return nil
		}
	}
}

func (j *Journal) write(ctx context.Context, r game.Resolution) {
	if err := j.w.Write(ctx, r); err != nil {
		slog.WarnContext(ctx, "writing journal record", "entry", r.Entry, "error", err)
		return
	}
	j.written.Add(1)
}
