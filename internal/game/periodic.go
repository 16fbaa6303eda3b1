package game

import (
	"context"
	"log/slog"

	"github.com/charleslucas/tbdmud/internal/event"
)

const (
	DefaultSunCycle  uint64 = 42
	DefaultMoonCycle uint64 = 67
)

type celestial struct {
	every uint64
	up    bool
}

// turns flips the body's state when the tick lands on its cycle.
func (c *celestial) turns(tick uint64) bool {
	if c.every == 0 || tick%c.every != 0 {
		return false
	}
	c.up = !c.up
	return true
}

// SunUp reports whether the sun is currently above the horizon.
func (w *World) SunUp() bool {
	return w.sun.up
}

// MoonUp reports whether the moon is currently above the horizon.
func (w *World) MoonUp() bool {
	return w.moon.up
}

func (w *World) periodicEvents(ctx context.Context) {
	if w.sun.turns(w.tick) {
		msg := "The sun sets"
		if w.sun.up {
			msg = "The sun rises"
		}
		w.Enqueue(event.NewNotice("SUN", msg))
		slog.DebugContext(ctx, "sun turned", "tick", w.tick, "up", w.sun.up)
	}

	if w.moon.turns(w.tick) {
		msg := "The moon sets"
		if w.moon.up {
			msg = "The moon rises"
			if w.sun.up {
				msg = "You can barely see the moon rising"
			}
		}
		w.Enqueue(event.NewNotice("MOON", msg))
		slog.DebugContext(ctx, "moon turned", "tick", w.tick, "up", w.moon.up)
	}
}
