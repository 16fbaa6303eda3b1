package game

import (
	"context"
	"slices"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestWorld_PeriodicEvents(t *testing.T) {
	tests := map[string]struct {
		opts   []WorldOpt
		ticks  int
		expMsg []string
	}{
		"nothing before the first cycle": {
			ticks: 41,
		},
		"default sunrise": {
			ticks:  42,
			expMsg: []string{"The sun rises"},
		},
		"default moonrise after sunrise": {
			ticks:  67,
			expMsg: []string{"The sun rises", "You can barely see the moon rising"},
		},
		"default sunset": {
			ticks:  84,
			expMsg: []string{"The sun rises", "You can barely see the moon rising", "The sun sets"},
		},
		"short cycles": {
			opts:  []WorldOpt{WithSunCycle(2), WithMoonCycle(3)},
			ticks: 9,
			expMsg: []string{
				"The sun rises",                      // 2
				"You can barely see the moon rising", // 3
				"The sun sets",                       // 4
				"The sun rises",                      // 6
				"The moon sets",                      // 6
				"The sun sets",                       // 8
				"The moon rises",                     // 9
			},
		},
		"disabled cycles": {
			opts:  []WorldOpt{WithSunCycle(0), WithMoonCycle(0)},
			ticks: 500,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := newTestWorld(t, tt.opts...)
			sinks := map[string]*recordingSink{}
			join(t, w, "Alice", "Nowhere", sinks)

			for i := 0; i < tt.ticks; i++ {
				if err := w.Tick(context.Background()); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				w.Drain(context.Background())
			}

			if !slices.Equal(sinks["Alice"].msgs, tt.expMsg) {
				t.Errorf("got %q, expected %q", sinks["Alice"].msgs, tt.expMsg)
			}
		})
	}
}

func TestWorld_PeriodicEventsUseQueue(t *testing.T) {
	w := newTestWorld(t, WithSunCycle(1), WithMoonCycle(0))

	w.Tick(context.Background())
	testutil.AssertEqual(t, "pending", w.Pending(), 1)
	testutil.AssertEqual(t, "sun up", w.SunUp(), true)

	w.Tick(context.Background())
	testutil.AssertEqual(t, "pending", w.Pending(), 2)
	testutil.AssertEqual(t, "sun up", w.SunUp(), false)
	testutil.AssertEqual(t, "moon up", w.MoonUp(), false)

	testutil.AssertEqual(t, "processed", w.Drain(context.Background()), 2)
}
