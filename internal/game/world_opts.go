package game

type WorldOpt func(*World)

// WithStartZone sets the zone new characters are placed in.
func WithStartZone(zone string) WorldOpt {
	return func(w *World) {
		w.startZoneName = zone
	}
}

// WithMessages overrides message templates. Empty fields keep the default.
func WithMessages(m Messages) WorldOpt {
	return func(w *World) {
		w.messageSrc = m.Merge(w.messageSrc)
	}
}

// WithObserver reports every processed event to o.
func WithObserver(o Observer) WorldOpt {
	return func(w *World) {
		w.observer = o
	}
}

// WithSunCycle sets how many ticks pass between sunrise and sunset.
// Zero disables the sun.
func WithSunCycle(ticks uint64) WorldOpt {
	return func(w *World) {
		w.sun.every = ticks
	}
}

// WithMoonCycle sets how many ticks pass between moonrise and moonset.
// Zero disables the moon.
func WithMoonCycle(ticks uint64) WorldOpt {
	return func(w *World) {
		w.moon.every = ticks
	}
}
