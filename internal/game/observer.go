package game

// Outcome is how the world disposed of a dequeued event.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeMalformed Outcome = "malformed"
	OutcomeUnknown   Outcome = "unknown"
)

// Resolution describes one processed event.
type Resolution struct {
	Tick       uint64  `json:"tick"`
	Entry      uint64  `json:"entry"`
	Due        uint64  `json:"due"`
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Scope      string  `json:"scope"`
	Origin     string  `json:"origin,omitempty"`
	Target     string  `json:"target,omitempty"`
	Outcome    Outcome `json:"outcome"`
	Reason     string  `json:"reason,omitempty"`
	Deliveries int     `json:"deliveries"`
}

// Observer is told about every processed event. Observe runs on the world
// goroutine and must return quickly.
type Observer interface {
	Observe(Resolution)
}

type ObserverFunc func(Resolution)

func (f ObserverFunc) Observe(r Resolution) {
	f(r)
}
