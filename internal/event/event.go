package event

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Kind is the action an event performs when it is resolved.
type Kind int

const (
	KindNotice Kind = iota
	KindSpeak
	KindMove
)

func (k Kind) String() string {
	switch k {
	case KindNotice:
		return "NOTICE"
	case KindSpeak:
		return "SPEAK"
	case KindMove:
		return "MOVE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Scope is the breadth of the audience an event reaches.
type Scope int

const (
	ScopeWorld Scope = iota
	ScopeZone
	ScopeLocal
	ScopeRoom
	ScopeTarget
	ScopeSelf
)

func (s Scope) String() string {
	switch s {
	case ScopeWorld:
		return "WORLD"
	case ScopeZone:
		return "ZONE"
	case ScopeLocal:
		return "LOCAL"
	case ScopeRoom:
		return "ROOM"
	case ScopeTarget:
		return "TARGET"
	case ScopeSelf:
		return "SELF"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// validScopes lists the scopes each kind can be resolved with.
var validScopes = map[Kind][]Scope{
	KindNotice: {ScopeWorld},
	KindSpeak:  {ScopeTarget, ScopeRoom, ScopeLocal, ScopeZone, ScopeWorld},
	KindMove:   {ScopeRoom},
}

// Event is a deferred action. The zero value is a NOTICE to the world with
// no message, which is malformed.
type Event struct {
	// Name labels the event in logs and the journal, e.g. "SAY" or "SUN".
	Name  string
	Kind  Kind
	Scope Scope

	Origin     string
	OriginRoom string
	Target     string
	TargetRoom string

	// Delay is the number of ticks after enqueue before the event is due.
	Delay uint64

	messages map[Scope]string
}

// SetMessage sets the text delivered to the given scope's audience.
// An empty string is a valid message.
func (e *Event) SetMessage(s Scope, msg string) {
	if e.messages == nil {
		e.messages = map[Scope]string{}
	}
	e.messages[s] = msg
}

// Message returns the text for the given scope and whether one was set.
func (e Event) Message(s Scope) (string, bool) {
	msg, ok := e.messages[s]
	return msg, ok
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s/%s origin=%q target=%q)", e.Name, e.Kind, e.Scope, e.Origin, e.Target)
}

// Validate reports events whose scope does not fit their kind or that are
// missing the identity fields their resolution needs.
func (e Event) Validate() error {
	el := errors.NewErrorList()

	valid := false
	for _, s := range validScopes[e.Kind] {
		if s == e.Scope {
			valid = true
			break
		}
	}
	if !valid {
		el.Add(fmt.Errorf("scope %s is not valid for %s events", e.Scope, e.Kind))
	}

	switch e.Kind {
	case KindNotice, KindSpeak:
		if _, ok := e.Message(e.Scope); !ok {
			el.Add(fmt.Errorf("no message set for scope %s", e.Scope))
		}
		if e.Kind == KindSpeak && e.Origin == "" {
			el.Add(fmt.Errorf("origin is required"))
		}
		if e.Scope == ScopeTarget && e.Target == "" {
			el.Add(fmt.Errorf("target is required"))
		}
	case KindMove:
		if e.Origin == "" {
			el.Add(fmt.Errorf("origin is required"))
		}
		if e.OriginRoom == "" {
			el.Add(fmt.Errorf("origin room is required"))
		}
		if e.TargetRoom == "" {
			el.Add(fmt.Errorf("target room is required"))
		}
	}

	return el.Err()
}

// NewNotice builds a world-wide announcement with no originating actor.
func NewNotice(name string, msg string) Event {
	e := Event{Name: name, Kind: KindNotice, Scope: ScopeWorld}
	e.SetMessage(ScopeWorld, msg)
	return e
}

// NewTell builds a private message from origin to target.
func NewTell(origin, target, msg string) Event {
	e := Event{Name: "TELL", Kind: KindSpeak, Scope: ScopeTarget, Origin: origin, Target: target}
	e.SetMessage(ScopeTarget, msg)
	return e
}

// NewSay builds a message heard by everyone in the origin's room.
func NewSay(origin, msg string) Event {
	return newSpeak("SAY", ScopeRoom, origin, msg)
}

// NewYell builds a message heard in the origin's room and its neighbours.
func NewYell(origin, msg string) Event {
	return newSpeak("YELL", ScopeLocal, origin, msg)
}

// NewShout builds a message heard by everyone in the origin's zone.
func NewShout(origin, msg string) Event {
	return newSpeak("SHOUT", ScopeZone, origin, msg)
}

// NewBroadcast builds a message heard by every connected actor.
func NewBroadcast(origin, msg string) Event {
	return newSpeak("BROADCAST", ScopeWorld, origin, msg)
}

// NewMove builds a transfer of origin from one room to another.
func NewMove(origin, fromRoom, toRoom string) Event {
	return Event{
		Name:       "MOVE",
		Kind:       KindMove,
		Scope:      ScopeRoom,
		Origin:     origin,
		OriginRoom: fromRoom,
		TargetRoom: toRoom,
	}
}

func newSpeak(name string, scope Scope, origin, msg string) Event {
	e := Event{Name: name, Kind: KindSpeak, Scope: scope, Origin: origin}
	e.SetMessage(scope, msg)
	return e
}
