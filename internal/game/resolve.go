package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charleslucas/tbdmud/internal/event"
)

func (w *World) resolve(ctx context.Context, entry event.Entry) Resolution {
	ev := entry.Event
	res := Resolution{
		Tick:    w.tick,
		Entry:   uint64(entry.ID),
		Due:     entry.Due,
		Name:    ev.Name,
		Kind:    ev.Kind.String(),
		Scope:   ev.Scope.String(),
		Origin:  ev.Origin,
		Target:  ev.Target,
		Outcome: OutcomeResolved,
	}

	n, err := w.dispatch(ev)
	res.Deliveries = n

	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownEvent):
		res.Outcome = OutcomeUnknown
		res.Reason = err.Error()
		slog.WarnContext(ctx, "unknown event", "event", ev.String(), "tick", w.tick)
	default:
		res.Outcome = OutcomeMalformed
		res.Reason = err.Error()
		slog.WarnContext(ctx, "malformed event", "event", ev.String(), "tick", w.tick, "error", err)
	}

	return res
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedEvent, fmt.Sprintf(format, args...))
}

// dispatch applies ev to the world and returns the number of messages
// delivered.
func (w *World) dispatch(ev event.Event) (int, error) {
	var origin *Character
	if ev.Origin != "" {
		c, ok := w.directory.Lookup(ev.Origin)
		if !ok {
			return 0, malformed("origin %q is not connected", ev.Origin)
		}
		origin = c
	}

	switch {
	case ev.Kind == event.KindNotice && ev.Scope == event.ScopeWorld:
		return w.resolveNotice(ev)

	case ev.Kind == event.KindSpeak && ev.Scope == event.ScopeTarget:
		return w.resolveTell(ev, origin)

	case ev.Kind == event.KindSpeak && ev.Scope == event.ScopeRoom:
		return w.resolveSpeak(ev, origin, w.roomAudience, "say_others", "say_self")

	case ev.Kind == event.KindSpeak && ev.Scope == event.ScopeLocal:
		return w.resolveSpeak(ev, origin, w.localAudience, "yell_others", "yell_self")

	case ev.Kind == event.KindSpeak && ev.Scope == event.ScopeZone:
		return w.resolveSpeak(ev, origin, w.zoneAudience, "shout_others", "shout_self")

	case ev.Kind == event.KindSpeak && ev.Scope == event.ScopeWorld:
		return w.resolveSpeak(ev, origin, w.worldAudience, "broadcast_others", "broadcast_self")

	case ev.Kind == event.KindMove && ev.Scope == event.ScopeRoom:
		return w.resolveMove(ev, origin)

	default:
		return 0, fmt.Errorf("%w: %s/%s", ErrUnknownEvent, ev.Kind, ev.Scope)
	}
}

func (w *World) resolveNotice(ev event.Event) (int, error) {
	msg, ok := ev.Message(event.ScopeWorld)
	if !ok {
		return 0, malformed("no WORLD message")
	}

	n := 0
	w.directory.ForEach(func(c *Character) {
		if w.directory.Post(c.Name(), msg) {
			n++
		}
	})
	return n, nil
}

func (w *World) resolveTell(ev event.Event, origin *Character) (int, error) {
	if origin == nil {
		return 0, malformed("tell without origin")
	}
	if ev.Target == "" {
		return 0, malformed("tell without target")
	}
	target, ok := w.directory.Lookup(ev.Target)
	if !ok {
		return 0, malformed("target %q is not connected", ev.Target)
	}
	text, ok := ev.Message(event.ScopeTarget)
	if !ok {
		return 0, malformed("no TARGET message")
	}

	data := MessageData{Origin: origin.Name(), Target: target.Name(), Text: text}
	toTarget, err := w.messages.render("tell_target", data)
	if err != nil {
		return 0, err
	}
	toSelf, err := w.messages.render("tell_self", data)
	if err != nil {
		return 0, err
	}

	n := 0
	if w.directory.Post(target.Name(), toTarget) {
		n++
	}
	if w.directory.Post(origin.Name(), toSelf) {
		n++
	}
	return n, nil
}

type audienceFunc func(origin *Character) ([]*Character, error)

func (w *World) resolveSpeak(ev event.Event, origin *Character, audience audienceFunc, othersTmpl, selfTmpl string) (int, error) {
	if origin == nil {
		return 0, malformed("%s speech without origin", ev.Scope)
	}
	text, ok := ev.Message(ev.Scope)
	if !ok {
		return 0, malformed("no %s message", ev.Scope)
	}

	listeners, err := audience(origin)
	if err != nil {
		return 0, err
	}

	data := MessageData{Origin: origin.Name(), Text: text}
	toOthers, err := w.messages.render(othersTmpl, data)
	if err != nil {
		return 0, err
	}
	toSelf, err := w.messages.render(selfTmpl, data)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, c := range listeners {
		if c == origin {
			continue
		}
		if w.directory.Post(c.Name(), toOthers) {
			n++
		}
	}
	if w.directory.Post(origin.Name(), toSelf) {
		n++
	}
	return n, nil
}

func (w *World) roomAudience(origin *Character) ([]*Character, error) {
	r, ok := w.RoomOf(origin)
	if !ok {
		return nil, malformed("%s is not in a room", origin.Name())
	}
	return r.Characters(), nil
}

func (w *World) localAudience(origin *Character) ([]*Character, error) {
	r, ok := w.RoomOf(origin)
	if !ok {
		return nil, malformed("%s is not in a room", origin.Name())
	}
	out := r.Characters()
	for _, n := range r.Neighbours() {
		out = append(out, n.Characters()...)
	}
	return out, nil
}

func (w *World) zoneAudience(origin *Character) ([]*Character, error) {
	zone, _ := origin.Location()
	z, ok := w.FindZone(zone)
	if !ok {
		return nil, malformed("%s is not in a zone", origin.Name())
	}
	return z.Characters(), nil
}

func (w *World) worldAudience(*Character) ([]*Character, error) {
	var out []*Character
	w.directory.ForEach(func(c *Character) {
		out = append(out, c)
	})
	return out, nil
}

func (w *World) resolveMove(ev event.Event, origin *Character) (int, error) {
	if origin == nil {
		return 0, malformed("move without origin")
	}
	if ev.OriginRoom == "" || ev.TargetRoom == "" {
		return 0, malformed("move requires origin and target rooms")
	}

	zone, _ := origin.Location()
	from, ok := w.FindRoom(zone, ev.OriginRoom)
	if !ok {
		return 0, malformed("room %q not found in zone %q", ev.OriginRoom, zone)
	}
	to, ok := w.FindRoom(zone, ev.TargetRoom)
	if !ok {
		return 0, malformed("room %q not found in zone %q", ev.TargetRoom, zone)
	}
	if !from.Has(origin) {
		return 0, malformed("%s is no longer in %s", origin.Name(), from.Name())
	}

	data := MessageData{Origin: origin.Name(), From: from.Name(), To: to.Name()}
	rendered := map[string]string{}
	for _, name := range []string{"depart_others", "depart_self", "arrive_others", "arrive_self"} {
		msg, err := w.messages.render(name, data)
		if err != nil {
			return 0, err
		}
		rendered[name] = msg
	}

	n := 0
	tell := func(room *Room, others string) {
		for _, c := range room.Characters() {
			if c != origin && w.directory.Post(c.Name(), others) {
				n++
			}
		}
	}

	tell(from, rendered["depart_others"])
	if w.directory.Post(origin.Name(), rendered["depart_self"]) {
		n++
	}

	from.Leave(origin)
	to.Enter(origin)

	tell(to, rendered["arrive_others"])
	if w.directory.Post(origin.Name(), rendered["arrive_self"]) {
		n++
	}

	return n, nil
}
