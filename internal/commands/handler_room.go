package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charleslucas/tbdmud/internal/event"
)

func who(_ context.Context, in *Input) error {
	var sb strings.Builder
	sb.WriteString("Connected:")
	for _, name := range in.World.Directory().Names() {
		sb.WriteString("\n  ")
		sb.WriteString(name)
	}
	in.reply(sb.String())
	return nil
}

func look(_ context.Context, in *Input) error {
	r, ok := in.World.RoomOf(in.Actor)
	if !ok {
		return fmt.Errorf("%s has no room", in.Actor.Name())
	}
	in.reply(r.Describe())
	return nil
}

// move schedules a walk through the exit named by the verb. It reports
// false when the current room has no such exit.
func move(_ context.Context, in *Input) (bool, error) {
	from, ok := in.World.RoomOf(in.Actor)
	if !ok {
		return false, nil
	}

	to, ok := from.Exit(in.Verb)
	if !ok {
		return false, nil
	}

	in.World.Enqueue(event.NewMove(in.Actor.Name(), from.Name(), to.Name()))
	return true, nil
}
