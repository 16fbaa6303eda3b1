package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charleslucas/tbdmud/internal/event"
)

func tell(_ context.Context, in *Input) error {
	if len(in.Args) < 2 {
		return usageError("tell", "tell player ...")
	}

	target, ok := in.World.Directory().Lookup(in.Args[0])
	if !ok {
		return NewUserError(fmt.Sprintf("Player %s is not connected.", in.Args[0]))
	}

	in.World.Enqueue(event.NewTell(in.Actor.Name(), target.Name(), in.Rest(1)))
	return nil
}

func say(_ context.Context, in *Input) error {
	if len(in.Args) == 0 {
		return usageError("say", "say ...")
	}
	in.World.Enqueue(event.NewSay(in.Actor.Name(), in.Rest(0)))
	return nil
}

// dsay is a say that resolves a given number of ticks later.
func dsay(_ context.Context, in *Input) error {
	if len(in.Args) < 2 {
		return usageError("dsay", "dsay # ...")
	}

	delay, err := strconv.ParseUint(in.Args[0], 10, 64)
	if err != nil {
		return usageError("dsay", "dsay # ...")
	}

	ev := event.NewSay(in.Actor.Name(), in.Rest(1))
	ev.Name = "DSAY"
	ev.Delay = delay
	in.World.Enqueue(ev)
	return nil
}

func yell(_ context.Context, in *Input) error {
	if len(in.Args) == 0 {
		return usageError("yell", "yell ...")
	}
	in.World.Enqueue(event.NewYell(in.Actor.Name(), in.Rest(0)))
	return nil
}

func shout(_ context.Context, in *Input) error {
	if len(in.Args) == 0 {
		return usageError("shout", "shout ...")
	}
	in.World.Enqueue(event.NewShout(in.Actor.Name(), in.Rest(0)))
	return nil
}

func broadcast(_ context.Context, in *Input) error {
	if len(in.Args) == 0 {
		return usageError("broadcast", "broadcast ...")
	}
	in.World.Enqueue(event.NewBroadcast(in.Actor.Name(), in.Rest(0)))
	return nil
}
