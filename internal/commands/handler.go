package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/charleslucas/tbdmud/internal/game"
)

// Input is one parsed command.
type Input struct {
	World *game.World
	Actor *game.Character

	// Verb is the lowercased first word.
	Verb string
	// Args are the words after the verb.
	Args []string
	// Line is the command text with surrounding space removed.
	Line string
}

// Rest returns the command text after the first n arguments, with the
// original spacing preserved. Words split the same way as Args.
func (in *Input) Rest(n int) string {
	s := strings.TrimSpace(in.Line)
	for i := 0; i <= n; i++ {
		idx := strings.IndexFunc(s, unicode.IsSpace)
		if idx < 0 {
			return ""
		}
		s = strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
	}
	return s
}

// reply sends text straight to the actor without scheduling an event.
func (in *Input) reply(msg string) {
	in.World.Directory().Post(in.Actor.Name(), msg)
}

// CommandFunc runs a command on the world goroutine.
type CommandFunc func(ctx context.Context, in *Input) error

type command struct {
	name  string
	usage string
	help  string
	run   CommandFunc
}

// Handler turns lines of player input into scheduled events.
type Handler struct {
	commands map[string]*command
	aliases  map[string]string
}

func NewHandler() *Handler {
	h := &Handler{
		commands: map[string]*command{},
		aliases:  map[string]string{},
	}

	// Built-in commands cannot collide.
	_ = h.Register("help", "help", "list the commands", h.help, "?")
	_ = h.Register("who", "who", "list connected players", who)
	_ = h.Register("look", "look", "describe the room you are in", look, "l")
	_ = h.Register("tell", "tell player ...", "speak privately to one player", tell)
	_ = h.Register("say", "say ...", "speak to the room", say)
	_ = h.Register("dsay", "dsay # ...", "say something after a number of ticks", dsay)
	_ = h.Register("yell", "yell ...", "speak to this room and the rooms next to it", yell)
	_ = h.Register("shout", "shout ...", "speak to the zone", shout)
	_ = h.Register("broadcast", "broadcast ...", "speak to everyone", broadcast)

	return h
}

// Register adds a command under name and any aliases.
func (h *Handler) Register(name, usage, help string, fn CommandFunc, aliases ...string) error {
	name = strings.ToLower(name)
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("command %q has no function", name)
	}

	keys := append([]string{name}, aliases...)
	for _, k := range keys {
		k = strings.ToLower(k)
		if _, exists := h.commands[k]; exists {
			return fmt.Errorf("command %q already registered", k)
		}
		if _, exists := h.aliases[k]; exists {
			return fmt.Errorf("command %q already registered", k)
		}
	}

	h.commands[name] = &command{name: name, usage: usage, help: help, run: fn}
	for _, a := range aliases {
		h.aliases[strings.ToLower(a)] = name
	}
	return nil
}

func (h *Handler) lookup(verb string) (*command, bool) {
	if c, ok := h.commands[verb]; ok {
		return c, true
	}
	if name, ok := h.aliases[verb]; ok {
		return h.commands[name], true
	}
	return nil, false
}

// Exec runs every ';' separated command in line for the named actor. The
// first user error is sent to the actor and stops the rest of the line.
// Only system errors are returned.
func (h *Handler) Exec(ctx context.Context, world *game.World, actor string, line string) error {
	c, ok := world.Directory().Lookup(actor)
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrCharacterNotFound, actor)
	}

	for _, part := range strings.Split(line, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		err := h.execOne(ctx, world, c, part)
		if err == nil {
			continue
		}

		var userErr *UserError
		if errors.As(err, &userErr) {
			world.Directory().Post(c.Name(), userErr.Message)
			return nil
		}
		return fmt.Errorf("executing %q for %s: %w", part, c.Name(), err)
	}

	return nil
}

func (h *Handler) execOne(ctx context.Context, world *game.World, actor *game.Character, text string) error {
	words := strings.Fields(text)
	in := &Input{
		World: world,
		Actor: actor,
		Verb:  strings.ToLower(words[0]),
		Args:  words[1:],
		Line:  text,
	}

	cmd, ok := h.lookup(in.Verb)
	if ok {
		slog.DebugContext(ctx, "running command", "actor", actor.Name(), "command", cmd.name)
		return cmd.run(ctx, in)
	}

	if len(words) == 1 {
		moved, err := move(ctx, in)
		if moved || err != nil {
			return err
		}
	}

	return NewUserError("Unknown command or exit")
}

func (h *Handler) help(_ context.Context, in *Input) error {
	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, name := range names {
		c := h.commands[name]
		fmt.Fprintf(&sb, "  %-20s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(&sb, "  %-20s %s\n", "<exit>", "walk through an exit of the room")
	fmt.Fprintf(&sb, "  %-20s %s\n", "quit", "leave the game")
	sb.WriteString("Separate several commands with ';'")

	in.reply(sb.String())
	return nil
}
