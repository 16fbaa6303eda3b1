package player

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/charleslucas/tbdmud/internal"
	"github.com/charleslucas/tbdmud/internal/display"
)

const outboxSize = 64

// Player is one connected session for a character.
type Player struct {
	name string
	conn io.ReadWriter
	in   *internal.Prompter

	msgs        chan string
	unsubscribe func()
}

func newPlayer(name string, conn io.ReadWriter, in *internal.Prompter) *Player {
	return &Player{
		name: name,
		conn: conn,
		in:   in,
		msgs: make(chan string, outboxSize),
	}
}

func (p *Player) Name() string {
	return p.name
}

// deliver is the subscription handler. It never blocks the publisher; a
// full outbox drops the message.
func (p *Player) deliver(data []byte) {
	select {
	case p.msgs <- string(data):
	default:
		slog.Warn("player outbox full, dropping message", "player", p.name)
	}
}

type inputLine struct {
	text string
	err  error
}

// Play pumps input lines to submit and world messages to the connection
// until the player quits, the connection fails, or ctx is done.
func (p *Player) Play(ctx context.Context, submit func(line string) error) error {
	// Cancelled on return so the reader stops after its next line.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inputChan := make(chan inputLine)
	go func() {
		for {
			line, err := p.in.ReadLine()
			select {
			case inputChan <- inputLine{text: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = p.writeLine("The world is shutting down.")
			return nil

		case msg := <-p.msgs:
			if err := p.writeLine(msg); err != nil {
				return err
			}

		case in := <-inputChan:
			if in.err != nil {
				return in.err
			}

			line := strings.TrimSpace(in.text)
			if line == "" {
				continue
			}
			if strings.EqualFold(line, "quit") {
				return p.writeLine("Goodbye!")
			}

			if err := submit(line); err != nil {
				return err
			}
		}
	}
}

func (p *Player) writeLine(msg string) error {
	_, err := io.WriteString(p.conn, display.Wrap(msg)+"\n")
	return err
}
