package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/charleslucas/tbdmud/internal"
	"github.com/charleslucas/tbdmud/internal/display"
	"github.com/charleslucas/tbdmud/internal/game"
	"github.com/charleslucas/tbdmud/internal/messaging"
)

const (
	minNameLength = 2
	maxNameLength = 20
	maxNameTries  = 5
)

func validName(str string) (bool, string) {
	if len(str) < minNameLength || len(str) > maxNameLength {
		return false, fmt.Sprintf("Names must be %d to %d letters long.\n", minNameLength, maxNameLength)
	}
	for _, r := range str {
		if !unicode.IsLetter(r) {
			return false, "Invalid name, please try another.\n"
		}
	}
	return true, ""
}

// login asks for a name until the player confirms one and the world
// accepts it. The returned player is
// subscribed to its subject and present in the world.
func (m *PlayerManager) login(ctx context.Context, conn io.ReadWriter, p *internal.Prompter) (*Player, error) {
	if _, err := io.WriteString(conn, m.welcome); err != nil {
		return nil, err
	}

	for {
		name, err := p.Prompt("By what name do you wish to be known? --> ",
			internal.WithValidator(validName),
			internal.WithMaxTries(maxNameTries),
		)
		if err != nil {
			return nil, err
		}
		name = display.Capitalize(name)

		ok, err := p.PromptYN(fmt.Sprintf("Did I get that right, %s (Y/N)? ", name))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		player := newPlayer(name, conn, p)
		unsub, err := m.broker.Subscribe(messaging.PlayerSubject(name), player.deliver)
		if err != nil {
			return nil, fmt.Errorf("subscribing %s: %w", name, err)
		}

		err = m.dispatcher.Call(ctx, func(ctx context.Context) error {
			_, err := m.world.AddCharacter(ctx, name, messaging.NewPlayerSink(m.broker, name))
			return err
		})
		if errors.Is(err, game.ErrCharacterExists) {
			unsub()
			if _, err := fmt.Fprintf(conn, "%s is already playing, please pick another name.\n", name); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			unsub()
			return nil, fmt.Errorf("joining world: %w", err)
		}

		player.unsubscribe = unsub
		return player, nil
	}
}
