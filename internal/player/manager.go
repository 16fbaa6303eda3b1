package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/charleslucas/tbdmud/internal"
	"github.com/charleslucas/tbdmud/internal/commands"
	"github.com/charleslucas/tbdmud/internal/game"
	"github.com/charleslucas/tbdmud/internal/messaging"
)

const (
	DefaultWelcome = "Welcome to tbdmud!\n"

	leaveTimeout = 5 * time.Second
)

// Dispatcher runs work on the world goroutine.
type Dispatcher interface {
	Submit(ctx context.Context, fn func(context.Context)) error
	Call(ctx context.Context, fn func(context.Context) error) error
}

type PlayerManager struct {
	world      *game.World
	dispatcher Dispatcher
	cmdHandler *commands.Handler
	broker     messaging.Broker
	welcome    string
}

func NewPlayerManager(world *game.World, d Dispatcher, cmd *commands.Handler, broker messaging.Broker, opts ...PlayerManagerOpt) *PlayerManager {
	pm := &PlayerManager{
		world:      world,
		dispatcher: d,
		cmdHandler: cmd,
		broker:     broker,
		welcome:    DefaultWelcome,
	}

	for _, opt := range opts {
		opt(pm)
	}

	return pm
}

type PlayerManagerOpt func(*PlayerManager)

// WithWelcome sets the banner shown before the name prompt.
func WithWelcome(msg string) PlayerManagerOpt {
	return func(pm *PlayerManager) {
		pm.welcome = msg
	}
}

// RunSession logs a connection in, plays until it ends and removes the
// character from the world.
func (m *PlayerManager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	session := uuid.NewString()
	logger := slog.With("session", session)
	logger.InfoContext(ctx, "session started")

	in := internal.NewPrompter(conn)
	p, err := m.login(ctx, conn, in)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, internal.ErrTooManyTries) || ctx.Err() != nil {
			logger.InfoContext(ctx, "session ended before login", "reason", err)
			return nil
		}
		return fmt.Errorf("logging in: %w", err)
	}
	logger = logger.With("player", p.Name())
	logger.InfoContext(ctx, "player logged in")

	defer m.leave(ctx, logger, p)

	err = p.Play(ctx, func(line string) error {
		return m.dispatcher.Submit(ctx, func(ctx context.Context) {
			if err := m.cmdHandler.Exec(ctx, m.world, p.Name(), line); err != nil {
				logger.ErrorContext(ctx, "executing command", "line", line, "error", err)
			}
		})
	})
	if err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
		return fmt.Errorf("playing: %w", err)
	}

	logger.InfoContext(ctx, "session ended")
	return nil
}

func (m *PlayerManager) leave(ctx context.Context, logger *slog.Logger, p *Player) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), leaveTimeout)
	defer cancel()

	err := m.dispatcher.Call(ctx, func(ctx context.Context) error {
		return m.world.RemoveCharacter(ctx, p.Name())
	})
	if err != nil && !errors.Is(err, game.ErrCharacterNotFound) {
		logger.WarnContext(ctx, "removing character", "error", err)
	}

	p.unsubscribe()
}
