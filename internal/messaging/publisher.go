package messaging

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Publisher sends raw messages to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Subscriber delivers messages published to a subject.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Broker both publishes and subscribes.
type Broker interface {
	Publisher
	Subscriber
}

// PlayerSubject is the subject a player's session listens on.
func PlayerSubject(name string) string {
	return fmt.Sprintf("player-%s", strings.ToLower(name))
}

// PlayerSink delivers world messages for one player over a broker.
type PlayerSink struct {
	pub     Publisher
	subject string
}

func NewPlayerSink(pub Publisher, name string) *PlayerSink {
	return &PlayerSink{pub: pub, subject: PlayerSubject(name)}
}

// Post satisfies game.Sink. Delivery is best effort.
func (s *PlayerSink) Post(msg string) {
	if err := s.pub.Publish(s.subject, []byte(msg)); err != nil {
		slog.Warn("publishing to player", "subject", s.subject, "error", err)
	}
}

// LocalBroker is an in-process Broker. Handlers run synchronously inside
// Publish, so they must not block.
type LocalBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func([]byte)
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: map[string]map[int]func([]byte){}}
}

func (b *LocalBroker) Publish(subject string, data []byte) error {
	b.mu.RLock()
	handlers := make([]func([]byte), 0, len(b.subs[subject]))
	for _, h := range b.subs[subject] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		buf := make([]byte, len(data))
		copy(buf, data)
		h(buf)
	}
	return nil
}

func (b *LocalBroker) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subs[subject] == nil {
		b.subs[subject] = map[int]func([]byte){}
	}
	b.subs[subject][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[subject], id)
		if len(b.subs[subject]) == 0 {
			delete(b.subs, subject)
		}
	}, nil
}
