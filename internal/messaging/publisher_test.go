package messaging

import (
	"errors"
	"slices"
	"testing"

	"github.com/pixil98/go-testutil"
)

type recordingPublisher struct {
	subjects []string
	msgs     []string
	err      error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	p.msgs = append(p.msgs, string(data))
	return p.err
}

func TestPlayerSubject(t *testing.T) {
	tests := map[string]struct {
		name string
		exp  string
	}{
		"lowercase":  {name: "alice", exp: "player-alice"},
		"mixed case": {name: "AliCe", exp: "player-alice"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "subject", PlayerSubject(tt.name), tt.exp)
		})
	}
}

func TestPlayerSink_Post(t *testing.T) {
	pub := &recordingPublisher{}
	sink := NewPlayerSink(pub, "Bob")

	sink.Post("first")
	sink.Post("second")

	if !slices.Equal(pub.subjects, []string{"player-bob", "player-bob"}) {
		t.Errorf("got subjects %v", pub.subjects)
	}
	if !slices.Equal(pub.msgs, []string{"first", "second"}) {
		t.Errorf("got messages %v", pub.msgs)
	}
}

func TestPlayerSink_PostSwallowsErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("down")}
	sink := NewPlayerSink(pub, "Bob")

	sink.Post("lost")
	testutil.AssertEqual(t, "attempts", len(pub.msgs), 1)
}

func TestLocalBroker(t *testing.T) {
	b := NewLocalBroker()

	var alice, alsoAlice, bob []string
	unsubAlice, err := b.Subscribe("player-alice", func(data []byte) { alice = append(alice, string(data)) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = b.Subscribe("player-alice", func(data []byte) { alsoAlice = append(alsoAlice, string(data)) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = b.Subscribe("player-bob", func(data []byte) { bob = append(bob, string(data)) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = b.Publish("player-alice", []byte("one"))
	_ = b.Publish("player-bob", []byte("two"))
	_ = b.Publish("player-carol", []byte("nobody"))

	unsubAlice()
	_ = b.Publish("player-alice", []byte("three"))

	if !slices.Equal(alice, []string{"one"}) {
		t.Errorf("alice got %v", alice)
	}
	if !slices.Equal(alsoAlice, []string{"one", "three"}) {
		t.Errorf("second alice subscription got %v", alsoAlice)
	}
	if !slices.Equal(bob, []string{"two"}) {
		t.Errorf("bob got %v", bob)
	}
}

func TestLocalBroker_CopiesPayload(t *testing.T) {
	b := NewLocalBroker()

	var got []byte
	_, _ = b.Subscribe("s", func(data []byte) { got = data })

	payload := []byte("abc")
	_ = b.Publish("s", payload)
	payload[0] = 'x'

	testutil.AssertEqual(t, "payload", string(got), "abc")
}
