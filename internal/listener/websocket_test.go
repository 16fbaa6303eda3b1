package listener

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-testutil"
)

// echoSessions answers every line until "bye".
type echoSessions struct {
	ended chan error
}

func (e *echoSessions) RunSession(_ context.Context, conn io.ReadWriter) error {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "bye" {
			e.ended <- nil
			return nil
		}
		if _, err := fmt.Fprintf(conn, "echo: %s", line); err != nil {
			e.ended <- err
			return err
		}
	}
	e.ended <- scanner.Err()
	return scanner.Err()
}

func dialTestListener(t *testing.T, sessions SessionRunner) *websocket.Conn {
	t.Helper()

	l := NewWebsocketListener(0, "", NewConnectionManager(sessions))
	srv := httptest.NewServer(l.handler(context.Background()))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + DefaultWebsocketPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	typ, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	testutil.AssertEqual(t, "frame type", typ, websocket.TextMessage)
	return string(msg)
}

func TestWebsocketListener_Lines(t *testing.T) {
	sessions := &echoSessions{ended: make(chan error, 1)}
	conn := dialTestListener(t, sessions)

	for _, line := range []string{"look", "say hi\r\n", "n\n"} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			t.Fatalf("writing: %v", err)
		}
	}

	testutil.AssertEqual(t, "first", readFrame(t, conn), "echo: look")
	testutil.AssertEqual(t, "second", readFrame(t, conn), "echo: say hi")
	testutil.AssertEqual(t, "third", readFrame(t, conn), "echo: n")

	if err := conn.WriteMessage(websocket.TextMessage, []byte("bye")); err != nil {
		t.Fatalf("writing: %v", err)
	}
	select {
	case err := <-sessions.ended:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end")
	}
}

func TestWebsocketListener_CloseIsEOF(t *testing.T) {
	sessions := &echoSessions{ended: make(chan error, 1)}
	conn := dialTestListener(t, sessions)

	err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("closing: %v", err)
	}

	select {
	case err := <-sessions.ended:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end")
	}
}

func TestFrameLine(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"bare":  {in: "look", exp: "look"},
		"lf":    {in: "look\n", exp: "look"},
		"crlf":  {in: "look\r\n", exp: "look"},
		"empty": {in: "", exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "line", string(frameLine([]byte(tt.in))), tt.exp)
		})
	}
}
