package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultWebsocketPath = "/ws"

	wsWriteTimeout = 5 * time.Second
)

// WebsocketListener serves sessions over websockets. Each text frame from
// the client is one input line; each write to the session is one frame.
type WebsocketListener struct {
	port uint16
	path string
	cm   *ConnectionManager

	upgrader websocket.Upgrader
	wg       sync.WaitGroup
}

func NewWebsocketListener(port uint16, path string, cm *ConnectionManager) *WebsocketListener {
	if path == "" {
		path = DefaultWebsocketPath
	}
	return &WebsocketListener{
		port: port,
		path: path,
		cm:   cm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	connCtx, cancelConns := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelConns()

	mux := http.NewServeMux()
	mux.HandleFunc(l.path, l.handler(connCtx))

	svr := &http.Server{
		Addr:              fmt.Sprintf(":%d", l.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := svr.Shutdown(shutdownCtx); err != nil {
				slog.WarnContext(ctx, "shutting down websocket server", "error", err)
			}
		case <-done:
		}
	}()

	slog.InfoContext(ctx, "listening for websockets", "port", l.port, "path", l.path)

	err := svr.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websockets on port %d: %w", l.port, err)
	}

	// Hijacked connections are not tracked by Shutdown.
	cancelConns()
	l.wg.Wait()
	return nil
}

func (l *WebsocketListener) handler(ctx context.Context) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := l.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			slog.WarnContext(ctx, "upgrading websocket", "remote", r.RemoteAddr, "error", err)
			return
		}
		defer conn.Close()

		l.wg.Add(1)
		defer l.wg.Done()

		slog.InfoContext(ctx, "websocket connection established", "remote", r.RemoteAddr)

		stop := context.AfterFunc(ctx, func() {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			_ = conn.Close()
		})
		defer stop()

		l.cm.AcceptConnection(ctx, newWsReadWriter(conn))
	}
}

// wsReadWriter adapts a websocket connection to a line stream.
type wsReadWriter struct {
	conn *websocket.Conn

	pending []byte
	wmu     sync.Mutex
}

func newWsReadWriter(conn *websocket.Conn) *wsReadWriter {
	return &wsReadWriter{conn: conn}
}

func (w *wsReadWriter) Read(p []byte) (int, error) {
	for len(w.pending) == 0 {
		typ, msg, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if typ != websocket.TextMessage {
			continue
		}
		w.pending = append(frameLine(msg), '\n')
	}

	n := copy(p, w.pending)
	w.pending = w.pending[n:]
	return n, nil
}

func (w *wsReadWriter) Write(p []byte) (int, error) {
	w.wmu.Lock()
	defer w.wmu.Unlock()

	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// frameLine strips one trailing line ending from a frame.
func frameLine(msg []byte) []byte {
	n := len(msg)
	if n > 0 && msg[n-1] == '\n' {
		n--
	}
	if n > 0 && msg[n-1] == '\r' {
		n--
	}
	return msg[:n:n]
}
