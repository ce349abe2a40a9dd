package media

import (
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// WebSocketSink fans every Post out to connected browser clients as JSON
// text frames, for spectator displays alongside the spec's required TCP
// bridge (spec §1 "any specific physical board driver" collaborators are
// out of core scope, but the media seam itself ships more than one
// transport the way the teacher's platform layer ships more than one
// backend).
type WebSocketSink struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewWebSocketSink creates a sink whose HTTP handler is exposed via
// Handler, to be mounted on an http.ServeMux by the caller.
func NewWebSocketSink() *WebSocketSink {
	return &WebSocketSink{
		logger:  log.NewWithOptions(os.Stderr, log.Options{Prefix: "media-ws"}),
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler upgrades an incoming HTTP request to a websocket connection and
// registers it as a fan-out target.
func (s *WebSocketSink) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	s.logger.Info("client connected", "remote", conn.RemoteAddr())

	go s.drainUntilClosed(conn)
}

// drainUntilClosed discards inbound frames (this sink is outbound-only)
// until the client disconnects, at which point it is dropped from the
// fan-out set.
func (s *WebSocketSink) drainUntilClosed(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
			return
		}
	}
}

// Post implements Sink. A write failure drops that client silently; the
// core never retries or blocks on a slow browser tab (spec §6).
func (s *WebSocketSink) Post(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteJSON(wireEvent{Type: event.Type, Payload: event.Payload}); err != nil {
			s.logger.Warn("dropping client after write failure", "remote", conn.RemoteAddr())
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

var _ Sink = (*WebSocketSink)(nil)
