package media

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// wireEvent is the JSON shape written to every TCP subscriber, one object
// per line.
type wireEvent struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// TCPSink is the "TCP media-event bridge" named in spec §1: it accepts
// connections from spectator/display clients and fans every Post out to
// all of them as newline-delimited JSON. A client that can't keep up or
// disconnects is dropped silently; the core never retries a write inline
// (spec §6 "drop events silently on transport failure").
type TCPSink struct {
	logger   *log.Logger
	listener net.Listener

	mu      sync.Mutex
	clients map[net.Conn]*bufio.Writer
}

// NewTCPSink starts listening on addr (e.g. ":9000") and returns a sink
// that fans events out to every connected client.
func NewTCPSink(addr string) (*TCPSink, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &TCPSink{
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "media-tcp"}),
		listener: ln,
		clients:  make(map[net.Conn]*bufio.Writer),
	}
	go s.acceptLoop()
	return s, nil
}

func (s *TCPSink) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.clients[conn] = bufio.NewWriter(conn)
		s.mu.Unlock()
		s.logger.Info("client connected", "remote", conn.RemoteAddr())
	}
}

// Post implements Sink.
func (s *TCPSink) Post(event Event) {
	data, err := json.Marshal(wireEvent{Type: event.Type, Payload: event.Payload})
	if err != nil {
		s.logger.Warn("could not encode event", "type", event.Type, "error", err)
		return
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, w := range s.clients {
		if _, err := w.Write(data); err != nil || w.Flush() != nil {
			s.logger.Warn("dropping client after write failure", "remote", conn.RemoteAddr())
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// Close stops accepting new clients and closes existing connections.
func (s *TCPSink) Close() error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.mu.Unlock()
	return s.listener.Close()
}

var _ Sink = (*TCPSink)(nil)
