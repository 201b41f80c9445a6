// Package preview serves the latest render of an attribute document and
// pushes every new render to connected browsers over a websocket.
package preview

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/conneroisu/istring/internal/logging"
)

const writeTimeout = 5 * time.Second

var page = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>istring preview</title></head>
<body>
<main id="preview">{{.}}</main>
<script>
(function () {
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = function (e) { document.getElementById("preview").innerHTML = e.data; };
})();
</script>
</body>
</html>
`))

type client struct {
	conn *websocket.Conn
	send chan string
}

// Server is an http.Handler for the preview page and its websocket.
type Server struct {
	logger logging.Logger

	mu      sync.Mutex
	latest  string
	clients map[*client]struct{}
	closed  bool
}

// NewServer creates a preview server.
func NewServer(logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		logger:  logger.WithComponent("preview"),
		clients: make(map[*client]struct{}),
	}
}

// Publish records html as the latest render and queues it for every client.
// Slow clients whose queue is full miss intermediate renders.
func (s *Server) Publish(html string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = html
	for c := range s.clients {
		select {
		case c.send <- html:
		default:
			// Drop the stale queued render so the newest one gets through.
			select {
			case <-c.send:
			default:
			}
			select {
			case c.send <- html:
			default:
			}
		}
	}
}

// Latest returns the last published render.
func (s *Server) Latest() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ServeHTTP serves the page at / and the websocket at /ws.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		s.servePage(w, r)
	case "/ws":
		s.serveWebSocket(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	// The render is already escaped markup.
	if err := page.Execute(w, template.HTML(s.Latest())); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to write preview page")
	}
}

func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade failed", "remote", r.RemoteAddr)
		return
	}

	c := &client{conn: conn, send: make(chan string, 1)}
	if !s.register(c) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	s.logger.Debug(r.Context(), "Preview client connected", "remote", r.RemoteAddr)

	// Reads are only needed to process control frames and notice the peer
	// going away.
	ctx := conn.CloseRead(context.Background())
	s.writePump(ctx, c)

	s.unregister(c)
	conn.Close(websocket.StatusNormalClosure, "")
	s.logger.Debug(r.Context(), "Preview client disconnected", "remote", r.RemoteAddr)
}

// register adds c and queues the latest render for it.
func (s *Server) register(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.clients[c] = struct{}{}
	if s.latest != "" {
		c.send <- s.latest
	}
	return true
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) writePump(ctx context.Context, c *client) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(wctx, websocket.MessageText, []byte(msg))
			cancel()
			if err != nil {
				s.logger.Debug(ctx, "Preview write failed", "error", err.Error())
				return
			}
		}
	}
}

// Close disconnects every client and rejects new websocket connections.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
	return nil
}
