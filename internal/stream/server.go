// Package stream serves solver frames over a websocket and accepts wall
// and pause commands from clients.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/sphsim/internal/sim"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 4
)

// Frame is what clients receive.
type Frame struct {
	Step      int          `json:"step"`
	Time      float64      `json:"time"`
	WallLeft  float64      `json:"wall_left"`
	Paused    bool         `json:"paused"`
	Particles [][2]float64 `json:"particles"`
}

// Command is what clients send. Absent fields are left alone.
type Command struct {
	WallLeft *float64 `json:"wall_left,omitempty"`
	Pause    *bool    `json:"pause,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Server struct {
	driver   *sim.Driver
	interval time.Duration
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer broadcasts a frame of d every interval once Run is called.
func NewServer(d *sim.Driver, interval time.Duration) *Server {
	return &Server{
		driver:   d,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Handler serves /ws and /healthz and logs every request.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Print(r.RemoteAddr + " " + r.Method + " " + r.URL.String())
		mux.ServeHTTP(w, r)
	})
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		var hs websocket.HandshakeError
		if !errors.As(err, &hs) {
			log.Println(err)
		}
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop applies client commands until the connection closes.
func (s *Server) readLoop(c *client) {
	defer s.drop(c)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			log.Printf("stream: bad command %q: %v", msg, err)
			continue
		}
		s.Apply(cmd)
	}
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Println(err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// Close sends a going-away close frame to every client and closes its
// connection. The read loops then drop the clients.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for c := range s.clients {
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.conn.Close()
	}
}

// Apply executes a client command against the driver.
func (s *Server) Apply(cmd Command) {
	if cmd.WallLeft != nil {
		s.driver.SetWallLeft(*cmd.WallLeft)
	}
	if cmd.Pause != nil {
		s.driver.SetPaused(*cmd.Pause)
	}
}

// Encode snapshots the driver into a JSON frame.
func (s *Server) Encode() ([]byte, error) {
	f := s.driver.Snapshot()
	defer s.driver.Release(f)

	out := Frame{
		Step:      f.Step,
		Time:      f.Time,
		WallLeft:  f.WallLeft,
		Paused:    f.Paused,
		Particles: make([][2]float64, len(f.Particles)),
	}
	for i, p := range f.Particles {
		out.Particles[i] = [2]float64{p.Position.X, p.Position.Y}
	}
	return json.Marshal(out)
}

// Broadcast sends the current frame to every client. Clients whose buffer
// is full skip this frame.
func (s *Server) Broadcast() error {
	msg, err := s.Encode()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
	return nil
}

// Run broadcasts every interval until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Broadcast(); err != nil {
				return err
			}
		}
	}
}
