// Package server exposes the interpolation queries to a rendering
// layer: JSON and GeoJSON endpoints for position, trail and visited
// stops, playback control, and a websocket stream of per-tick frames.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/haruki-inoue-314/santa-viewer/internal/interp"
	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
	"github.com/haruki-inoue-314/santa-viewer/internal/loader"
	"github.com/haruki-inoue-314/santa-viewer/internal/metrics"
	"github.com/haruki-inoue-314/santa-viewer/internal/playback"
	"github.com/haruki-inoue-314/santa-viewer/internal/publisher"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // rendering layer may be served from anywhere
	},
}

type Server struct {
	route   journey.Route
	clock   *playback.Clock
	metrics *metrics.Collector

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func New(route journey.Route, clock *playback.Clock, m *metrics.Collector) *Server {
	return &Server{
		route:   route,
		clock:   clock,
		metrics: m,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/position", s.handlePosition)
	mux.HandleFunc("GET /api/trail", s.handleTrail)
	mux.HandleFunc("GET /api/visited", s.handleVisited)
	mux.HandleFunc("GET /api/route", s.handleRoute)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/playback", s.handlePlayback)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// Serve starts the API server on the given address.
func (s *Server) Serve(addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("api server error: %v", err)
		}
	}()
	log.Printf("api listening on %s", addr)
	return srv
}

// queryTime returns the journey time to answer with: an explicit ?t=
// parameter if present, otherwise the playback clock's current time.
func (s *Server) queryTime(r *http.Request) (int64, error) {
	v := r.URL.Query().Get("t")
	if v == "" {
		return s.clock.Now(), nil
	}
	var t int64
	if _, err := fmt.Sscanf(v, "%d", &t); err != nil {
		return 0, fmt.Errorf("invalid t: %q", v)
	}
	return t, nil
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	s.countReq("position")
	t, err := s.queryTime(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{
		"time":     t,
		"position": interp.PositionAt(s.route, t),
	})
}

func (s *Server) handleTrail(w http.ResponseWriter, r *http.Request) {
	s.countReq("trail")
	t, err := s.queryTime(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	trail := interp.TrailAt(s.route, t)
	if r.URL.Query().Get("format") == "geojson" {
		writeJSON(w, loader.TrailFeature(trail))
		return
	}
	writeJSON(w, map[string]any{"time": t, "trail": trail})
}

func (s *Server) handleVisited(w http.ResponseWriter, r *http.Request) {
	s.countReq("visited")
	t, err := s.queryTime(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	visited := interp.VisitedAt(s.route, t)
	if r.URL.Query().Get("format") == "geojson" {
		writeJSON(w, loader.VisitedCollection(visited))
		return
	}
	writeJSON(w, map[string]any{"time": t, "visited": visited})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	s.countReq("route")
	writeJSON(w, s.route)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.countReq("state")
	writeJSON(w, map[string]any{
		"time":    s.clock.Now(),
		"running": s.clock.Running(),
		"start":   s.route.Start(),
		"end":     s.route.End(),
	})
}

type playbackRequest struct {
	Action string `json:"action"` // play, pause, seek
	Time   int64  `json:"time,omitempty"`
}

func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	s.countReq("playback")
	var req playbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	switch req.Action {
	case "play":
		s.clock.Start()
	case "pause":
		s.clock.Pause()
	case "seek":
		s.clock.Seek(req.Time)
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", req.Action), http.StatusBadRequest)
		return
	}
	s.handleState(w, r)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.WSClients.Set(float64(n))
	}
	log.Printf("websocket client connected (%d total)", n)

	// Reader loop only to observe the close; clients never send frames.
	go func() {
		defer s.dropClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) dropClient(conn *websocket.Conn) {
	conn.Close()
	s.mu.Lock()
	delete(s.clients, conn)
	n := len(s.clients)
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.WSClients.Set(float64(n))
	}
}

// Broadcast sends a frame to every connected websocket client. Clients
// that fail to accept the write are dropped.
func (s *Server) Broadcast(f publisher.Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		log.Printf("frame marshal error: %v", err)
		return
	}
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			s.dropClient(c)
		}
	}
}

func (s *Server) countReq(endpoint string) {
	if s.metrics != nil {
		s.metrics.APIRequests.WithLabelValues(endpoint).Inc()
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}
