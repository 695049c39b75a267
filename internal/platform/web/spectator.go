// Package web serves a read-only spectator feed of running sessions over
// HTTP and WebSocket.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/dvd-bounce/internal/engine"
)

const (
	writeTimeout      = 5 * time.Second
	defaultStaleAfter = 30 * time.Second
)

// SessionView is one session as seen by spectators.
type SessionView struct {
	ID      string          `json:"id"`
	Player  string          `json:"player"`
	Updated time.Time       `json:"updated"`
	State   engine.Snapshot `json:"state"`
}

// Frame is the message pushed to every watcher.
type Frame struct {
	Type     string        `json:"type"`
	Sessions []SessionView `json:"sessions"`
}

type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub collects session snapshots and fans them out to watchers.
// Publish and Remove never wait on the network.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]SessionView
	subs     map[*subscriber]struct{}
	dirty    chan struct{}

	logger     *log.Logger
	upgrader   websocket.Upgrader
	staleAfter time.Duration
	now        func() time.Time
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l *log.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithStaleAfter drops sessions that have not published for d.
func WithStaleAfter(d time.Duration) HubOption {
	return func(h *Hub) {
		if d > 0 {
			h.staleAfter = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) HubOption {
	return func(h *Hub) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHub creates an empty hub. Call Run to start broadcasting.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		sessions:   make(map[string]SessionView),
		subs:       make(map[*subscriber]struct{}),
		dirty:      make(chan struct{}, 1),
		logger:     log.Default(),
		staleAfter: defaultStaleAfter,
		now:        time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Publish stores the latest snapshot of a session.
func (h *Hub) Publish(sessionID, player string, snap engine.Snapshot) {
	h.mu.Lock()
	h.sessions[sessionID] = SessionView{
		ID:      sessionID,
		Player:  player,
		Updated: h.now(),
		State:   snap,
	}
	h.mu.Unlock()
	h.markDirty()
}

// Remove drops a session from the feed.
func (h *Hub) Remove(sessionID string) {
	h.mu.Lock()
	delete(h.sessions, sessionID)
	h.mu.Unlock()
	h.markDirty()
}

func (h *Hub) markDirty() {
	select {
	case h.dirty <- struct{}{}:
	default:
	}
}

// Sessions returns the live sessions ordered by ID, pruning stale ones.
func (h *Hub) Sessions() []SessionView {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := h.now().Add(-h.staleAfter)
	out := make([]SessionView, 0, len(h.sessions))
	for id, s := range h.sessions {
		if s.Updated.Before(cutoff) {
			delete(h.sessions, id)
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (h *Hub) frame() ([]byte, error) {
	return json.Marshal(Frame{Type: "state", Sessions: h.Sessions()})
}

// Run broadcasts a frame to every watcher whenever sessions change, and
// at least every second so stale sessions disappear. It returns when ctx
// is done.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-h.dirty:
		case <-ticker.C:
		}
		h.broadcast()
	}
}

func (h *Hub) broadcast() {
	data, err := h.frame()
	if err != nil {
		h.logger.Error("cannot encode spectator frame", "err", err)
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		if err := s.write(data); err != nil {
			h.logger.Debug("dropping watcher", "remote", s.conn.RemoteAddr().String(), "err", err)
			h.unsubscribe(s)
		}
	}
}

func (h *Hub) subscribe(conn *websocket.Conn) *subscriber {
	s := &subscriber{conn: conn}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	_, ok := h.subs[s]
	delete(h.subs, s)
	h.mu.Unlock()
	if ok {
		s.conn.Close()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[*subscriber]struct{})
	h.mu.Unlock()
	for s := range subs {
		s.conn.Close()
	}
}

// Watchers returns the number of connected watchers.
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Handler returns the HTTP routes: GET /sessions (JSON list) and
// GET /watch (WebSocket stream of frames).
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions", h.handleSessions)
	mux.HandleFunc("GET /watch", h.handleWatch)
	return mux
}

func (h *Hub) handleSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Sessions()); err != nil {
		h.logger.Warn("cannot write sessions response", "err", err)
	}
}

func (h *Hub) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	sub := h.subscribe(conn)
	h.logger.Info("watcher connected", "remote", r.RemoteAddr)

	data, err := h.frame()
	if err == nil {
		err = sub.write(data)
	}
	if err != nil {
		h.unsubscribe(sub)
		return
	}

	// Spectators only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unsubscribe(sub)
			h.logger.Info("watcher disconnected", "remote", r.RemoteAddr)
			return
		}
	}
}

// Serve listens on addr until ctx is done.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	h.logger.Info("spectator feed listening", "address", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
