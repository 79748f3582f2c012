// Package ws carries real-time notifications to connected clients over websockets.
//
// The Hub is a routing table from user id to live sessions. Sends never block:
// a session whose buffer is full misses the message, the durable inbox keeps it.
package ws

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"fulfillment/internal/core/domain/model/kernel"
)

const defaultBufferSize = 16

// Metrics receives hub measurements.
type Metrics interface {
	SetSessions(n int)
	ObservePush(delivered, dropped int)
}

type noopMetrics struct{}

func (noopMetrics) SetSessions(int) {}
func (noopMetrics) ObservePush(int, int) {}

var sessionSeq atomic.Uint64

// Session is one live connection of a user. Frames queued by the Hub are read
// from Outbox by the transport writer.
type Session struct {
	id        uint64
	userID    kernel.UUID
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession creates a session with a send buffer of bufferSize frames.
func NewSession(userID kernel.UUID, bufferSize int) *Session {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Session{
		id:     sessionSeq.Add(1),
		userID: userID,
		send:   make(chan []byte, bufferSize),
		done:   make(chan struct{}),
	}
}

func (s *Session) UserID() kernel.UUID {
	return s.userID
}

// Outbox yields frames queued for this session.
func (s *Session) Outbox() <-chan []byte {
	return s.send
}

// Done is closed once the session left the hub.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *Session) offer(payload []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

// Hub fans payloads out to every session joined under a user id.
type Hub struct {
	mu       sync.RWMutex
	routes   map[kernel.UUID]map[*Session]struct{}
	sessions int

	logger  *slog.Logger
	metrics Metrics
}

// HubOption configures a Hub.
type HubOption func(*Hub)

func WithMetrics(m Metrics) HubOption {
	return func(h *Hub) {
		if m != nil {
			h.metrics = m
		}
	}
}

func NewHub(logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		routes:  make(map[kernel.UUID]map[*Session]struct{}),
		logger:  logger.With("component", "ws_hub"),
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Join registers s under userID. Joining the same session twice is a no-op.
func (h *Hub) Join(userID kernel.UUID, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.routes[userID]
	if !ok {
		set = make(map[*Session]struct{})
		h.routes[userID] = set
	}
	if _, joined := set[s]; joined {
		return
	}
	set[s] = struct{}{}
	h.sessions++
	h.metrics.SetSessions(h.sessions)

	h.logger.Debug("session joined", "user_id", userID.String(), "session", s.id)
}

// Leave removes s from the hub and closes it. Unknown sessions are ignored.
func (h *Hub) Leave(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.routes[s.userID]
	if ok {
		if _, joined := set[s]; joined {
			delete(set, s)
			h.sessions--
			h.metrics.SetSessions(h.sessions)
			h.logger.Debug("session left", "user_id", s.userID.String(), "session", s.id)
		}
		if len(set) == 0 {
			delete(h.routes, s.userID)
		}
	}
	s.close()
}

// Send queues payload on every session of userID and returns how many accepted it.
func (h *Hub) Send(userID kernel.UUID, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered, dropped := 0, 0
	for s := range h.routes[userID] {
		if s.offer(payload) {
			delivered++
			continue
		}
		dropped++
	}

	if dropped > 0 {
		h.logger.Warn("dropped push to slow sessions", "user_id", userID.String(), "dropped", dropped)
	}
	h.metrics.ObservePush(delivered, dropped)
	return delivered
}

// Sessions returns the number of live sessions of userID.
func (h *Hub) Sessions(userID kernel.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.routes[userID])
}

// Close disconnects every session.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, set := range h.routes {
		for s := range set {
			s.close()
		}
		delete(h.routes, userID)
	}
	h.sessions = 0
	h.metrics.SetSessions(0)
}
