package realtime

import (
	"sync"
	"time"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/google/uuid"
)

// UserQueue is the per-user destination messages are routed to, keyed by the
// authenticated principal's name (email).
const UserQueue = "/user/queue/messages"

// Hub tracks authenticated sessions by principal email and fans messages out
// to them. Slow sessions have frames dropped rather than blocking the sender.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string][]*Session
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string][]*Session)}
}

func (h *Hub) Register(s *Session) {
	email := s.Principal().Email
	h.mu.Lock()
	h.sessions[email] = append(h.sessions[email], s)
	h.mu.Unlock()
}

func (h *Hub) Unregister(s *Session) {
	email := s.Principal().Email
	if email == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := h.sessions[email][:0]
	for _, other := range h.sessions[email] {
		if other != s {
			kept = append(kept, other)
		}
	}
	if len(kept) == 0 {
		delete(h.sessions, email)
	} else {
		h.sessions[email] = kept
	}
}

// SendToUser delivers a MESSAGE frame to every session of email subscribed
// to the user queue. Returns the number of sessions the frame was enqueued to.
func (h *Hub) SendToUser(email string, body []byte, contentType string) int {
	h.mu.RLock()
	targets := make([]*Session, len(h.sessions[email]))
	copy(targets, h.sessions[email])
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		subID, ok := s.subscriptionFor(UserQueue)
		if !ok {
			continue
		}
		msg := frame.New(frame.MESSAGE,
			frame.Destination, UserQueue,
			frame.Subscription, subID,
			frame.MessageId, uuid.NewString(),
			frame.ContentType, contentType,
			"timestamp", time.Now().UTC().Format(time.RFC3339),
		)
		msg.Body = body
		if s.enqueue(msg) {
			delivered++
		}
	}
	return delivered
}
