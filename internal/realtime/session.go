package realtime

import (
	"sync"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/gorilla/websocket"

	"github.com/atelierlocal/backend/internal/auth"
)

type sessionState int

const (
	stateConnecting sessionState = iota
	stateAuthenticated
	stateClosed
)

const outboundQueueSize = 32

// Session is one realtime connection. It starts in the connecting state;
// only a successful CONNECT frame moves it to authenticated. There is no
// anonymous authenticated session.
type Session struct {
	conn *websocket.Conn

	// Stashed during the HTTP upgrade when a valid bearer token was present
	// (advisory; the CONNECT frame is authoritative).
	pendingToken   string
	pendingSubject string

	mu            sync.Mutex
	state         sessionState
	principal     *auth.Principal
	subscriptions map[string]string // subscription id -> destination

	out       chan *frame.Frame
	closeOnce sync.Once
}

func newSession(conn *websocket.Conn, pendingToken, pendingSubject string) *Session {
	return &Session{
		conn:           conn,
		pendingToken:   pendingToken,
		pendingSubject: pendingSubject,
		subscriptions:  make(map[string]string),
		out:            make(chan *frame.Frame, outboundQueueSize),
	}
}

func (s *Session) Principal() auth.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return auth.Principal{}
	}
	return *s.principal
}

func (s *Session) authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateAuthenticated && s.principal != nil && s.principal.Authenticated()
}

func (s *Session) bind(p auth.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principal = &p
	s.state = stateAuthenticated
}

func (s *Session) subscribe(id, destination string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[id] = destination
}

func (s *Session) subscriptionFor(destination string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, dest := range s.subscriptions {
		if dest == destination {
			return id, true
		}
	}
	return "", false
}

// enqueue hands a frame to the write loop, dropping it when the session is
// too slow to keep up.
func (s *Session) enqueue(f *frame.Frame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateClosed {
		return false
	}
	select {
	case s.out <- f:
		return true
	default:
		return false
	}
}

// close shuts the outbound queue. The write loop owns the connection and
// closes it after draining what is left.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = stateClosed
		s.mu.Unlock()
		close(s.out)
	})
}
