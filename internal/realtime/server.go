package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelierlocal/backend/internal/auth"
	"github.com/atelierlocal/backend/internal/events"
	"github.com/atelierlocal/backend/internal/models"
)

const chatDestination = "/app/chat"

var errHandshakeRejected = errors.New("realtime: handshake rejected")

// Server owns the websocket endpoint and the STOMP session lifecycle.
//
// Authentication is two-phase: the HTTP upgrade only stashes a valid bearer
// token when one is present (some fallback transports cannot carry headers
// reliably), while the CONNECT frame is authoritative — any failure there
// closes the session.
type Server struct {
	DB       *gorm.DB
	Codec    *auth.TokenCodec
	Hub      *Hub
	Producer *events.Producer
	Logger   *slog.Logger

	upgrader websocket.Upgrader
}

func NewServer(db *gorm.DB, codec *auth.TokenCodec, hub *Hub, producer *events.Producer, logger *slog.Logger) *Server {
	return &Server{
		DB:       db,
		Codec:    codec,
		Hub:      hub,
		Producer: producer,
		Logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the connection. Phase 1: a valid Authorization header is
// stashed for CONNECT; an absent or invalid one is logged and the upgrade
// proceeds anyway.
func (srv *Server) Handle(c echo.Context) error {
	var pendingToken, pendingSubject string
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		token, err := auth.ExtractBearerToken(header)
		if err == nil {
			if subject, perr := srv.Codec.ExtractSubject(token); perr == nil && !srv.Codec.IsExpired(token) {
				pendingToken = token
				pendingSubject = subject
			} else {
				srv.Logger.Warn("handshake token invalid, deferring to CONNECT", "remote", c.RealIP())
			}
		} else {
			srv.Logger.Warn("handshake authorization malformed, deferring to CONNECT", "remote", c.RealIP())
		}
	}

	conn, err := srv.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	session := newSession(conn, pendingToken, pendingSubject)
	go srv.writeLoop(session)
	// The request context ends the moment this handler returns; the session
	// outlives it.
	go srv.readLoop(context.Background(), session)
	return nil
}

func (srv *Server) readLoop(ctx context.Context, s *Session) {
	defer func() {
		srv.Hub.Unregister(s)
		s.close()
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if len(bytes.TrimSpace(data)) == 0 {
			continue // heartbeat
		}

		f, err := frame.NewReader(bytes.NewReader(data)).Read()
		if err != nil {
			srv.fail(s, "malformed frame")
			return
		}
		if f == nil {
			continue // heartbeat
		}

		reply, err := srv.HandleFrame(ctx, s, f)
		if err != nil {
			srv.Logger.Warn("session rejected", "command", f.Command, "error", err)
			srv.fail(s, err.Error())
			return
		}
		if reply != nil {
			s.enqueue(reply)
		}
		if f.Command == frame.DISCONNECT {
			return
		}
	}
}

// writeLoop is the only goroutine that writes to the connection. It closes
// the connection once the outbound queue is closed and drained.
func (srv *Server) writeLoop(s *Session) {
	defer s.conn.Close()
	for f := range s.out {
		var buf bytes.Buffer
		if err := frame.NewWriter(&buf).Write(f); err != nil {
			continue
		}
		if err := s.conn.WriteMessage(websocket.TextMessage, buf.Bytes()); err != nil {
			return
		}
	}
}

// fail queues an ERROR frame best-effort. The caller returns afterwards,
// which closes the session and lets the write loop flush the frame.
func (srv *Server) fail(s *Session, message string) {
	s.enqueue(frame.New(frame.ERROR, frame.Message, message))
}

// HandleFrame advances the session state machine by one inbound frame. A
// returned error is fatal to the session.
func (srv *Server) HandleFrame(ctx context.Context, s *Session, f *frame.Frame) (*frame.Frame, error) {
	switch f.Command {
	case frame.CONNECT, frame.STOMP:
		return srv.handleConnect(s, f)
	case frame.SUBSCRIBE:
		return srv.handleSubscribe(s, f)
	case frame.SEND:
		return srv.handleSend(ctx, s, f)
	case frame.DISCONNECT:
		return srv.handleDisconnect(f), nil
	default:
		return nil, nil
	}
}

// handleConnect is phase 2: the frame's own Authorization header wins, the
// token stashed at upgrade time is the fallback. Unlike the HTTP filter this
// path never downgrades to anonymous — every failure terminates the session.
func (srv *Server) handleConnect(s *Session, f *frame.Frame) (*frame.Frame, error) {
	token := s.pendingToken
	if header := f.Header.Get("Authorization"); header != "" {
		t, err := auth.ExtractBearerToken(header)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed authorization header", errHandshakeRejected)
		}
		token = t
	}
	if token == "" {
		return nil, fmt.Errorf("%w: no credentials", errHandshakeRejected)
	}

	subject, err := srv.Codec.ExtractSubject(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errHandshakeRejected, err)
	}

	var user models.User
	if err := srv.DB.Where("email = ?", subject).First(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", errHandshakeRejected, auth.ErrAccountNotFound)
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: account inactive", errHandshakeRejected)
	}
	if err := srv.Codec.Validate(token, user.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", errHandshakeRejected, err)
	}

	s.bind(auth.Principal{
		ID:     user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Active: user.Active,
	})
	srv.Hub.Register(s)

	return frame.New(frame.CONNECTED,
		frame.Version, "1.2",
		frame.HeartBeat, "0,0",
		"user-name", user.Email,
	), nil
}

// handleSubscribe is phase 3: a principal must already be bound.
func (srv *Server) handleSubscribe(s *Session, f *frame.Frame) (*frame.Frame, error) {
	if !s.authenticated() {
		return nil, fmt.Errorf("%w: subscribe before authentication", errHandshakeRejected)
	}

	id := f.Header.Get(frame.Id)
	destination := f.Header.Get(frame.Destination)
	if id == "" || destination == "" {
		return nil, fmt.Errorf("%w: subscribe requires id and destination", errHandshakeRejected)
	}
	s.subscribe(id, destination)

	if receipt := f.Header.Get(frame.Receipt); receipt != "" {
		return frame.New(frame.RECEIPT, frame.ReceiptId, receipt), nil
	}
	return nil, nil
}

type chatPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (srv *Server) handleSend(ctx context.Context, s *Session, f *frame.Frame) (*frame.Frame, error) {
	if !s.authenticated() {
		return nil, fmt.Errorf("%w: send before authentication", errHandshakeRejected)
	}
	if f.Header.Get(frame.Destination) != chatDestination {
		return nil, nil
	}

	var payload chatPayload
	if err := json.Unmarshal(f.Body, &payload); err != nil {
		return nil, fmt.Errorf("malformed chat payload: %w", err)
	}
	if payload.To == "" || payload.Body == "" {
		return nil, errors.New("chat payload requires to and body")
	}

	sender := s.Principal().Email
	message := models.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Recipient: payload.To,
		Body:      payload.Body,
		SentAt:    time.Now().UTC(),
	}
	if err := srv.DB.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("persisting message: %w", err)
	}

	event := map[string]interface{}{
		"type":       "message_sent",
		"message_id": message.ID,
		"sender":     message.Sender,
		"recipient":  message.Recipient,
	}
	if err := srv.Producer.PublishEvent(ctx, "message_events", message.ID, event); err != nil {
		srv.Logger.Error("kafka publish error", "error", err)
	}

	body, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}
	srv.Hub.SendToUser(message.Recipient, body, "application/json")
	return nil, nil
}

func (srv *Server) handleDisconnect(f *frame.Frame) *frame.Frame {
	if receipt := f.Header.Get(frame.Receipt); receipt != "" {
		return frame.New(frame.RECEIPT, frame.ReceiptId, receipt)
	}
	return nil
}
