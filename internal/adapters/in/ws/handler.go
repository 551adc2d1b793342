// Package ws serves the store notification channel over websockets.
//
// A client authenticates with a bearer token (Authorization header or
// access_token query parameter), then sends join-store and leave-store frames.
// Order events of the joined stores are pushed as they are committed.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/adapters/out/realtime"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/gorilla/websocket"
)

const (
	JoinStoreAction  = "join-store"
	LeaveStoreAction = "leave-store"

	JoinedEvent = "joined"
	LeftEvent   = "left"
	ErrorEvent  = "error"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxFrameSize   = 4096
	lookupTimeout  = 5 * time.Second
	repliesBacklog = 16
)

// ClientFrame is a request sent by the client.
type ClientFrame struct {
	Action  string `json:"action"`
	StoreID string `json:"store_id"`
}

type StoreData struct {
	StoreID string `json:"store_id"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Handler struct {
	verifier   ports.ClaimsVerifier
	stores     ports.StoreRepository
	registry   *realtime.Registry
	bufferSize int
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

func NewHandler(
	verifier ports.ClaimsVerifier,
	stores ports.StoreRepository,
	registry *realtime.Registry,
	bufferSize int,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		verifier:   verifier,
		stores:     stores,
		registry:   registry,
		bufferSize: bufferSize,
		logger:     logger.With("component", "ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// BearerToken extracts the token from the Authorization header, falling back
// to the access_token query parameter.
func BearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	caller, err := h.verifier.Verify(r.Context(), BearerToken(r))
	if err != nil {
		http.Error(w, errs.Code(err), http.StatusUnauthorized)
		return
	}

	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	conn := realtime.NewConnection(caller, h.bufferSize)
	session := &session{
		handler: h,
		socket:  socket,
		conn:    conn,
		replies: make(chan reply, repliesBacklog),
		logger:  h.logger.With("connection_id", conn.ID().String(), "user_id", caller.UserID()),
	}
	session.run(r.Context())
}

type session struct {
	handler *Handler
	socket  *websocket.Conn
	conn    *realtime.Connection
	replies chan reply
	logger  *slog.Logger
}

// reply is a frame answering a client request. When join is set the writer
// registers the connection with that store right before writing msg, so no
// store event can reach the client ahead of its joined acknowledgement.
type reply struct {
	msg  realtime.Message
	join *kernel.UUID
}

func (s *session) run(ctx context.Context) {
	s.logger.InfoContext(ctx, "store channel connected")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop()
	}()

	s.readLoop(ctx)

	s.conn.Close()
	s.handler.registry.Disconnect(s.conn)
	<-writerDone

	s.logger.InfoContext(ctx, "store channel disconnected")
}

func (s *session) readLoop(ctx context.Context) {
	s.socket.SetReadLimit(maxFrameSize)
	_ = s.socket.SetReadDeadline(time.Now().Add(pongWait))
	s.socket.SetPongHandler(func(string) error {
		return s.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame ClientFrame
		if err := s.socket.ReadJSON(&frame); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) && !s.conn.IsClosed() {
				s.logger.DebugContext(ctx, "read failed", "error", err)
			}
			return
		}

		if !s.reply(s.handle(ctx, frame)) {
			return
		}
	}
}

func (s *session) handle(ctx context.Context, frame ClientFrame) reply {
	if frame.Action != JoinStoreAction && frame.Action != LeaveStoreAction {
		return reply{msg: errorMessage(errs.NewValueIsInvalidError("action"))}
	}

	storeID, err := kernel.ParseID("store_id", frame.StoreID)
	if err != nil {
		return reply{msg: errorMessage(err)}
	}

	switch frame.Action {
	case JoinStoreAction:
		if err := s.authorize(ctx, storeID); err != nil {
			return reply{msg: errorMessage(err)}
		}
		return reply{
			msg:  realtime.Message{Event: JoinedEvent, Data: StoreData{StoreID: storeID.String()}},
			join: &storeID,
		}
	case LeaveStoreAction:
		s.handler.registry.Leave(s.conn, storeID)
		return reply{msg: realtime.Message{Event: LeftEvent, Data: StoreData{StoreID: storeID.String()}}}
	default:
		return reply{msg: errorMessage(errs.NewValueIsInvalidError("action"))}
	}
}

func (s *session) authorize(ctx context.Context, storeID kernel.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	st, err := s.handler.stores.Get(ctx, storeID)
	if err != nil {
		return err
	}
	return st.Authorize(s.conn.Caller())
}

// reply hands r to the writer. It reports false once the connection is gone.
func (s *session) reply(r reply) bool {
	select {
	case s.replies <- r:
		return true
	case <-s.conn.Done():
		return false
	}
}

// writeLoop is the only goroutine writing to the socket. Pending replies are
// written before pushed events. Closing the socket on exit unblocks the reader.
func (s *session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer func() { _ = s.socket.Close() }()
	defer s.conn.Close()

	for {
		select {
		case r := <-s.replies:
			if err := s.writeReply(r); err != nil {
				return
			}
			continue
		default:
		}

		select {
		case r := <-s.replies:
			if err := s.writeReply(r); err != nil {
				return
			}
		case msg := <-s.conn.Messages():
			if err := s.write(msg); err != nil {
				return
			}
			if s.conn.TakeResync() {
				if err := s.write(realtime.Message{Event: realtime.ResyncEvent}); err != nil {
					return
				}
			}
		case <-ticker.C:
			_ = s.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.conn.Done():
			_ = s.socket.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			return
		}
	}
}

func (s *session) writeReply(r reply) error {
	msg := r.msg
	if r.join != nil {
		if err := s.handler.registry.Join(s.conn, *r.join); err != nil {
			msg = errorMessage(err)
		}
	}
	return s.write(msg)
}

func (s *session) write(msg realtime.Message) error {
	_ = s.socket.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.socket.WriteJSON(msg); err != nil {
		s.logger.Debug("write failed", "event", msg.Event, "error", err)
		return err
	}
	return nil
}

func errorMessage(err error) realtime.Message {
	code := errs.Code(err)
	message := err.Error()
	if code == errs.CodePersistence || code == errs.CodeInternal {
		message = "store lookup is temporarily unavailable"
	}
	return realtime.Message{Event: ErrorEvent, Data: ErrorData{Code: code, Message: message}}
}
