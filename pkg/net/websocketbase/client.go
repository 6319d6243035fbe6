package websocketbase

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "websocket")

// WebsocketClientBase keeps one websocket connection alive and emits the
// text messages it reads. Broken connections are re-dialed with an
// exponential backoff until the context is cancelled or Close is called.
type WebsocketClientBase struct {
	baseURL string
	dialer  *websocket.Dialer

	// mu protects conn
	mu         sync.Mutex
	conn       *websocket.Conn
	reconnectC chan struct{}
	closeC     chan struct{}
	closeOnce  sync.Once

	newBackOff func() backoff.BackOff

	connectedCallbacks    []func(conn *websocket.Conn)
	disconnectedCallbacks []func(conn *websocket.Conn)
	messageCallbacks      []func(message []byte)
	errorCallbacks        []func(err error)
}

func NewWebsocketClientBase(baseURL string, newBackOff func() backoff.BackOff) *WebsocketClientBase {
	return &WebsocketClientBase{
		baseURL:    baseURL,
		dialer:     websocket.DefaultDialer,
		reconnectC: make(chan struct{}, 1),
		closeC:     make(chan struct{}),
		newBackOff: newBackOff,
	}
}

func (s *WebsocketClientBase) Connect(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return err
	}

	go s.listen(ctx)
	return nil
}

func (s *WebsocketClientBase) listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return

		case <-s.closeC:
			return

		case <-s.reconnectC:
			op := func() error { return s.connect(ctx) }
			if err := backoff.Retry(op, backoff.WithContext(s.newBackOff(), ctx)); err != nil {
				if s.isClosed() || ctx.Err() != nil {
					return
				}

				// the observers must learn that the connection is gone for good
				log.WithError(err).Warnf("%s: reconnect gave up", s.baseURL)
				s.EmitError(errors.Wrapf(err, "%s: reconnect gave up", s.baseURL))
				return
			}

		default:
			conn := s.Conn()
			if conn == nil {
				s.Reconnect()
				continue
			}

			mt, msg, err := conn.ReadMessage()
			if err != nil {
				if s.isClosed() {
					return
				}

				s.EmitError(err)
				s.EmitDisconnected(conn)
				_ = conn.Close()
				s.Reconnect()
				continue
			}

			if mt != websocket.TextMessage {
				continue
			}

			s.EmitMessage(msg)
		}
	}
}

func (s *WebsocketClientBase) Reconnect() {
	select {
	case s.reconnectC <- struct{}{}:
	default:
	}
}

// WriteJSON sends v on the current connection.
func (s *WebsocketClientBase) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return websocket.ErrCloseSent
	}
	return s.conn.WriteJSON(v)
}

// Close stops the listener and closes the connection, it can be called more than once.
func (s *WebsocketClientBase) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeC)

		s.mu.Lock()
		conn := s.conn
		s.conn = nil
		s.mu.Unlock()

		if conn != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			err = conn.Close()
		}
	})
	return err
}

func (s *WebsocketClientBase) isClosed() bool {
	select {
	case <-s.closeC:
		return true
	default:
		return false
	}
}

func (s *WebsocketClientBase) connect(ctx context.Context) error {
	if s.isClosed() {
		return backoff.Permanent(websocket.ErrCloseSent)
	}

	conn, _, err := s.dialer.DialContext(ctx, s.baseURL, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.EmitConnected(conn)
	return nil
}

func (s *WebsocketClientBase) Conn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *WebsocketClientBase) OnConnected(cb func(conn *websocket.Conn)) {
	s.connectedCallbacks = append(s.connectedCallbacks, cb)
}

func (s *WebsocketClientBase) EmitConnected(conn *websocket.Conn) {
	for _, cb := range s.connectedCallbacks {
		cb(conn)
	}
}

func (s *WebsocketClientBase) OnDisconnected(cb func(conn *websocket.Conn)) {
	s.disconnectedCallbacks = append(s.disconnectedCallbacks, cb)
}

func (s *WebsocketClientBase) EmitDisconnected(conn *websocket.Conn) {
	for _, cb := range s.disconnectedCallbacks {
		cb(conn)
	}
}

func (s *WebsocketClientBase) OnMessage(cb func(message []byte)) {
	s.messageCallbacks = append(s.messageCallbacks, cb)
}

func (s *WebsocketClientBase) EmitMessage(message []byte) {
	for _, cb := range s.messageCallbacks {
		cb(message)
	}
}

func (s *WebsocketClientBase) OnError(cb func(err error)) {
	s.errorCallbacks = append(s.errorCallbacks, cb)
}

func (s *WebsocketClientBase) EmitError(err error) {
	for _, cb := range s.errorCallbacks {
		cb(err)
	}
}
