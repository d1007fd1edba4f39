package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/x0x0b/chat-frontend/internal/app/protocol"
	"github.com/x0x0b/chat-frontend/internal/pkg/logx"
)

// ErrAlreadyOpen is returned when Open is called on a session that already
// holds a live connection. Joining twice is a caller error, not a protocol
// error.
var ErrAlreadyOpen = errors.New("session already open")

// ErrNotOpen is returned when a command is attempted before Open succeeds or
// after the session has closed.
var ErrNotOpen = errors.New("session not open")

// ErrClosed is returned when Open is called on a session that has already been
// closed. A closed session stays closed; callers construct a fresh one to
// rejoin.
var ErrClosed = errors.New("session closed")

// closeGracePeriod bounds how long Close waits for the close frame write.
const closeGracePeriod = time.Second

// Session owns the single transport connection for one joined participant.
// Exactly one open session exists at a time; a session that loses its
// connection stays closed, and callers open a fresh one to rejoin.
type Session struct {
	name       string
	dispatcher *Dispatcher
	notice     *ErrorNotice

	mu      sync.Mutex
	conn    *websocket.Conn
	emitter *Emitter

	closeOnce sync.Once
	done      chan struct{}

	logger zerolog.Logger
}

// NewSession prepares a session for the given display name. The connection is
// not established until Open.
func NewSession(name string, dispatcher *Dispatcher, notice *ErrorNotice) *Session {
	return &Session{
		name:       name,
		dispatcher: dispatcher,
		notice:     notice,
		done:       make(chan struct{}),
		logger: logx.Logger().With().
			Str("component", "session").
			Str("username", name).
			Logger(),
	}
}

// Open dials the relay, announces the join before any other outbound command
// is permitted, and starts the read loop. A dial failure is reported through
// the error notice and returned; the session remains unjoined and no retry
// is attempted.
func (s *Session) Open(ctx context.Context, relayURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	if s.conn != nil {
		return ErrAlreadyOpen
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, relayURL, nil)
	if err != nil {
		s.notice.Set("Could not connect to the chat server")
		return fmt.Errorf("dial relay: %w", err)
	}

	emitter := NewEmitter(conn)
	if err := emitter.Join(s.name); err != nil {
		conn.Close()
		s.notice.Set("Could not connect to the chat server")
		return fmt.Errorf("announce join: %w", err)
	}

	s.conn = conn
	s.emitter = emitter

	go s.readLoop(conn)

	s.logger.Info().Str("relay_url", relayURL).Msg("Session opened and join announced")
	return nil
}

// Emitter returns the outbound command emitter, or nil before Open.
func (s *Session) Emitter() *Emitter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.emitter
}

// readLoop draws one event at a time from the stream and hands it to the
// dispatcher. Each event is fully processed before the next is read, so no
// concurrent state mutation is possible.
func (s *Session) readLoop(conn *websocket.Conn) {
	defer s.Close()

	for {
		var env protocol.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			select {
			case <-s.done:
				// Deliberate close, nothing to report.
			default:
				s.logger.Warn().Err(err).Msg("Transport lost")
				s.notice.Set("Connection to the chat server was lost")
			}
			return
		}

		s.dispatcher.Dispatch(env)
	}
}

// Close tears the session down: best-effort close frame, unconditional
// release of the connection, cancellation of pending timers. It is
// idempotent and safe on a never-opened session.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		conn := s.conn
		s.conn = nil
		s.emitter = nil
		s.mu.Unlock()

		if conn == nil {
			return
		}

		deadline := time.Now().Add(closeGracePeriod)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
			s.logger.Debug().Err(err).Msg("Close frame write failed")
		}

		if err := conn.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Connection close error")
		}

		s.logger.Info().Msg("Session closed")
	})
}

// Done is closed when the session has ended, whether by Close or by
// transport loss.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
