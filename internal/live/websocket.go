package live

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/prsh/internal/counter"
	"github.com/vango-dev/prsh/internal/errors"
)

// handleWebSocket mounts the app in a session owned by this connection and
// pushes the HTML of every commit. Text messages from the client name
// actions to dispatch ("increment", "decrement", "reset").
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// OnCommit runs inside Mount and Flush, both called from this goroutine,
	// so writes never race.
	var writeErr error
	sess := s.newSession(func(html string) {
		if writeErr == nil {
			writeErr = conn.WriteMessage(websocket.TextMessage, []byte(html))
		}
	})
	defer sess.Unmount()

	s.mu.Lock()
	s.clients[conn] = sess
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	log := s.logger.With("session", sess.ID)
	if err := sess.Mount(counter.App(s.store)); err != nil {
		log.Error("mount failed", "error", err)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "mount failed"), time.Now().Add(time.Second))
		return
	}
	log.Info("websocket session started")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		s.readActions(conn, log)
	}()

	for {
		select {
		case <-closed:
			log.Info("websocket session closed")
			return
		case _, ok := <-sess.Updates():
			if !ok {
				return
			}
			if err := sess.Flush(); err != nil {
				log.Error("flush failed", "error", err)
				return
			}
			if writeErr != nil {
				log.Info("websocket write failed", "error", writeErr)
				return
			}
		}
	}
}

// readActions dispatches the actions a client sends until the connection
// fails or closes.
func (s *Server) readActions(conn *websocket.Conn, log *slog.Logger) {
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		action, ok := counter.ParseAction(string(data))
		if !ok {
			log.Warn("unknown action", "action", string(data))
			continue
		}
		if err := s.dispatch(action); err != nil {
			log.Warn("dispatch failed", "action", action.Type(), "error", err)
		}
	}
}

// dispatch sends action to the store. A panic from the reducer or a store
// listener is returned as an E011 error instead of killing the process.
func (s *Server) dispatch(action counter.Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("dispatch panicked", "action", action.Type(), "panic", r)
			err = errors.FromPanic(r, "E011")
		}
	}()
	return s.store.Dispatch(action)
}
