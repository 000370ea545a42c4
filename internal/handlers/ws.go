package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-board/internal/session"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Session *GameSessionDTO `json:"session,omitempty"`
	Event   *session.Event  `json:"event,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// wsConn serializes writes; gorilla connections allow one writer at a time.
type wsConn struct {
	mu        sync.Mutex
	c         *websocket.Conn
	writeWait time.Duration
}

func (wc *wsConn) send(msg wsMessage) error {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if err := wc.c.SetWriteDeadline(time.Now().Add(wc.writeWait)); err != nil {
		return err
	}
	return wc.c.WriteJSON(msg)
}

// ConnectWS streams session events to the client and accepts newline
// separated commands. Clients without the session's token may only watch.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := g.store.Get(id); err != nil {
		g.fail(w, r, err)
		return
	}
	owner := g.authorize(r, id) == nil

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()
	c.SetReadLimit(g.ws.ReadLimit)

	logger := g.logger.WithFields(logrus.Fields{
		"session": id,
		"owner":   owner,
	})
	conn := &wsConn{c: c, writeWait: g.ws.WriteWait}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe, err := g.store.Subscribe(ctx, id)
	if err != nil {
		logger.WithError(err).Warn("session gone before subscribe")
		return
	}
	defer unsubscribe()

	go func() {
		for e := range events {
			if err := conn.send(wsMessage{Type: "event", Event: &e}); err != nil {
				logger.WithError(err).Debug("unable to forward event")
				cancel()
				return
			}
		}
		// events closes on expiry or when we fell behind
		c.Close()
	}()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				ctx.Err() == nil {
				logger.WithError(err).Warn("abnormal ws break")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		logger.Debugf("\t> %s", text)

		var snap *session.Snapshot
		for _, line := range iterBySep(text, "\n") {
			cmd, err := parseCommand(line)
			if err == nil {
				snap, err = executeCommand(g.store, id, owner, cmd)
			}
			if err != nil {
				snap = nil
				logger.WithError(err).Debug("unable to process command")
				if err := conn.send(wsMessage{Type: "error", Error: err.Error()}); err != nil {
					return
				}
				break
			}
		}
		if snap == nil {
			continue
		}

		if err := conn.send(wsMessage{Type: "session", Session: NewGameSessionDTO(snap)}); err != nil {
			logger.WithError(err).Error("unable to write json")
			break
		}
		logger.Debug("\t< <session data>")
	}
}
