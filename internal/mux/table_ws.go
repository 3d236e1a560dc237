package mux

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/server"
)

// idleTimeout is how long the read side waits for a pong before the
// connection is considered dead; inbound payloads do not extend it
const idleTimeout = time.Minute

const sendTimeout = time.Second * 10

// pings go out well inside the idle window so a healthy peer never expires
const pingInterval = idleTimeout * 2 / 3

func (m *Mux) getWS() http.HandlerFunc {
	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("websocket upgrade failed")
			return
		}

		client := m.server.Connect(conn)
		log := logrus.WithField("client", client.String())
		log.Debug("websocket session open")

		done := make(chan struct{})
		go m.writePump(client, done)

		// the read side owns the session: when it returns, the player is
		// gone and the write side is told to wrap up
		m.readPump(client)
		m.server.Disconnect(client)
		close(done)
		_ = conn.Close()

		log.Debug("websocket session closed")
	}
}

// readPump decodes inbound payloads and hands them to the server until the
// peer goes away. Pongs refresh the idle deadline.
func (m *Mux) readPump(client *server.Client) {
	_ = client.Conn.SetReadDeadline(time.Now().Add(idleTimeout))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(idleTimeout))
	})

	for {
		var payload server.PayloadIn
		if err := client.Conn.ReadJSON(&payload); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).WithField("client", client.String()).Debug("websocket read ended")
			}

			client.CloseError = err
			return
		}

		m.server.HandleMessage(client, &payload)
	}
}

// writePump forwards queued envelopes to the peer and keeps the connection
// alive with pings. It exits when done closes or a write fails.
func (m *Mux) writePump(client *server.Client, done <-chan struct{}) {
	pings := time.NewTicker(pingInterval)
	defer pings.Stop()

	for {
		select {
		case <-done:
			deadline := time.Now().Add(sendTimeout)
			_ = client.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return

		case <-pings.C:
			deadline := time.Now().Add(sendTimeout)
			if err := client.Conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}

		case env := <-client.SendChan():
			_ = client.Conn.SetWriteDeadline(time.Now().Add(sendTimeout))
			if err := client.Conn.WriteJSON(env); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"client": client.String(),
					"kind":   env.Kind,
				}).Warn("websocket write failed; dropping client")
				return
			}
		}
	}
}
