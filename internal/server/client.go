package server

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"holdem-server/pkg/table"
)

// Client is a player connected to the server
type Client struct {
	// Conn is the underlying websocket connection; nil for clients that have
	// not completed the upgrade (or in tests)
	Conn *websocket.Conn

	// CloseError records why the read side gave up, for post-mortem logging
	CloseError error

	PlayerID table.PlayerID
	TableID  table.TableID

	send chan Envelope

	// correlationID ties together the log lines for one connection
	correlationID string

	// dead clients were rejected at connect time and receive no broadcasts
	dead bool
}

func newClient(conn *websocket.Conn, id table.PlayerID) *Client {
	return &Client{
		Conn:          conn,
		PlayerID:      id,
		send:          make(chan Envelope, 256),
		correlationID: uuid.New().String(),
	}
}

// Send queues a message for the client. Returns false if the client's buffer
// is full.
func (c *Client) Send(msg Envelope) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outbound messages
func (c *Client) SendChan() <-chan Envelope {
	return c.send
}

// String returns a traceable identifier for the connection
func (c *Client) String() string {
	return fmt.Sprintf("player-%d@table-%d (%s)", c.PlayerID, c.TableID, c.correlationID)
}
