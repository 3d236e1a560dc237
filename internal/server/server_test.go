package server

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-server/internal/config"
	"holdem-server/pkg/table"
)

func testServer(maxClients int) *Server {
	cfg := config.Config{MaxClients: maxClients, TableSeed: 1}
	return New(logrus.StandardLogger(), cfg)
}

// drain empties the client's send buffer
func drain(c *Client) []Envelope {
	var out []Envelope
	for {
		select {
		case msg := <-c.SendChan():
			out = append(out, msg)
		default:
			return out
		}
	}
}

func kindsOf(envelopes []Envelope) []string {
	out := make([]string, len(envelopes))
	for i, e := range envelopes {
		out[i] = e.Kind
	}

	return out
}

func TestServer_ConnectSeatsAndStarts(t *testing.T) {
	a := assert.New(t)

	s := testServer(10)
	c1 := s.Connect(nil)
	a.Equal(table.PlayerID(1), c1.PlayerID)
	a.Equal(table.TableID(1), c1.TableID)
	a.Equal([]string{"welcome", "player_added"}, kindsOf(drain(c1)))

	c2 := s.Connect(nil)
	a.Equal(table.PlayerID(2), c2.PlayerID)
	a.Equal(table.TableID(1), c2.TableID, "second player joins the same table")

	// the second seat fills the table enough to start a hand
	got1 := drain(c1)
	got2 := drain(c2)
	a.Equal([]string{
		"player_added", "hand_started", "phase_advanced", "dealt_hole",
		"bet_placed", "bet_placed", "turn_advanced",
	}, kindsOf(got1))
	a.Equal([]string{
		"welcome", "player_added", "hand_started", "phase_advanced", "dealt_hole",
		"bet_placed", "bet_placed", "turn_advanced",
	}, kindsOf(got2))

	// each client sees only its own hole cards
	for _, env := range got1 {
		if env.Kind == "dealt_hole" {
			a.Equal(table.PlayerID(1), env.Data.(table.DealtHole).Who)
		}
	}
	for _, env := range got2 {
		if env.Kind == "dealt_hole" {
			a.Equal(table.PlayerID(2), env.Data.(table.DealtHole).Who)
		}
	}
}

func TestServer_ActionsRouteToTable(t *testing.T) {
	a := assert.New(t)

	s := testServer(10)
	c1 := s.Connect(nil)
	c2 := s.Connect(nil)
	drain(c1)
	drain(c2)

	// acting out of turn is an error delivered only to the offender
	s.HandleMessage(c2, &PayloadIn{Action: actionBet})
	got := drain(c2)
	require.Len(t, got, 1)
	a.Equal("error", got[0].Kind)
	a.Equal(errorPayload{Code: "out_of_turn"}, got[0].Data)
	a.Empty(drain(c1))

	// player 1 times out behind the blind: fold, and player 2 takes the pot
	s.HandleMessage(c1, &PayloadIn{Action: actionTimeout})
	a.Equal([]string{"won_pot"}, kindsOf(drain(c1)))
	a.Equal([]string{"won_pot"}, kindsOf(drain(c2)))

	// a fresh hand can be started on request
	s.HandleMessage(c1, &PayloadIn{Action: actionStart})
	a.Contains(kindsOf(drain(c2)), "hand_started")

	// unknown actions are rejected at the boundary
	s.HandleMessage(c1, &PayloadIn{Action: "shove"})
	got = drain(c1)
	found := false
	for _, env := range got {
		if env.Kind == "error" {
			a.Equal(errorPayload{Code: "illegal_action"}, env.Data)
			found = true
		}
	}
	a.True(found)
}

func TestServer_TooManyClients(t *testing.T) {
	a := assert.New(t)

	s := testServer(1)
	c1 := s.Connect(nil)
	drain(c1)

	c2 := s.Connect(nil)
	got := drain(c2)
	require.Len(t, got, 1)
	a.Equal("error", got[0].Kind)
	a.Equal(errorPayload{Code: "too_many_clients"}, got[0].Data)

	// the rejected client never reaches a table
	s.HandleMessage(c2, &PayloadIn{Action: actionStart})
	got = drain(c2)
	require.Len(t, got, 1)
	a.Equal(errorPayload{Code: "illegal_action"}, got[0].Data)
}

func TestServer_DisconnectRemovesPlayer(t *testing.T) {
	a := assert.New(t)

	s := testServer(10)
	c1 := s.Connect(nil)
	c2 := s.Connect(nil)
	c3 := s.Connect(nil)
	drain(c1)
	drain(c2)
	drain(c3)

	s.Disconnect(c3)
	a.Equal([]string{"player_removed"}, kindsOf(drain(c1)))

	// double disconnect is a no-op
	s.Disconnect(c3)
	a.Empty(drain(c1))
}

func TestServer_TablesOverflow(t *testing.T) {
	a := assert.New(t)

	s := testServer(50)
	var last *Client
	for i := 0; i < table.MaxPlayers+1; i++ {
		last = s.Connect(nil)
	}

	a.Equal(table.TableID(2), last.TableID, "an eleventh player opens a second table")
}
