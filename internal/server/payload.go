package server

import "holdem-server/pkg/table"

// PayloadIn is a message received from a client
type PayloadIn struct {
	Action string      `json:"action"`
	Amount table.Chips `json:"amount"`
}

// client action identifiers
const (
	actionStart   = "start"
	actionFold    = "fold"
	actionBet     = "bet"
	actionTimeout = "timeout"
)

// Envelope wraps an outbound event or error for the wire
type Envelope struct {
	Kind string      `json:"kind"`
	Data interface{} `json:"data"`
}

type errorPayload struct {
	Code string `json:"code"`
}

type welcomePayload struct {
	PlayerID table.PlayerID `json:"playerId"`
	TableID  table.TableID  `json:"tableId"`
}

func eventEnvelope(ev table.Event) Envelope {
	return Envelope{Kind: ev.Kind(), Data: ev}
}

func errorEnvelope(err error) Envelope {
	return Envelope{Kind: "error", Data: errorPayload{Code: err.Error()}}
}

// eventVisibleTo implements the visibility filter: hole cards are private to
// their recipient, everything else is table-wide
func eventVisibleTo(ev table.Event, id table.PlayerID) bool {
	if dealt, ok := ev.(table.DealtHole); ok {
		return dealt.Who == id
	}

	return true
}
