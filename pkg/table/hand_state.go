package table

import (
	"encoding/json"
	"fmt"

	"holdem-server/pkg/deck"
)

// Phase is a stage of a hand
type Phase uint8

// phase constants
const (
	PhasePreflop Phase = iota
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	default:
		panic(fmt.Sprintf("unknown phase: %d", uint8(p)))
	}
}

// MarshalJSON encodes the phase as its name
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// PlayerState is a participant's standing within the current hand
type PlayerState uint8

// player state constants
const (
	StateActive PlayerState = iota
	StateAllIn
	StateFolded
	StateLeft
)

// String returns the string representation of a player state
func (s PlayerState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateAllIn:
		return "all_in"
	case StateFolded:
		return "folded"
	case StateLeft:
		return "left"
	default:
		panic(fmt.Sprintf("unknown player state: %d", uint8(s)))
	}
}

// handState is the state of one hand, created at hand start and discarded
// atomically when the hand ends.
type handState struct {
	phase  Phase
	button PlayerID

	// participants is the clockwise snapshot starting at the button;
	// never mutated mid-hand
	participants []PlayerID

	playerState map[PlayerID]PlayerState
	holes       map[PlayerID][deck.HoleSize]deck.Card
	board       [deck.BoardSize]deck.Card

	// activeBets is per-street; committed spans the whole hand and drives
	// side-pot construction
	activeBets map[PlayerID]Chips
	committed  map[PlayerID]Chips

	previousBet Chips
	minRaise    Chips

	turnQueue []PlayerID
}

func newHandState(button PlayerID, participants []PlayerID) *handState {
	state := &handState{
		phase:        PhasePreflop,
		button:       button,
		participants: participants,
		playerState:  make(map[PlayerID]PlayerState, len(participants)),
		holes:        make(map[PlayerID][deck.HoleSize]deck.Card, len(participants)),
		activeBets:   make(map[PlayerID]Chips, len(participants)),
		committed:    make(map[PlayerID]Chips, len(participants)),
		minRaise:     BigBlind,
	}

	for _, id := range participants {
		state.playerState[id] = StateActive
		state.activeBets[id] = 0
		state.committed[id] = 0
	}

	return state
}
