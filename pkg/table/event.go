package table

import "holdem-server/pkg/deck"

// Event is something observable that happened at the table. Events returned
// from a single call are ordered; the driver is responsible for delivery.
type Event interface {
	// Kind returns the wire identifier for the event
	Kind() string

	isEvent()
}

// PlayerAdded means the player was admitted into the holding pen
type PlayerAdded struct {
	Who PlayerID `json:"who"`
}

// Kind returns the wire identifier
func (PlayerAdded) Kind() string { return "player_added" }

func (PlayerAdded) isEvent() {}

// PlayerRemoved means the player is staged to leave, or left immediately if
// it was still held
type PlayerRemoved struct {
	Who PlayerID `json:"who"`
}

// Kind returns the wire identifier
func (PlayerRemoved) Kind() string { return "player_removed" }

func (PlayerRemoved) isEvent() {}

// HandStarted is emitted once per hand, before any dealing
type HandStarted struct{}

// Kind returns the wire identifier
func (HandStarted) Kind() string { return "hand_started" }

func (HandStarted) isEvent() {}

// PhaseAdvanced means the hand moved to the next phase
type PhaseAdvanced struct {
	Next Phase `json:"next"`
}

// Kind returns the wire identifier
func (PhaseAdvanced) Kind() string { return "phase_advanced" }

func (PhaseAdvanced) isEvent() {}

// DealtHole carries a player's hole cards. Private: the driver must deliver
// it only to Who.
type DealtHole struct {
	Who  PlayerID                 `json:"who"`
	Hole [deck.HoleSize]deck.Card `json:"hole"`
}

// Kind returns the wire identifier
func (DealtHole) Kind() string { return "dealt_hole" }

func (DealtHole) isEvent() {}

// DealtFlop carries the first three community cards
type DealtFlop struct {
	Cards [deck.FlopSize]deck.Card `json:"cards"`
}

// Kind returns the wire identifier
func (DealtFlop) Kind() string { return "dealt_flop" }

func (DealtFlop) isEvent() {}

// DealtStreet carries the turn or river card
type DealtStreet struct {
	Card deck.Card `json:"card"`
}

// Kind returns the wire identifier
func (DealtStreet) Kind() string { return "dealt_street" }

func (DealtStreet) isEvent() {}

// BetPlaced means chips went in. Amount is the delta for this call, blinds
// included.
type BetPlaced struct {
	Who    PlayerID `json:"who"`
	Amount Chips    `json:"amount"`
}

// Kind returns the wire identifier
func (BetPlaced) Kind() string { return "bet_placed" }

func (BetPlaced) isEvent() {}

// TurnAdvanced means action is now on Next
type TurnAdvanced struct {
	Next PlayerID `json:"next"`
}

// Kind returns the wire identifier
func (TurnAdvanced) Kind() string { return "turn_advanced" }

func (TurnAdvanced) isEvent() {}

// WonPot means chips moved to Who
type WonPot struct {
	Who    PlayerID `json:"who"`
	Amount Chips    `json:"amount"`
}

// Kind returns the wire identifier
func (WonPot) Kind() string { return "won_pot" }

func (WonPot) isEvent() {}
