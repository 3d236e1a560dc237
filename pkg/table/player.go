package table

import "fmt"

// PlayerID identifies a player within the process. Real ids start at 1;
// 0 is the unset-button sentinel.
type PlayerID uint64

// TableID identifies a table within the process
type TableID uint64

// Chips is an amount of chips
type Chips uint64

// table constants; these are fixed by the rules, not runtime-tunable
const (
	MaxPlayers       = 10
	BuyIn      Chips = 1000
	SmallBlind Chips = 5
	BigBlind   Chips = 10
)

// Player is a seated player with a chip balance
type Player struct {
	id    PlayerID
	chips Chips
}

func newPlayer(id PlayerID) *Player {
	return &Player{id: id}
}

// ID returns the player's id
func (p *Player) ID() PlayerID {
	return p.id
}

// Chips returns the current balance
func (p *Player) Chips() Chips {
	return p.chips
}

// AddChips credits the balance
func (p *Player) AddChips(amount Chips) {
	p.chips += amount
}

// SufficientChips returns true if the balance covers the bet
func (p *Player) SufficientChips(bet Chips) bool {
	return p.chips >= bet
}

// PlaceBet debits the balance. The caller must have validated the amount;
// a bet beyond the balance is a programmer error.
func (p *Player) PlaceBet(bet Chips) {
	if bet > p.chips {
		panic(fmt.Sprintf("bet %d exceeds balance %d for player %d", bet, p.chips, p.id))
	}

	p.chips -= bet
}
