package table

import "fmt"

// PlayerManager tracks the seats at a single table. Newly added players wait
// in a holding pen with a pre-assigned seat until the next hand starts;
// seated players who leave are staged in a leaving set and removed at the
// next hand boundary.
type PlayerManager struct {
	seats     [MaxPlayers]*Player
	openSeats []int
	index     map[PlayerID]int
	holding   []PlayerID
	leaving   map[PlayerID]struct{}
}

// NewPlayerManager returns a manager with every seat open
func NewPlayerManager() *PlayerManager {
	openSeats := make([]int, MaxPlayers)
	for i := range openSeats {
		openSeats[i] = i
	}

	return &PlayerManager{
		openSeats: openSeats,
		index:     make(map[PlayerID]int),
		holding:   make([]PlayerID, 0, MaxPlayers),
		leaving:   make(map[PlayerID]struct{}),
	}
}

// AddPlayer reserves the next open seat for the id and admits it to the
// holding pen. The player is seated at the next hand start.
func (m *PlayerManager) AddPlayer(id PlayerID) error {
	if len(m.openSeats) == 0 {
		return ErrNotEnoughSeats
	}

	if _, ok := m.index[id]; ok {
		return ErrInvalidID
	}

	seat := m.openSeats[0]
	m.openSeats = m.openSeats[1:]
	m.holding = append(m.holding, id)
	m.index[id] = seat
	return nil
}

// RemovePlayer stages a seated player to leave at the next hand boundary.
// A player still in holding is removed immediately. Removing an
// already-leaving player is a no-op.
func (m *PlayerManager) RemovePlayer(id PlayerID) error {
	seat, ok := m.index[id]
	if !ok {
		return ErrInvalidID
	}

	for i, held := range m.holding {
		if held == id {
			m.holding = append(m.holding[:i], m.holding[i+1:]...)
			m.openSeats = append(m.openSeats, seat)
			delete(m.index, id)
			return nil
		}
	}

	m.leaving[id] = struct{}{}
	return nil
}

// SeatHeldPlayers drains the holding pen, instantiating each player at its
// pre-assigned seat with the buy-in. Called at the start of a hand.
func (m *PlayerManager) SeatHeldPlayers() {
	for _, id := range m.holding {
		p := newPlayer(id)
		p.AddChips(BuyIn)
		m.seats[m.index[id]] = p
	}

	m.holding = m.holding[:0]
}

// FinalizeLeavers clears the seat of every leaving player and returns it to
// the open pool. Called at the end of a hand.
func (m *PlayerManager) FinalizeLeavers() {
	for id := range m.leaving {
		seat := m.index[id]
		m.seats[seat] = nil
		m.openSeats = append(m.openSeats, seat)
		delete(m.index, id)
	}

	m.leaving = make(map[PlayerID]struct{})
}

// GetFirstPlayer returns the lowest-indexed occupied, non-leaving seat
func (m *PlayerManager) GetFirstPlayer() (PlayerID, error) {
	for _, p := range m.seats {
		if p != nil && !m.IsLeaving(p.ID()) {
			return p.ID(), nil
		}
	}

	return 0, ErrNoPlayers
}

// NextPlayer returns the next occupied, non-leaving seat clockwise from p,
// wrapping around. If p holds the sole such seat, p is returned.
func (m *PlayerManager) NextPlayer(p PlayerID) (PlayerID, error) {
	start, ok := m.index[p]
	if !ok {
		return 0, ErrInvalidID
	}

	for i := 1; i <= MaxPlayers; i++ {
		seat := (start + i) % MaxPlayers
		if occupant := m.seats[seat]; occupant != nil && !m.IsLeaving(occupant.ID()) {
			return occupant.ID(), nil
		}
	}

	// no other seats in play; the cycle collapses to p itself
	return p, nil
}

// ActiveCycleFrom returns the clockwise cycle of occupied, non-leaving seats
// beginning at start. Empty if start is unknown or leaving.
func (m *PlayerManager) ActiveCycleFrom(start PlayerID) []PlayerID {
	if _, ok := m.index[start]; !ok || m.IsLeaving(start) {
		return nil
	}

	ordered := []PlayerID{start}
	for next, err := m.NextPlayer(start); err == nil && next != start; next, err = m.NextPlayer(next) {
		ordered = append(ordered, next)
	}

	return ordered
}

// IsSat returns true if the id occupies a seat
func (m *PlayerManager) IsSat(id PlayerID) bool {
	seat, ok := m.index[id]
	return ok && m.seats[seat] != nil
}

// IsLeaving returns true if the id is staged to leave
func (m *PlayerManager) IsLeaving(id PlayerID) bool {
	_, ok := m.leaving[id]
	return ok
}

// SeatedCount returns the number of claimed seats, held seats included
func (m *PlayerManager) SeatedCount() int {
	return MaxPlayers - len(m.openSeats)
}

// HasEnoughChips returns true if the seated player's balance covers the bet.
// The caller is responsible for validating the id.
func (m *PlayerManager) HasEnoughChips(id PlayerID, bet Chips) bool {
	return m.seated(id).SufficientChips(bet)
}

// GetChips returns the seated player's balance
func (m *PlayerManager) GetChips(id PlayerID) Chips {
	return m.seated(id).Chips()
}

// PlaceBet debits the seated player's balance
func (m *PlayerManager) PlaceBet(id PlayerID, bet Chips) {
	m.seated(id).PlaceBet(bet)
}

// AwardChips credits the seated player's balance
func (m *PlayerManager) AwardChips(id PlayerID, amount Chips) {
	m.seated(id).AddChips(amount)
}

func (m *PlayerManager) seated(id PlayerID) *Player {
	seat, ok := m.index[id]
	if !ok || m.seats[seat] == nil {
		panic(fmt.Sprintf("player %d is not seated", id))
	}

	return m.seats[seat]
}
