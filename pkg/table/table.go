package table

import (
	"sort"

	"github.com/sirupsen/logrus"

	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker"
)

// Table is the authoritative engine for one poker table. It owns the
// seating, the deck, and the hand in progress; it validates every action and
// returns the resulting events in order.
//
// All methods must be invoked serially. The table performs no locking and
// never blocks; serialization is the driver's responsibility.
type Table struct {
	log     logrus.FieldLogger
	players *PlayerManager
	deck    *deck.Deck
	rng     rng.Generator

	// button is the current dealer; 0 means no hand has been played yet
	button PlayerID

	hand *handState
}

// NewTable returns a table with every seat open. The generator drives every
// shuffle; inject a seeded generator for reproducible deals.
func NewTable(logger logrus.FieldLogger, g rng.Generator) *Table {
	return &Table{
		log:     logger,
		players: NewPlayerManager(),
		deck:    deck.New(),
		rng:     g,
	}
}

// HasOpenSeat returns true if another player can be admitted
func (t *Table) HasOpenSeat() bool {
	return t.players.SeatedCount() < MaxPlayers
}

// HandInProgress returns true while a hand is being played
func (t *Table) HandInProgress() bool {
	return t.hand != nil
}

// CanStartHand returns true if StartHand would not trivially fail
func (t *Table) CanStartHand() bool {
	return !t.HandInProgress() && t.players.SeatedCount() >= 2
}

// AddPlayer admits a player into the holding pen; they are dealt in from the
// next hand
func (t *Table) AddPlayer(id PlayerID) ([]Event, error) {
	if err := t.players.AddPlayer(id); err != nil {
		return nil, err
	}

	t.log.WithField("player", id).Debug("player admitted")
	return []Event{PlayerAdded{Who: id}}, nil
}

// RemovePlayer stages a player's departure. A held player leaves immediately;
// a seated player is flagged as left for the remainder of the hand and has
// their seat freed at the next hand boundary. If it was the player's turn,
// the turn advances.
func (t *Table) RemovePlayer(id PlayerID) ([]Event, error) {
	if err := t.players.RemovePlayer(id); err != nil {
		return nil, err
	}

	events := []Event{PlayerRemoved{Who: id}}
	if t.hand == nil {
		return events, nil
	}

	if _, ok := t.hand.playerState[id]; ok {
		t.hand.playerState[id] = StateLeft
	}

	removedFront := false
	updated := make([]PlayerID, 0, len(t.hand.turnQueue))
	for _, queued := range t.hand.turnQueue {
		if queued == id {
			if len(updated) == 0 {
				removedFront = true
			}
			continue
		}
		updated = append(updated, queued)
	}
	t.hand.turnQueue = updated

	if removedFront {
		t.pruneTurnQueue()
		if len(t.hand.turnQueue) > 0 {
			events = append(events, TurnAdvanced{Next: t.hand.turnQueue[0]})
		}
	}

	t.log.WithField("player", id).Debug("player staged to leave")
	return events, nil
}

// StartHand begins a new hand: leavers are finalized, held players are
// seated, the button advances, blinds are posted, and hole cards go out.
func (t *Table) StartHand() ([]Event, error) {
	if t.hand != nil {
		return nil, ErrHandInPlay
	}

	t.players.FinalizeLeavers()
	t.players.SeatHeldPlayers()
	if t.players.SeatedCount() < 2 {
		return nil, ErrNotEnoughPlayers
	}

	button, err := t.advanceButton()
	if err != nil {
		return nil, err
	}
	t.button = button

	participants := t.players.ActiveCycleFrom(button)
	if len(participants) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	state := newHandState(button, participants)
	t.dealCards(state)
	t.hand = state

	t.log.WithFields(logrus.Fields{
		"button":       button,
		"participants": len(participants),
	}).Info("hand started")

	events := []Event{HandStarted{}, PhaseAdvanced{Next: PhasePreflop}}
	for _, id := range participants {
		events = append(events, DealtHole{Who: id, Hole: state.holes[id]})
	}

	n := len(participants)
	var firstToAct PlayerID
	if n == 2 {
		// heads-up: the button posts the small blind and acts first
		events = t.postBlind(participants[0], SmallBlind, events)
		events = t.postBlind(participants[1], BigBlind, events)
		firstToAct = participants[0]
	} else {
		events = t.postBlind(participants[1], SmallBlind, events)
		events = t.postBlind(participants[2], BigBlind, events)
		firstToAct = participants[3%n]
	}

	t.hand.turnQueue = t.buildTurnQueue(firstToAct)
	t.pruneTurnQueue()
	if len(t.hand.turnQueue) == 0 {
		// everyone is all-in off the blinds; run the board out
		events = t.revealRemainingBoard(events)
		events = t.distributeSidePots(events)
		t.endHand()
		return events, nil
	}

	events = append(events, TurnAdvanced{Next: t.hand.turnQueue[0]})
	return events, nil
}

// OnAction validates and applies a single player action, then drives any
// resulting phase transition or hand completion.
func (t *Table) OnAction(action Action) ([]Event, error) {
	events, err := t.apply(action)
	if err != nil {
		return nil, err
	}

	t.pruneTurnQueue()

	remaining := t.remainingInHand()
	if len(remaining) == 1 {
		// everyone else folded or left; no showdown
		events = t.awardChips(remaining[0], t.totalCommitted(), events)
		t.endHand()
		return events, nil
	}

	if len(t.hand.turnQueue) == 0 {
		anyActive := false
		for _, id := range remaining {
			if t.hand.playerState[id] == StateActive {
				anyActive = true
				break
			}
		}

		if !anyActive {
			events = t.revealRemainingBoard(events)
			events = t.distributeSidePots(events)
			t.endHand()
			return events, nil
		}

		if t.hand.phase == PhaseRiver {
			events = t.distributeSidePots(events)
			t.endHand()
			return events, nil
		}

		advance, err := t.NextStreet()
		if err != nil {
			return nil, err
		}
		return append(events, advance...), nil
	}

	return append(events, TurnAdvanced{Next: t.hand.turnQueue[0]}), nil
}

// NextStreet advances the hand to the next phase, resetting the per-street
// bets and rebuilding the turn queue. OnAction calls this internally; it is
// exported so tests can drive streets directly.
func (t *Table) NextStreet() ([]Event, error) {
	if t.hand == nil {
		return nil, ErrInvalidAction
	}

	var next Phase
	switch t.hand.phase {
	case PhasePreflop:
		next = PhaseFlop
	case PhaseFlop:
		next = PhaseTurn
	case PhaseTurn:
		next = PhaseRiver
	default:
		return nil, ErrInvalidAction
	}

	t.hand.phase = next
	events := []Event{PhaseAdvanced{Next: next}, t.boardEvent(next)}

	for id := range t.hand.activeBets {
		t.hand.activeBets[id] = 0
	}
	t.hand.previousBet = 0
	t.hand.minRaise = BigBlind

	if start, ok := t.firstActiveAfter(t.hand.button); ok {
		t.hand.turnQueue = t.buildTurnQueue(start)
	} else {
		t.hand.turnQueue = nil
	}
	t.pruneTurnQueue()

	if len(t.hand.turnQueue) > 0 {
		events = append(events, TurnAdvanced{Next: t.hand.turnQueue[0]})
	}

	return events, nil
}

// apply checks the per-action preconditions and dispatches on the variant
func (t *Table) apply(action Action) ([]Event, error) {
	if t.hand == nil {
		return nil, ErrInvalidAction
	}

	id := action.Player()
	if !t.players.IsSat(id) {
		return nil, ErrNoSuchPlayer
	}

	t.pruneTurnQueue()
	if len(t.hand.turnQueue) == 0 || t.hand.turnQueue[0] != id {
		return nil, ErrOutOfTurn
	}

	switch a := action.(type) {
	case Fold:
		return t.handleFold(a)
	case Bet:
		return t.handleBet(a)
	case Timeout:
		return t.handleTimeout(a)
	default:
		return nil, ErrInvalidAction
	}
}

// handleBet applies a bet of additional chips: a check at 0, a call up to the
// outstanding bet, or a raise beyond it. Oversized bets clamp to the stack
// and put the player all-in.
func (t *Table) handleBet(a Bet) ([]Event, error) {
	id := a.ID
	bet := a.Amount
	previous := t.hand.previousBet
	current := t.hand.activeBets[id]
	chips := t.players.GetChips(id)

	isAllIn := false
	if bet >= chips && bet > 0 {
		bet = chips
		isAllIn = true
	}

	total := current + bet
	if bet == 0 {
		if current < previous {
			return nil, ErrBetTooLow
		}
	} else {
		if total < previous && !isAllIn {
			// cannot partially call
			return nil, ErrBetTooLow
		}
		if total > previous && total-previous < t.hand.minRaise && !isAllIn {
			return nil, ErrBetTooLow
		}
	}

	isRaise := total > previous && total-previous >= t.hand.minRaise

	if isAllIn {
		t.hand.playerState[id] = StateAllIn
	}

	t.hand.turnQueue = t.hand.turnQueue[1:]
	t.players.PlaceBet(id, bet)
	t.hand.committed[id] += bet
	t.hand.activeBets[id] = total
	if total > previous {
		t.hand.previousBet = total
	}

	if isRaise {
		t.hand.minRaise = total - previous

		// a full raise reopens action: fresh queue clockwise of the raiser,
		// raiser excluded, active players only
		ring := t.players.ActiveCycleFrom(id)
		queue := make([]PlayerID, 0, len(ring))
		for _, x := range ring {
			if x == id {
				continue
			}
			if t.hand.playerState[x] == StateActive {
				queue = append(queue, x)
			}
		}
		t.hand.turnQueue = queue
	}

	return []Event{BetPlaced{Who: id, Amount: bet}}, nil
}

func (t *Table) handleFold(a Fold) ([]Event, error) {
	t.hand.turnQueue = t.hand.turnQueue[1:]
	t.hand.playerState[a.ID] = StateFolded
	delete(t.hand.activeBets, a.ID)
	return nil, nil
}

// handleTimeout folds a player who is behind the bet and checks otherwise
func (t *Table) handleTimeout(a Timeout) ([]Event, error) {
	if t.hand.activeBets[a.ID] < t.hand.previousBet {
		return t.handleFold(Fold{ID: a.ID})
	}

	return t.handleBet(Bet{ID: a.ID, Amount: 0})
}

// advanceButton moves the button to the next seated player, or to the first
// seat for the opening hand (or when the previous holder has left)
func (t *Table) advanceButton() (PlayerID, error) {
	if t.button != 0 {
		if next, err := t.players.NextPlayer(t.button); err == nil {
			return next, nil
		}
	}

	first, err := t.players.GetFirstPlayer()
	if err != nil {
		return 0, ErrNotEnoughPlayers
	}

	return first, nil
}

// dealCards shuffles and deals two hole cards to each participant beginning
// at the button, then the five community cards
func (t *Table) dealCards(state *handState) {
	t.deck.Shuffle(t.rng)

	for _, id := range state.participants {
		hole, err := t.deck.DealHole()
		if err != nil {
			panic(err)
		}
		state.holes[id] = hole
	}

	board, err := t.deck.DealBoard()
	if err != nil {
		panic(err)
	}
	state.board = board
}

// postBlind puts in a forced bet, clamped to the player's stack. A player
// who cannot cover the blind is all-in.
func (t *Table) postBlind(id PlayerID, amount Chips, events []Event) []Event {
	chips := t.players.GetChips(id)
	if chips == 0 {
		t.hand.playerState[id] = StateAllIn
		return events
	}

	blind := amount
	if blind >= chips {
		blind = chips
		t.hand.playerState[id] = StateAllIn
	}

	t.players.PlaceBet(id, blind)
	t.hand.committed[id] += blind
	t.hand.activeBets[id] += blind
	if t.hand.activeBets[id] > t.hand.previousBet {
		t.hand.previousBet = t.hand.activeBets[id]
	}

	return append(events, BetPlaced{Who: id, Amount: blind})
}

// pruneTurnQueue drops non-active players from the head of the queue
func (t *Table) pruneTurnQueue() {
	if t.hand == nil {
		return
	}

	for len(t.hand.turnQueue) > 0 {
		if t.hand.playerState[t.hand.turnQueue[0]] == StateActive {
			return
		}
		t.hand.turnQueue = t.hand.turnQueue[1:]
	}
}

// buildTurnQueue returns the active participants in clockwise order
// beginning at start
func (t *Table) buildTurnQueue(start PlayerID) []PlayerID {
	offset := t.participantOffset(start)
	if offset < 0 {
		return nil
	}

	n := len(t.hand.participants)
	queue := make([]PlayerID, 0, n)
	for i := 0; i < n; i++ {
		id := t.hand.participants[(offset+i)%n]
		if t.hand.playerState[id] == StateActive {
			queue = append(queue, id)
		}
	}

	return queue
}

// firstActiveAfter returns the first active participant clockwise after start
func (t *Table) firstActiveAfter(start PlayerID) (PlayerID, bool) {
	offset := t.participantOffset(start)
	if offset < 0 {
		return 0, false
	}

	n := len(t.hand.participants)
	for i := 1; i <= n; i++ {
		id := t.hand.participants[(offset+i)%n]
		if t.hand.playerState[id] == StateActive {
			return id, true
		}
	}

	return 0, false
}

func (t *Table) participantOffset(id PlayerID) int {
	for i, participant := range t.hand.participants {
		if participant == id {
			return i
		}
	}

	return -1
}

// remainingInHand returns the participants still eligible for the pot
func (t *Table) remainingInHand() []PlayerID {
	remaining := make([]PlayerID, 0, len(t.hand.participants))
	for _, id := range t.hand.participants {
		switch t.hand.playerState[id] {
		case StateActive, StateAllIn:
			remaining = append(remaining, id)
		}
	}

	return remaining
}

// revealRemainingBoard runs the board out to the river, emitting the phase
// and card events for each skipped street
func (t *Table) revealRemainingBoard(events []Event) []Event {
	for t.hand.phase != PhaseRiver {
		switch t.hand.phase {
		case PhasePreflop:
			t.hand.phase = PhaseFlop
		case PhaseFlop:
			t.hand.phase = PhaseTurn
		case PhaseTurn:
			t.hand.phase = PhaseRiver
		default:
			return events
		}

		events = append(events, PhaseAdvanced{Next: t.hand.phase}, t.boardEvent(t.hand.phase))
	}

	return events
}

func (t *Table) boardEvent(phase Phase) Event {
	switch phase {
	case PhaseFlop:
		var flop [deck.FlopSize]deck.Card
		copy(flop[:], t.hand.board[:deck.FlopSize])
		return DealtFlop{Cards: flop}
	case PhaseTurn:
		return DealtStreet{Card: t.hand.board[deck.FlopSize]}
	case PhaseRiver:
		return DealtStreet{Card: t.hand.board[deck.FlopSize+1]}
	default:
		panic("no board card for phase " + phase.String())
	}
}

// sidePot is one layer of the pot with its eligible winners
type sidePot struct {
	amount   Chips
	eligible []PlayerID
}

// buildSidePots layers the pot by committed level. Folded chips stay in the
// layers they reached but folded players are never eligible.
func (t *Table) buildSidePots() []sidePot {
	type contribution struct {
		id     PlayerID
		amount Chips
	}

	contributions := make([]contribution, 0, len(t.hand.participants))
	for _, id := range t.hand.participants {
		if amount := t.hand.committed[id]; amount > 0 {
			contributions = append(contributions, contribution{id, amount})
		}
	}
	if len(contributions) == 0 {
		return nil
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].amount < contributions[j].amount
	})

	remaining := make([]PlayerID, len(contributions))
	for i, c := range contributions {
		remaining[i] = c.id
	}

	var pots []sidePot
	var previous Chips
	idx := 0
	for idx < len(contributions) {
		level := contributions[idx].amount
		if level > previous {
			layer := (level - previous) * Chips(len(remaining))

			eligible := make([]PlayerID, 0, len(remaining))
			for _, id := range remaining {
				switch t.hand.playerState[id] {
				case StateActive, StateAllIn:
					eligible = append(eligible, id)
				}
			}

			if layer > 0 {
				pots = append(pots, sidePot{amount: layer, eligible: eligible})
			}
			previous = level
		}

		for idx < len(contributions) && contributions[idx].amount == level {
			for i, id := range remaining {
				if id == contributions[idx].id {
					remaining = append(remaining[:i], remaining[i+1:]...)
					break
				}
			}
			idx++
		}
	}

	return pots
}

// distributeSidePots evaluates each pot layer at showdown and pays the
// winners, splitting ties and handing odd chips out one at a time in
// clockwise-from-button order
func (t *Table) distributeSidePots(events []Event) []Event {
	t.hand.phase = PhaseShowdown

	for _, pot := range t.buildSidePots() {
		if len(pot.eligible) == 0 {
			continue
		}

		best := ^poker.HandRank(0)
		var winners []PlayerID
		for _, id := range pot.eligible {
			rank := t.handRank(id)
			if len(winners) == 0 || rank < best {
				winners = []PlayerID{id}
				best = rank
			} else if rank == best {
				winners = append(winners, id)
			}
		}

		ordered := make([]PlayerID, 0, len(winners))
		for _, id := range t.hand.participants {
			for _, winner := range winners {
				if winner == id {
					ordered = append(ordered, id)
					break
				}
			}
		}

		share := pot.amount / Chips(len(ordered))
		remainder := pot.amount % Chips(len(ordered))
		for _, id := range ordered {
			payout := share
			if remainder > 0 {
				payout++
				remainder--
			}
			events = t.awardChips(id, payout, events)
		}
	}

	return events
}

// handRank evaluates a participant's best five-card hand over their hole
// cards and the board
func (t *Table) handRank(id PlayerID) poker.HandRank {
	hole := t.hand.holes[id]

	var cards [deck.HoleSize + deck.BoardSize]deck.Card
	cards[0] = hole[0]
	cards[1] = hole[1]
	copy(cards[deck.HoleSize:], t.hand.board[:])
	return poker.RankBestOfSeven(cards)
}

// awardChips credits the player and emits WonPot; zero awards are silent
func (t *Table) awardChips(id PlayerID, amount Chips, events []Event) []Event {
	if amount == 0 {
		return events
	}

	t.players.AwardChips(id, amount)
	t.log.WithFields(logrus.Fields{
		"player": id,
		"amount": amount,
	}).Debug("pot awarded")
	return append(events, WonPot{Who: id, Amount: amount})
}

func (t *Table) totalCommitted() Chips {
	var total Chips
	for _, amount := range t.hand.committed {
		total += amount
	}

	return total
}

func (t *Table) endHand() {
	t.hand = nil
	t.log.Debug("hand complete")
}
