package poker

import (
	"sort"

	"holdem-server/pkg/deck"
)

// HandRank is a total order over poker hands. Smaller is strictly better;
// two hands of equal strength rank equal.
type HandRank uint64

const (
	categoryShift = 60
	nibbleBits    = 4
)

// Category returns the hand category encoded in the rank
func (r HandRank) Category() Category {
	return Category(r >> categoryShift)
}

// makeRank packs the category and kicker ranks into a HandRank.
// Kickers are inverted (15 - rank) so that a higher kicker yields a smaller value.
func makeRank(c Category, kickers ...int) HandRank {
	out := HandRank(c) << categoryShift
	shift := categoryShift - nibbleBits
	for _, k := range kickers {
		out |= HandRank(15-k) << shift
		shift -= nibbleBits
	}

	return out
}

// RankBestOfSeven returns the rank of the best five-card hand among the
// C(7,5)=21 subsets of the seven cards
func RankBestOfSeven(cards [7]deck.Card) HandRank {
	best := ^HandRank(0)
	for a := 0; a < 7; a++ {
		for b := a + 1; b < 7; b++ {
			for c := b + 1; c < 7; c++ {
				for d := c + 1; d < 7; d++ {
					for e := d + 1; e < 7; e++ {
						five := [5]deck.Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						if rank := rankFive(five); rank < best {
							best = rank
						}
					}
				}
			}
		}
	}

	return best
}

// rankFive ranks exactly five cards
func rankFive(cards [5]deck.Card) HandRank {
	var counts [15]int
	mask := 0
	isFlush := true
	for _, card := range cards {
		counts[card.Rank]++
		mask |= 1 << card.Rank
		if card.Suit != cards[0].Suit {
			isFlush = false
		}
	}

	straightHigh := 0
	for high := deck.Ace; high >= 5; high-- {
		seq := 0x1F << (high - 4)
		if mask&seq == seq {
			straightHigh = high
			break
		}
	}
	if straightHigh == 0 {
		// the wheel: A-2-3-4-5 plays as a five-high straight
		const wheel = 1<<deck.Ace | 1<<5 | 1<<4 | 1<<3 | 1<<2
		if mask&wheel == wheel {
			straightHigh = 5
		}
	}

	// group ranks by count, strongest group first
	type group struct {
		count int
		rank  int
	}
	grouped := make([]group, 0, 5)
	for rank := deck.Ace; rank >= 2; rank-- {
		if counts[rank] > 0 {
			grouped = append(grouped, group{counts[rank], rank})
		}
	}
	sort.Slice(grouped, func(i, j int) bool {
		if grouped[i].count != grouped[j].count {
			return grouped[i].count > grouped[j].count
		}
		return grouped[i].rank > grouped[j].rank
	})

	if straightHigh > 0 && isFlush {
		return makeRank(StraightFlush, straightHigh)
	}

	if grouped[0].count == 4 {
		return makeRank(FourOfAKind, grouped[0].rank, grouped[1].rank)
	}

	if grouped[0].count == 3 && grouped[1].count == 2 {
		return makeRank(FullHouse, grouped[0].rank, grouped[1].rank)
	}

	if isFlush {
		return makeRank(Flush, descendingRanks(cards)...)
	}

	if straightHigh > 0 {
		return makeRank(Straight, straightHigh)
	}

	if grouped[0].count == 3 {
		return makeRank(ThreeOfAKind, grouped[0].rank, grouped[1].rank, grouped[2].rank)
	}

	if grouped[0].count == 2 && grouped[1].count == 2 {
		return makeRank(TwoPair, grouped[0].rank, grouped[1].rank, grouped[2].rank)
	}

	if grouped[0].count == 2 {
		return makeRank(OnePair, grouped[0].rank, grouped[1].rank, grouped[2].rank, grouped[3].rank)
	}

	return makeRank(HighCard, descendingRanks(cards)...)
}

func descendingRanks(cards [5]deck.Card) []int {
	ranks := make([]int, 5)
	for i, card := range cards {
		ranks[i] = card.Rank
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	return ranks
}
