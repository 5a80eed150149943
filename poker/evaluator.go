package poker

import "sort"

// Category represents the standard ten hand categories, weakest first.
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a display name for the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandValue is the comparable strength of a hand: category first, then the
// kicker tuple lexicographically. Kickers are fully ordered per category so
// equal-category hands compare deterministically, including exact ties.
type HandValue struct {
	Category Category
	Kickers  []int
}

// Compare returns >0 if a beats b, <0 if b beats a, 0 on a push.
func Compare(a, b HandValue) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	for i := 0; i < len(a.Kickers) && i < len(b.Kickers); i++ {
		if a.Kickers[i] != b.Kickers[i] {
			return a.Kickers[i] - b.Kickers[i]
		}
	}
	return len(a.Kickers) - len(b.Kickers)
}

// Evaluate ranks a 7-card pool (two hole cards plus the five community
// cards) by its best 5-card combination. It enumerates all 21 five-card
// subsets and keeps the maximum. Pure function of its inputs.
func Evaluate(hole []Card, community []Card) HandValue {
	pool := make([]Card, 0, 7)
	pool = append(pool, hole...)
	pool = append(pool, community...)
	if len(pool) != 7 {
		return EvaluatePartial(pool)
	}

	var best HandValue
	five := make([]Card, 5)
	// Choose the two pool indexes to drop.
	for drop1 := 0; drop1 < len(pool)-1; drop1++ {
		for drop2 := drop1 + 1; drop2 < len(pool); drop2++ {
			five = five[:0]
			for i, c := range pool {
				if i != drop1 && i != drop2 {
					five = append(five, c)
				}
			}
			v := scoreFive(five)
			if best.Category == 0 || Compare(v, best) > 0 {
				best = v
			}
		}
	}
	return best
}

// EvaluatePartial produces a degraded rating from fewer than five cards,
// for display hints on hands that ended before the board was revealed.
// It only detects rank multiplicity; it must never be used to settle a pot.
func EvaluatePartial(cards []Card) HandValue {
	groups := rankGroups(cards)
	if len(groups) == 0 {
		return HandValue{Category: HighCard}
	}
	kickers := make([]int, 0, len(cards))
	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			kickers = append(kickers, g.rank)
		}
	}
	cat := HighCard
	switch {
	case groups[0].count >= 4:
		cat = FourOfAKind
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count >= 2:
		cat = FullHouse
	case groups[0].count == 3:
		cat = ThreeOfAKind
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		cat = TwoPair
	case groups[0].count == 2:
		cat = OnePair
	}
	return HandValue{Category: cat, Kickers: kickers}
}

type rankGroup struct {
	rank  int
	count int
}

// rankGroups counts occurrences per rank, sorted by (count desc, rank desc)
func rankGroups(cards []Card) []rankGroup {
	counts := make(map[int]int, len(cards))
	for _, c := range cards {
		counts[int(c.Rank)]++
	}
	groups := make([]rankGroup, 0, len(counts))
	for rank, count := range counts {
		groups = append(groups, rankGroup{rank: rank, count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

// scoreFive rates exactly five cards
func scoreFive(cards []Card) HandValue {
	groups := rankGroups(cards)

	flush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straight, straightHigh := straightHigh(groups)

	switch {
	case flush && straight && straightHigh == int(Ace):
		return HandValue{Category: RoyalFlush}
	case flush && straight:
		return HandValue{Category: StraightFlush, Kickers: []int{straightHigh}}
	case groups[0].count == 4:
		return HandValue{Category: FourOfAKind, Kickers: []int{groups[0].rank, groups[1].rank}}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandValue{Category: FullHouse, Kickers: []int{groups[0].rank, groups[1].rank}}
	case flush:
		return HandValue{Category: Flush, Kickers: descendingRanks(cards)}
	case straight:
		return HandValue{Category: Straight, Kickers: []int{straightHigh}}
	case groups[0].count == 3:
		return HandValue{Category: ThreeOfAKind, Kickers: []int{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandValue{Category: TwoPair, Kickers: []int{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2:
		return HandValue{Category: OnePair, Kickers: []int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}}
	default:
		return HandValue{Category: HighCard, Kickers: descendingRanks(cards)}
	}
}

// straightHigh reports whether the five ranks are consecutive and, if so,
// the high rank of the run. The wheel (A-2-3-4-5) counts as a five-high
// straight, ranked below six-high.
func straightHigh(groups []rankGroup) (bool, int) {
	if len(groups) != 5 {
		return false, 0
	}
	// groups are sorted rank-desc when all counts are 1
	if groups[0].rank-groups[4].rank == 4 {
		return true, groups[0].rank
	}
	// Wheel: A,5,4,3,2
	if groups[0].rank == int(Ace) && groups[1].rank == int(Five) && groups[1].rank-groups[4].rank == 3 {
		return true, int(Five)
	}
	return false, 0
}

func descendingRanks(cards []Card) []int {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = int(c.Rank)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	return ranks
}
