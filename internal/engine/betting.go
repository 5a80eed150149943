package engine

import "sort"

// seatAt finds a seat by position among the given seats
func seatAt(seats []*Seat, pos int) *Seat {
	for _, s := range seats {
		if s.Position == pos {
			return s
		}
	}
	return nil
}

// seatByUser finds an active seat by user id
func seatByUser(seats []*Seat, userID string) *Seat {
	for _, s := range seats {
		if s.Active && s.UserID == userID {
			return s
		}
	}
	return nil
}

// handSeats returns the seats dealt into the hand, sorted by position
func handSeats(seats []*Seat) []*Seat {
	in := make([]*Seat, 0, len(seats))
	for _, s := range seats {
		if s.InHand {
			in = append(in, s)
		}
	}
	sort.Slice(in, func(i, j int) bool { return in[i].Position < in[j].Position })
	return in
}

// contenders returns the non-folded seats in the hand
func contenders(seats []*Seat) []*Seat {
	out := make([]*Seat, 0, len(seats))
	for _, s := range handSeats(seats) {
		if !s.Folded {
			out = append(out, s)
		}
	}
	return out
}

// actors returns the seats that can still wager (non-folded, non-all-in)
func actors(seats []*Seat) []*Seat {
	out := make([]*Seat, 0, len(seats))
	for _, s := range contenders(seats) {
		if !s.AllIn {
			out = append(out, s)
		}
	}
	return out
}

// eligibleToAct reports whether a seat may act in the current round: it has
// not yet acted this round, or it must respond to a raise (its bet is below
// the round's bet-to-match). This single rule also gives the big blind its
// preflop option, since posting a blind is not an action.
func (h *Hand) eligibleToAct(s *Seat) bool {
	if s.Folded || s.AllIn || !s.InHand {
		return false
	}
	return !h.Acted[s.Position] || s.CurrentBet < h.CurrentBet
}

// nextToAct walks clockwise from the given position and returns the next
// eligible seat position, or -1 if the betting round is complete.
func (h *Hand) nextToAct(seats []*Seat, fromPos int) int {
	in := handSeats(seats)
	if len(in) == 0 {
		return -1
	}
	// Rotate so the walk starts at the first seat after fromPos.
	start := 0
	for i, s := range in {
		if s.Position > fromPos {
			start = i
			break
		}
	}
	for i := 0; i < len(in); i++ {
		s := in[(start+i)%len(in)]
		if h.eligibleToAct(s) {
			return s.Position
		}
	}
	return -1
}

// collectBets moves every seat's round bet into the pot and resets the
// round state for a new street.
func (h *Hand) collectBets(seats []*Seat) {
	for _, s := range handSeats(seats) {
		h.Pot += s.CurrentBet
		s.CurrentBet = 0
	}
	h.CurrentBet = 0
	h.LastRaiserPos = -1
	h.Acted = make(map[int]bool)
}
