package catch5

// Automated play covers three cases: CPU seats, turn timeouts for connected
// humans, and disconnected humans past their grace window. The policy only
// ever produces legal actions.

// AutoBid decides a bid for the seat: the minimal raise when the hand's
// strongest suit looks worth it, otherwise a pass. Timed-out humans always
// pass; this heuristic is for CPU seats.
func (g *Game) AutoBid(seat int) int {
	next := g.HighBid + 1
	if next < g.Rules.MinBid {
		next = g.Rules.MinBid
	}
	if next > g.Rules.MaxBid {
		return 0
	}

	_, strength := g.bestSuit(seat)
	if strength >= next {
		return next
	}
	return 0
}

// AutoTrump picks the suit the seat's hand is strongest in.
func (g *Game) AutoTrump(seat int) Suit {
	suit, _ := g.bestSuit(seat)
	return suit
}

// AutoPlay returns the lowest legal card for the seat.
func (g *Game) AutoPlay(seat int) Card {
	legal := g.LegalPlays(seat)
	lowest := legal[0]
	for _, c := range legal[1:] {
		if c.Rank < lowest.Rank {
			lowest = c
		}
	}
	return lowest
}

// bestSuit scores each suit as the points the hand would hold if that suit
// were trump, plus one per extra card of the suit for staying power.
func (g *Game) bestSuit(seat int) (Suit, int) {
	best := Hearts
	bestStrength := -1
	for _, suit := range []Suit{Hearts, Diamonds, Clubs, Spades} {
		strength := 0
		length := 0
		for _, c := range g.Players[seat].Hand {
			if c.Suit != suit {
				continue
			}
			length++
			strength += g.scoring.CardValue(c, suit)
		}
		if length > 1 {
			strength += length - 1
		}
		if strength > bestStrength {
			best = suit
			bestStrength = strength
		}
	}
	return best, bestStrength
}
