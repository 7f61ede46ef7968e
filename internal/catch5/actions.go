package catch5

import "fmt"

// Effects describes the side effects a successful transition asks the caller
// to perform. The engine itself does no I/O.
type Effects struct {
	Redealt      bool
	TrickWinner  *int
	HandComplete *HandResult
	GameOver     *GameResult
}

type HandResult struct {
	BiddingTeam int    `json:"biddingTeam"`
	Bid         int    `json:"bid"`
	Points      [2]int `json:"points"` // points captured this hand, by team
	Set         bool   `json:"set"`    // bidding team fell short and lost its bid
	Scores      [2]int `json:"scores"` // running totals after the hand
}

type GameResult struct {
	WinningTeam int
	Stats       [4]SeatStats
}

// SeatStats is the per-seat stat delta emitted once at game over.
type SeatStats struct {
	GamesPlayed    int
	GamesWon       int
	BidsMade       int
	BidsSucceeded  int
	TimesSet       int
	PointsScored   int
	HighestBid     int
	HighestBidMade int
}

// PlaceBid records a bid (or a pass, amount 0) for the seat. A bid must lie
// in the rule interval and strictly beat the current high bid. A bid of the
// maximum ends bidding at once; three passes after any bid end it too; four
// passes redeal with the dealer rotated.
func (g *Game) PlaceBid(seat, amount int) (Effects, error) {
	if seat < 0 || seat > 3 {
		return Effects{}, ErrInvalidSeat
	}
	if g.Phase != PhaseBidding {
		return Effects{}, ErrWrongPhase
	}
	if seat != g.CurrentPlayerIndex {
		return Effects{}, ErrNotYourTurn
	}

	if amount != 0 {
		if amount < g.Rules.MinBid || amount > g.Rules.MaxBid {
			return Effects{}, fmt.Errorf("%w (%d-%d)", ErrIllegalBid, g.Rules.MinBid, g.Rules.MaxBid)
		}
		if amount <= g.HighBid {
			return Effects{}, fmt.Errorf("%w: must beat %d", ErrIllegalBid, g.HighBid)
		}
	}

	bid := amount
	g.Players[seat].Bid = &bid

	if amount == 0 {
		g.passStreak++

		if g.HighBid == 0 && g.passStreak == 4 {
			g.redeal()
			return Effects{Redealt: true}, nil
		}
		if g.HighBid > 0 && g.passStreak == 3 {
			g.beginTrumpSelection()
			return Effects{}, nil
		}

		g.CurrentPlayerIndex = nextSeat(seat)
		return Effects{}, nil
	}

	g.HighBid = amount
	g.BidderIndex = seat
	g.passStreak = 0

	if amount == g.Rules.MaxBid {
		g.beginTrumpSelection()
		return Effects{}, nil
	}

	g.CurrentPlayerIndex = nextSeat(seat)
	return Effects{}, nil
}

func (g *Game) beginTrumpSelection() {
	g.Phase = PhaseTrumpSelection
	g.CurrentPlayerIndex = g.BidderIndex

	tally := &g.tallies[g.BidderIndex]
	tally.BidsMade++
	if g.HighBid > tally.HighestBid {
		tally.HighestBid = g.HighBid
	}
}

// SelectTrump fixes the trump suit for the hand. Only the winning bidder may
// act, and only once; the bidder then leads the first trick.
func (g *Game) SelectTrump(seat int, suit Suit) (Effects, error) {
	if seat < 0 || seat > 3 {
		return Effects{}, ErrInvalidSeat
	}
	if g.Phase != PhaseTrumpSelection {
		return Effects{}, ErrWrongPhase
	}
	if seat != g.BidderIndex {
		return Effects{}, ErrNotBidder
	}

	trump := suit
	g.TrumpSuit = &trump
	g.Phase = PhasePlaying
	g.TrickLeader = seat
	g.CurrentPlayerIndex = seat
	return Effects{}, nil
}

// LegalPlays returns the cards the seat may legally play right now: cards of
// the led suit if any are held, otherwise the whole hand.
func (g *Game) LegalPlays(seat int) []Card {
	hand := g.Players[seat].Hand
	if len(g.CurrentTrick) == 0 {
		return append([]Card(nil), hand...)
	}

	led := g.CurrentTrick[0].Card.Suit
	if !g.hasSuit(seat, led) {
		return append([]Card(nil), hand...)
	}

	var legal []Card
	for _, c := range hand {
		if c.Suit == led {
			legal = append(legal, c)
		}
	}
	return legal
}

// PlayCard plays a card from the seat's hand into the current trick,
// enforcing follow-suit. When the fourth card lands the trick is resolved;
// after the fifth trick the hand is scored and the game either redeals or
// ends.
func (g *Game) PlayCard(seat int, card Card) (Effects, error) {
	if seat < 0 || seat > 3 {
		return Effects{}, ErrInvalidSeat
	}
	if g.Phase != PhasePlaying {
		return Effects{}, ErrWrongPhase
	}
	if seat != g.CurrentPlayerIndex {
		return Effects{}, ErrNotYourTurn
	}
	if !g.holdsCard(seat, card) {
		return Effects{}, fmt.Errorf("%w: card not in hand", ErrIllegalPlay)
	}
	if len(g.CurrentTrick) > 0 {
		led := g.CurrentTrick[0].Card.Suit
		if card.Suit != led && g.hasSuit(seat, led) {
			return Effects{}, fmt.Errorf("%w: must follow %s", ErrIllegalPlay, led)
		}
	}

	g.removeCard(seat, card)
	g.CurrentTrick = append(g.CurrentTrick, TrickPlay{Seat: seat, Card: card})

	if len(g.CurrentTrick) < 4 {
		g.CurrentPlayerIndex = nextSeat(seat)
		return Effects{}, nil
	}

	winner := resolveTrick(g.CurrentTrick, *g.TrumpSuit)
	team := TeamForSeat(winner)
	for _, play := range g.CurrentTrick {
		g.Captured[team] = append(g.Captured[team], play.Card)
	}
	g.CurrentTrick = nil
	g.TricksPlayed++
	g.TrickLeader = winner
	g.CurrentPlayerIndex = winner

	effects := Effects{TrickWinner: &winner}
	if g.TricksPlayed == HandSize {
		g.scoreHand(&effects)
	}
	return effects, nil
}

// resolveTrick picks the winning seat: the highest trump if any trump was
// played, otherwise the highest card of the suit led. Deterministic in the
// play order.
func resolveTrick(trick []TrickPlay, trump Suit) int {
	best := trick[0]
	for _, play := range trick[1:] {
		if beats(play.Card, best.Card, trump) {
			best = play
		}
	}
	return best.Seat
}

// beats reports whether c outranks the incumbent. The incumbent is always
// the led card or something that already beat it, so a non-trump challenger
// only wins by outranking within the same suit.
func beats(c, incumbent Card, trump Suit) bool {
	if c.Suit == trump && incumbent.Suit != trump {
		return true
	}
	if c.Suit != trump && incumbent.Suit == trump {
		return false
	}
	if c.Suit != incumbent.Suit {
		return false
	}
	return c.Rank > incumbent.Rank
}

// scoreHand applies the scoring policy to the captured cards, settles the
// bid, and either ends the game or rotates the dealer for a fresh deal.
func (g *Game) scoreHand(effects *Effects) {
	g.Phase = PhaseHandScoring

	trump := *g.TrumpSuit
	var points [2]int
	for team, cards := range g.Captured {
		for _, c := range cards {
			points[team] += g.scoring.CardValue(c, trump)
		}
	}

	biddingTeam := TeamForSeat(g.BidderIndex)
	defending := 1 - biddingTeam
	set := points[biddingTeam] < g.HighBid

	if set {
		g.Scores[biddingTeam] -= g.HighBid
		g.tallies[g.BidderIndex].TimesSet++
	} else {
		g.Scores[biddingTeam] += points[biddingTeam]
		tally := &g.tallies[g.BidderIndex]
		tally.BidsSucceeded++
		if g.HighBid > tally.HighestBidMade {
			tally.HighestBidMade = g.HighBid
		}
	}
	g.Scores[defending] += points[defending]

	for seat := range g.Players {
		g.tallies[seat].PointsScored += points[TeamForSeat(seat)]
	}

	result := &HandResult{
		BiddingTeam: biddingTeam,
		Bid:         g.HighBid,
		Points:      points,
		Set:         set,
		Scores:      g.Scores,
	}
	effects.HandComplete = result
	g.HandNumber++

	// Bidder goes out: when both teams cross the target on the same hand,
	// the bidding team takes the game.
	for _, team := range [2]int{biddingTeam, defending} {
		if g.Scores[team] >= g.Rules.TargetScore {
			g.finish(team, effects)
			return
		}
	}

	g.redeal()
}

func (g *Game) finish(winningTeam int, effects *Effects) {
	g.Phase = PhaseGameOver
	g.WinningTeam = winningTeam

	var stats [4]SeatStats
	for seat, tally := range g.tallies {
		won := 0
		if TeamForSeat(seat) == winningTeam {
			won = 1
		}
		stats[seat] = SeatStats{
			GamesPlayed:    1,
			GamesWon:       won,
			BidsMade:       tally.BidsMade,
			BidsSucceeded:  tally.BidsSucceeded,
			TimesSet:       tally.TimesSet,
			PointsScored:   tally.PointsScored,
			HighestBid:     tally.HighestBid,
			HighestBidMade: tally.HighestBidMade,
		}
	}

	effects.GameOver = &GameResult{
		WinningTeam: winningTeam,
		Stats:       stats,
	}
}
