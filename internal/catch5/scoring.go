package catch5

// ScoringPolicy maps a captured card to the points it is worth for the hand
// in progress. The engine sums card values per team; it never assumes a
// particular table.
type ScoringPolicy interface {
	CardValue(c Card, trump Suit) int
}

// CatchFiveScoring is the standard table: only trump cards carry points.
// High (Ace) 1, Jack 1, Low (Two) 1, Game (Ten) 1, and the five of trump
// (the catch) 5. Nine points per hand, matching the 5-9 bid range.
type CatchFiveScoring struct{}

func (CatchFiveScoring) CardValue(c Card, trump Suit) int {
	if c.Suit != trump {
		return 0
	}
	switch c.Rank {
	case Five:
		return 5
	case Ace, Jack, Two, Ten:
		return 1
	default:
		return 0
	}
}
