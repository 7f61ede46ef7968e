package catch5_test

import (
	"testing"

	"github.com/PGD3311/Catch-5/internal/catch5"
)

func TestCatchFiveScoringTable(t *testing.T) {
	policy := catch5.CatchFiveScoring{}
	trump := catch5.Hearts

	tests := []struct {
		card   catch5.Card
		points int
	}{
		{catch5.Card{Suit: catch5.Hearts, Rank: catch5.Five}, 5},
		{catch5.Card{Suit: catch5.Hearts, Rank: catch5.Ace}, 1},
		{catch5.Card{Suit: catch5.Hearts, Rank: catch5.Jack}, 1},
		{catch5.Card{Suit: catch5.Hearts, Rank: catch5.Two}, 1},
		{catch5.Card{Suit: catch5.Hearts, Rank: catch5.Ten}, 1},
		{catch5.Card{Suit: catch5.Hearts, Rank: catch5.King}, 0},
		{catch5.Card{Suit: catch5.Hearts, Rank: catch5.Nine}, 0},
		{catch5.Card{Suit: catch5.Spades, Rank: catch5.Five}, 0},
		{catch5.Card{Suit: catch5.Clubs, Rank: catch5.Ace}, 0},
	}
	for _, tt := range tests {
		if got := policy.CardValue(tt.card, trump); got != tt.points {
			t.Errorf("%s worth %d with %s trump, expected %d", tt.card, got, trump, tt.points)
		}
	}
}

func TestNinePointsPerHand(t *testing.T) {
	policy := catch5.CatchFiveScoring{}
	deck := catch5.NewDeck()

	for _, trump := range []catch5.Suit{catch5.Hearts, catch5.Diamonds, catch5.Clubs, catch5.Spades} {
		total := 0
		for _, card := range deck.Cards {
			total += policy.CardValue(card, trump)
		}
		if total != 9 {
			t.Errorf("Deck carries %d points with %s trump, expected 9", total, trump)
		}
	}
}

// fixedScoring makes every captured card worth one point, proving the engine
// takes the table from the policy rather than assuming one.
type fixedScoring struct{}

func (fixedScoring) CardValue(catch5.Card, catch5.Suit) int { return 1 }

func TestScoringPolicyPluggable(t *testing.T) {
	g := catch5.NewGame([4]catch5.PlayerSpec{
		{ID: "p0", Name: "North", IsHuman: true},
		{ID: "p1", Name: "East", IsHuman: true},
		{ID: "p2", Name: "South", IsHuman: true},
		{ID: "p3", Name: "West", IsHuman: true},
	}, catch5.DefaultRules(), catch5.WithScoringPolicy(fixedScoring{}))

	driveToPlaying(t, g, 1, 5, catch5.Hearts)
	g.TricksPlayed = 4

	rigHands(g, [4][]catch5.Card{
		{{Suit: catch5.Clubs, Rank: catch5.Four}},
		{{Suit: catch5.Hearts, Rank: catch5.Nine}},
		{{Suit: catch5.Clubs, Rank: catch5.Six}},
		{{Suit: catch5.Clubs, Rank: catch5.Seven}},
	})
	g.Captured = [2][]catch5.Card{nil, nil}

	var effects catch5.Effects
	for _, seat := range []int{1, 2, 3, 0} {
		var err error
		effects, err = g.PlayCard(seat, g.Players[seat].Hand[0])
		if err != nil {
			t.Fatalf("PlayCard: %v", err)
		}
	}

	if effects.HandComplete == nil {
		t.Fatal("Hand did not complete")
	}
	// Seat 1 wins the only counted trick; four cards at a point apiece.
	if effects.HandComplete.Points[1] != 4 {
		t.Errorf("Points[1] = %d under the substitute policy, expected 4", effects.HandComplete.Points[1])
	}
}
