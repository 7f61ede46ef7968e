package catch5_test

import (
	"sort"
	"testing"

	"github.com/PGD3311/Catch-5/internal/catch5"
)

func newTestGame() *catch5.Game {
	return catch5.NewGame([4]catch5.PlayerSpec{
		{ID: "p0", Name: "North", IsHuman: true},
		{ID: "p1", Name: "East", IsHuman: true},
		{ID: "p2", Name: "South", IsHuman: true},
		{ID: "p3", Name: "West", IsHuman: false},
	}, catch5.DefaultRules())
}

// driveToPlaying walks a fresh game through bidding and trump selection:
// the given seat bids the given amount, everyone else passes.
func driveToPlaying(t *testing.T, g *catch5.Game, bidder, bid int, trump catch5.Suit) {
	t.Helper()

	for g.Phase == catch5.PhaseBidding {
		seat := g.CurrentPlayerIndex
		amount := 0
		if seat == bidder && g.HighBid == 0 {
			amount = bid
		}
		if _, err := g.PlaceBid(seat, amount); err != nil {
			t.Fatalf("PlaceBid(%d, %d): %v", seat, amount, err)
		}
	}

	if g.Phase != catch5.PhaseTrumpSelection {
		t.Fatalf("Phase is %s after bidding, expected %s", g.Phase, catch5.PhaseTrumpSelection)
	}
	if _, err := g.SelectTrump(bidder, trump); err != nil {
		t.Fatalf("SelectTrump: %v", err)
	}
}

func assertFullDeck(t *testing.T, g *catch5.Game) {
	t.Helper()

	cards := g.AllCards()
	if len(cards) != 52 {
		t.Fatalf("State accounts for %d cards, 52 expected", len(cards))
	}

	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return cards[i].Suit < cards[j].Suit
		}
		return cards[i].Rank < cards[j].Rank
	})
	for i := 1; i < len(cards); i++ {
		if cards[i] == cards[i-1] {
			t.Fatalf("Duplicate card in state: %s", cards[i])
		}
	}
}

func TestNewGameDeal(t *testing.T) {
	g := newTestGame()

	if g.Phase != catch5.PhaseBidding {
		t.Errorf("Phase is %s, expected %s", g.Phase, catch5.PhaseBidding)
	}
	for i, p := range g.Players {
		if len(p.Hand) != catch5.HandSize {
			t.Errorf("Seat %d has %d cards, %d expected", i, len(p.Hand), catch5.HandSize)
		}
		if p.Bid != nil {
			t.Errorf("Seat %d has a bid before acting", i)
		}
	}
	if len(g.Stock) != 52-4*catch5.HandSize {
		t.Errorf("Stock has %d cards, %d expected", len(g.Stock), 52-4*catch5.HandSize)
	}
	if g.CurrentPlayerIndex != 1 {
		t.Errorf("Bidding starts at seat %d, expected seat 1 (left of dealer)", g.CurrentPlayerIndex)
	}

	assertFullDeck(t, g)
}

func TestCardConservationThroughHand(t *testing.T) {
	g := newTestGame()
	driveToPlaying(t, g, 1, 5, catch5.Hearts)

	for g.Phase == catch5.PhasePlaying {
		seat := g.CurrentPlayerIndex
		if _, err := g.PlayCard(seat, g.AutoPlay(seat)); err != nil {
			t.Fatalf("PlayCard: %v", err)
		}
		assertFullDeck(t, g)
	}
}

func TestRedealRotatesDealer(t *testing.T) {
	g := newTestGame()

	for {
		effects, err := g.PlaceBid(g.CurrentPlayerIndex, 0)
		if err != nil {
			t.Fatalf("PlaceBid: %v", err)
		}
		if effects.Redealt {
			break
		}
	}

	if g.DealerIndex != 1 {
		t.Errorf("Dealer is %d after all-pass redeal, expected 1", g.DealerIndex)
	}
	if g.CurrentPlayerIndex != 2 {
		t.Errorf("Bidding starts at seat %d after redeal, expected 2", g.CurrentPlayerIndex)
	}
	if g.Scores != [2]int{0, 0} {
		t.Errorf("Scores changed on redeal: %v", g.Scores)
	}
	if g.Phase != catch5.PhaseBidding {
		t.Errorf("Phase is %s after redeal, expected %s", g.Phase, catch5.PhaseBidding)
	}
	for i, p := range g.Players {
		if len(p.Hand) != catch5.HandSize {
			t.Errorf("Seat %d has %d cards after redeal", i, len(p.Hand))
		}
		if p.Bid != nil {
			t.Errorf("Seat %d kept its bid across the redeal", i)
		}
	}
	assertFullDeck(t, g)
}
