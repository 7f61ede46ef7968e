package catch5_test

import (
	"testing"

	"github.com/PGD3311/Catch-5/internal/catch5"
)

func TestClientStateRedaction(t *testing.T) {
	g := newTestGame()

	for viewer := range 4 {
		state := g.ClientState(viewer)

		if state.YourSeat != viewer {
			t.Errorf("YourSeat = %d, expected %d", state.YourSeat, viewer)
		}
		for seat, p := range state.Players {
			if seat == viewer {
				if len(p.Hand) != catch5.HandSize {
					t.Errorf("Viewer %d sees %d of its own cards", viewer, len(p.Hand))
				}
				continue
			}
			if p.Hand != nil {
				t.Errorf("Viewer %d can see seat %d's hand", viewer, seat)
			}
			if p.HandCount != catch5.HandSize {
				t.Errorf("Viewer %d sees hand count %d for seat %d", viewer, p.HandCount, seat)
			}
		}
	}
}

func TestClientStateBidder(t *testing.T) {
	g := newTestGame()

	state := g.ClientState(0)
	if state.BidderID != "" {
		t.Errorf("BidderID = %q before any bid", state.BidderID)
	}

	if _, err := g.PlaceBid(1, 5); err != nil {
		t.Fatal(err)
	}
	for _, seat := range []int{2, 3, 0} {
		if _, err := g.PlaceBid(seat, 0); err != nil {
			t.Fatal(err)
		}
	}

	state = g.ClientState(0)
	if state.BidderID != "p1" {
		t.Errorf("BidderID = %q, expected p1", state.BidderID)
	}
	if state.HighBid != 5 {
		t.Errorf("HighBid = %d, expected 5", state.HighBid)
	}
}

func TestClientStateCopiesTrick(t *testing.T) {
	g := newTestGame()
	driveToPlaying(t, g, 1, 5, catch5.Spades)

	card := g.Players[1].Hand[0]
	if _, err := g.PlayCard(1, card); err != nil {
		t.Fatal(err)
	}

	state := g.ClientState(0)
	if len(state.CurrentTrick) != 1 || state.CurrentTrick[0].Card != card {
		t.Fatal("Current trick missing from client state")
	}

	// Mutating the view must not reach the game.
	state.CurrentTrick[0].Card = catch5.Card{Suit: catch5.Clubs, Rank: catch5.Two}
	if g.CurrentTrick[0].Card != card {
		t.Error("Client state aliases the live trick")
	}
}
