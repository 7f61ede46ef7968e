package catch5

// ClientState is the per-seat view of the game. The viewer sees its own hand;
// every other seat's hand is reduced to a count. Hand contents are never
// placed in any other seat's view.

type ClientState struct {
	Phase              Phase          `json:"phase"`
	Players            [4]ClientSeat  `json:"players"`
	DealerIndex        int            `json:"dealerIndex"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	HighBid            int            `json:"highBid"`
	BidderID           string         `json:"bidderId"`
	TrumpSuit          *Suit          `json:"trumpSuit"`
	CurrentTrick       []TrickPlay    `json:"currentTrick"`
	TrickLeader        int            `json:"trickLeader"`
	TricksPlayed       int            `json:"tricksPlayed"`
	Scores             [2]int         `json:"scores"`
	TargetScore        int            `json:"targetScore"`
	MinBid             int            `json:"minBid"`
	MaxBid             int            `json:"maxBid"`
	HandNumber         int            `json:"handNumber"`
	WinningTeam        int            `json:"winningTeam"`
	YourSeat           int            `json:"yourSeat"`
}

type ClientSeat struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsHuman   bool   `json:"isHuman"`
	HandCount int    `json:"handCount"`
	Hand      []Card `json:"hand,omitempty"` // populated only for the viewer
	Bid       *int   `json:"bid"`
}

// ClientState builds the redacted view for one seat.
func (g *Game) ClientState(viewer int) ClientState {
	var seats [4]ClientSeat
	for i, p := range g.Players {
		seat := ClientSeat{
			ID:        p.ID,
			Name:      p.Name,
			IsHuman:   p.IsHuman,
			HandCount: len(p.Hand),
			Bid:       p.Bid,
		}
		if i == viewer {
			seat.Hand = append([]Card(nil), p.Hand...)
		}
		seats[i] = seat
	}

	bidderID := ""
	if g.BidderIndex >= 0 {
		bidderID = g.Players[g.BidderIndex].ID
	}

	return ClientState{
		Phase:              g.Phase,
		Players:            seats,
		DealerIndex:        g.DealerIndex,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		HighBid:            g.HighBid,
		BidderID:           bidderID,
		TrumpSuit:          g.TrumpSuit,
		CurrentTrick:       append([]TrickPlay(nil), g.CurrentTrick...),
		TrickLeader:        g.TrickLeader,
		TricksPlayed:       g.TricksPlayed,
		Scores:             g.Scores,
		TargetScore:        g.Rules.TargetScore,
		MinBid:             g.Rules.MinBid,
		MaxBid:             g.Rules.MaxBid,
		HandNumber:         g.HandNumber,
		WinningTeam:        g.WinningTeam,
		YourSeat:           viewer,
	}
}
