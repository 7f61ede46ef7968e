package catch5

type Phase string

const (
	PhaseBidding        Phase = "bidding"
	PhaseTrumpSelection Phase = "trump-selection"
	PhasePlaying        Phase = "playing"
	PhaseHandScoring    Phase = "hand-scoring"
	PhaseGameOver       Phase = "game-over"
)

const HandSize = 5

type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsHuman bool   `json:"isHuman"`
	Hand    []Card `json:"hand"`
	Bid     *int   `json:"bid"` // nil until the seat has acted this bidding round; 0 is a pass
}

type TrickPlay struct {
	Seat int  `json:"seat"`
	Card Card `json:"card"`
}

// Rules holds the policy-configurable parts of the ruleset. The bid interval
// is closed on both ends.
type Rules struct {
	MinBid      int `json:"minBid"`
	MaxBid      int `json:"maxBid"`
	TargetScore int `json:"targetScore"`
}

func DefaultRules() Rules {
	return Rules{MinBid: 5, MaxBid: 9, TargetScore: 31}
}

// statTally accumulates per-seat counters across hands, reported once at
// game over.
type statTally struct {
	BidsMade       int
	BidsSucceeded  int
	TimesSet       int
	PointsScored   int
	HighestBid     int
	HighestBidMade int
}

type Game struct {
	Phase              Phase      `json:"phase"`
	Players            [4]*Player `json:"players"`
	DealerIndex        int        `json:"dealerIndex"`
	CurrentPlayerIndex int        `json:"currentPlayerIndex"`
	HighBid            int        `json:"highBid"`
	BidderIndex        int        `json:"bidderIndex"` // -1 until someone bids
	TrumpSuit          *Suit      `json:"trumpSuit"`
	CurrentTrick       []TrickPlay `json:"currentTrick"`
	TrickLeader        int        `json:"trickLeader"`
	TricksPlayed       int        `json:"tricksPlayed"`
	Captured           [2][]Card  `json:"-"` // cards won this hand, by team
	Stock              []Card     `json:"-"` // undealt remainder of the deck
	Scores             [2]int     `json:"scores"`
	Rules              Rules      `json:"rules"`
	HandNumber         int        `json:"handNumber"`
	WinningTeam        int        `json:"winningTeam"` // -1 until game over

	passStreak int          // consecutive passes since the last accepted bid
	tallies    [4]statTally // per-seat stat counters, reported at game over

	scoring ScoringPolicy
}

type PlayerSpec struct {
	ID      string
	Name    string
	IsHuman bool
}

type Option func(*Game)

func WithScoringPolicy(p ScoringPolicy) Option {
	return func(g *Game) { g.scoring = p }
}

// NewGame seats the four players and deals the first hand. Seats 0 and 2 are
// one team, 1 and 3 the other; the seat's team never changes.
func NewGame(specs [4]PlayerSpec, rules Rules, opts ...Option) *Game {
	g := &Game{
		DealerIndex: 0,
		BidderIndex: -1,
		WinningTeam: -1,
		Rules:       rules,
		scoring:     CatchFiveScoring{},
	}
	for i, spec := range specs {
		g.Players[i] = &Player{
			ID:      spec.ID,
			Name:    spec.Name,
			IsHuman: spec.IsHuman,
		}
	}
	for _, opt := range opts {
		opt(g)
	}

	g.deal()
	return g
}

// TeamForSeat returns the team index (0 or 1) for a seat.
func TeamForSeat(seat int) int {
	return seat % 2
}

func nextSeat(seat int) int {
	return (seat + 1) % 4
}

// deal shuffles a fresh deck, gives each seat its hand, and opens bidding
// left of the dealer.
func (g *Game) deal() {
	deck := NewDeck()
	deck.Shuffle()

	for _, p := range g.Players {
		p.Hand = deck.Draw(HandSize)
		p.Bid = nil
	}
	g.Stock = deck.Cards

	g.Phase = PhaseBidding
	g.HighBid = 0
	g.BidderIndex = -1
	g.TrumpSuit = nil
	g.CurrentTrick = nil
	g.TricksPlayed = 0
	g.Captured = [2][]Card{}
	g.passStreak = 0
	g.CurrentPlayerIndex = nextSeat(g.DealerIndex)
}

// redeal rotates the dealer and deals again without touching the scores.
func (g *Game) redeal() {
	g.DealerIndex = nextSeat(g.DealerIndex)
	g.deal()
}

func (g *Game) hasSuit(seat int, suit Suit) bool {
	for _, c := range g.Players[seat].Hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func (g *Game) holdsCard(seat int, card Card) bool {
	for _, c := range g.Players[seat].Hand {
		if c == card {
			return true
		}
	}
	return false
}

func (g *Game) removeCard(seat int, card Card) {
	hand := g.Players[seat].Hand
	for i, c := range hand {
		if c == card {
			g.Players[seat].Hand = append(hand[:i], hand[i+1:]...)
			return
		}
	}
}

// AllCards returns every card the state currently accounts for: hands, the
// trick on the table, captured tricks, and the undealt stock.
func (g *Game) AllCards() []Card {
	cards := make([]Card, 0, 52)
	for _, p := range g.Players {
		cards = append(cards, p.Hand...)
	}
	for _, play := range g.CurrentTrick {
		cards = append(cards, play.Card)
	}
	for _, team := range g.Captured {
		cards = append(cards, team...)
	}
	cards = append(cards, g.Stock...)
	return cards
}
