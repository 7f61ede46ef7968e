package catch5

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suitString = map[Suit]string{
	Hearts:   "Hearts",
	Diamonds: "Diamonds",
	Clubs:    "Clubs",
	Spades:   "Spades",
}

var suitFromString = map[string]Suit{
	"Hearts":   Hearts,
	"Diamonds": Diamonds,
	"Clubs":    Clubs,
	"Spades":   Spades,
}

func (s Suit) String() string {
	return suitString[s]
}

// Suits travel as their names on the wire ("Hearts", "Spades", ...).
func (s Suit) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	suit, ok := suitFromString[name]
	if !ok {
		return fmt.Errorf("unknown suit %q", name)
	}
	*s = suit
	return nil
}

func ParseSuit(name string) (Suit, error) {
	suit, ok := suitFromString[name]
	if !ok {
		return 0, fmt.Errorf("unknown suit %q", name)
	}
	return suit, nil
}

type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankString = map[Rank]string{
	Two:   "Two",
	Three: "Three",
	Four:  "Four",
	Five:  "Five",
	Six:   "Six",
	Seven: "Seven",
	Eight: "Eight",
	Nine:  "Nine",
	Ten:   "Ten",
	Jack:  "Jack",
	Queen: "Queen",
	King:  "King",
	Ace:   "Ace",
}

func (r Rank) String() string {
	return rankString[r]
}

type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank.String(), c.Suit.String())
}

type Deck struct {
	Cards []Card `json:"cards"`
}

func NewDeck() *Deck {
	suits := []Suit{Hearts, Diamonds, Clubs, Spades}

	deck := make([]Card, 0, 52)
	for _, suit := range suits {
		for rank := Two; rank <= Ace; rank++ {
			deck = append(deck, Card{suit, rank})
		}
	}

	return &Deck{deck}
}

func (d Deck) Count() int {
	return len(d.Cards)
}

func (d *Deck) Draw(n int) (cards []Card) {
	for range n {
		card := d.Cards[len(d.Cards)-1]
		cards = append(cards, card)
		d.Cards = d.Cards[:len(d.Cards)-1]
	}
	return
}

func (d *Deck) Shuffle() {
	rand.Shuffle(d.Count(), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}
