package catch5

import "errors"

var (
	ErrNotYourTurn = errors.New("NOT_YOUR_TURN: It is not your turn")
	ErrWrongPhase  = errors.New("WRONG_PHASE: Action not valid in the current phase")
	ErrIllegalBid  = errors.New("ILLEGAL_BID: Bid is out of range or does not beat the current high bid")
	ErrIllegalPlay = errors.New("ILLEGAL_PLAY: Card is not a legal play")
	ErrNotBidder   = errors.New("NOT_BIDDER: Only the winning bidder may select trump")
	ErrInvalidSeat = errors.New("INVALID_SEAT: Seat index out of range")
)
