package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PGD3311/Catch-5/internal/catch5"
	"github.com/PGD3311/Catch-5/internal/stats"
)

type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

var (
	ErrRoomNotFound       = errors.New("ROOM_NOT_FOUND: Room not found")
	ErrRoomFull           = errors.New("ROOM_FULL: All four seats are taken")
	ErrRoomAlreadyPlaying = errors.New("ROOM_ALREADY_PLAYING: Cannot join a game in progress")
	ErrInvalidToken       = errors.New("INVALID_TOKEN: Invalid or expired player token")
	ErrNotInRoom          = errors.New("NOT_IN_ROOM: No active room session")
	ErrHostOnly           = errors.New("HOST_ONLY: Only the host may do that")
	ErrInsufficientSeats  = errors.New("INSUFFICIENT_SEATS: All four seats must be filled before starting")
	ErrSeatOccupied       = errors.New("SEAT_OCCUPIED: That seat is already taken")
	ErrSeatEmpty          = errors.New("SEAT_EMPTY: No CPU player at that seat")
)

// seatSlot is one of the four fixed seats. The occupant may change between a
// human and a CPU stand-in, but the index and team never do.
type seatSlot struct {
	PlayerID       string
	Name           string
	Token          string // reconnection token; empty for CPU seats
	IsCPU          bool
	Connected      bool
	DisconnectedAt time.Time
}

func (s seatSlot) occupied() bool {
	return s.IsCPU || s.PlayerID != ""
}

func (s seatSlot) human() bool {
	return !s.IsCPU && s.PlayerID != ""
}

// Room is a serialized actor: every mutation (client actions, joins,
// disconnects, timer firings, reap checks) is posted to ops and applied by
// the single run goroutine. Rooms never share mutable state with each other.
type Room struct {
	Code      string
	DeckColor string
	Rules     catch5.Rules
	CreatedAt time.Time

	status RoomStatus
	seats  [4]seatSlot
	game   *catch5.Game

	ops  chan func()
	done chan struct{}

	// Turn scheduling. turnGen increments whenever the turn advances; a
	// timer firing with a stale generation is a no-op.
	turnGen   int
	turnTimer *time.Timer

	emptySince    time.Time
	finishedAt    time.Time
	statsReported bool

	mgr   *RoomManager
	conns *ConnectionManager
	stats stats.Store
	cfg   Config
	log   *logrus.Entry
}

const writeTimeout = 5 * time.Second

func (r *Room) run() {
	for {
		select {
		case op := <-r.ops:
			op()
		case <-r.done:
			if r.turnTimer != nil {
				r.turnTimer.Stop()
			}
			return
		}
	}
}

// post hands an operation to the room's loop. Operations posted after the
// room is destroyed are dropped.
func (r *Room) post(op func()) {
	select {
	case r.ops <- op:
	case <-r.done:
	}
}

func (r *Room) send(conn *websocket.Conn, msg any) {
	if conn == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.WithError(err).Error("failed to marshal message")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		r.log.WithError(err).Debug("write failed")
	}
}

func (r *Room) sendError(conn *websocket.Conn, err error) {
	r.send(conn, ErrorMessage{Type: "error", Message: err.Error()})
}

func (r *Room) hostSeat() int {
	for i, slot := range r.seats {
		if slot.human() {
			return i
		}
	}
	return -1
}

func (r *Room) seatForToken(token string) int {
	if token == "" {
		return -1
	}
	for i, slot := range r.seats {
		if slot.Token == token {
			return i
		}
	}
	return -1
}

func (r *Room) playersInfo() []RoomPlayerInfo {
	host := r.hostSeat()
	players := make([]RoomPlayerInfo, 0, 4)
	for i, slot := range r.seats {
		if !slot.occupied() {
			continue
		}
		players = append(players, RoomPlayerInfo{
			SeatIndex:  i,
			PlayerName: slot.Name,
			IsHuman:    !slot.IsCPU,
			Connected:  slot.IsCPU || slot.Connected,
			IsHost:     i == host,
		})
	}
	return players
}

// broadcast sends a message to every connected human seat.
func (r *Room) broadcast(msg any) {
	for _, slot := range r.seats {
		if !slot.human() || !slot.Connected {
			continue
		}
		r.send(r.conns.ConnectionByToken(slot.Token), msg)
	}
}

func (r *Room) broadcastPresence(msgType string, seat int) {
	r.broadcast(PresenceMessage{
		Type:      msgType,
		SeatIndex: seat,
		Players:   r.playersInfo(),
	})
}

// broadcastGameState fans out one personalized snapshot per seat; nobody
// ever receives another seat's hand.
func (r *Room) broadcastGameState() {
	if r.game == nil {
		return
	}
	for i, slot := range r.seats {
		if !slot.human() || !slot.Connected {
			continue
		}
		r.send(r.conns.ConnectionByToken(slot.Token), GameStateMessage{
			Type:      "game_state",
			GameState: r.game.ClientState(i),
			DeckColor: r.DeckColor,
		})
	}
}

func (r *Room) joinedMessage(msgType string, seat int) JoinedMessage {
	msg := JoinedMessage{
		Type:        msgType,
		RoomCode:    r.Code,
		PlayerToken: r.seats[seat].Token,
		SeatIndex:   seat,
		Players:     r.playersInfo(),
		DeckColor:   r.DeckColor,
		TargetScore: r.Rules.TargetScore,
	}
	if r.game != nil {
		state := r.game.ClientState(seat)
		msg.GameState = &state
	}
	return msg
}

/*
 * Seat lifecycle
 */

// seatHost places the room creator at seat 0. Called once, before the run
// loop starts.
func (r *Room) seatHost(name string) string {
	token := uuid.New().String()
	r.seats[0] = seatSlot{
		PlayerID:  uuid.New().String(),
		Name:      name,
		Token:     token,
		Connected: true,
	}
	return token
}

func (r *Room) handleJoin(conn *websocket.Conn, connID, playerName string) {
	playerName = strings.TrimSpace(playerName)
	if err := validatePlayerName(playerName); err != nil {
		r.sendError(conn, err)
		return
	}
	if r.status != StatusWaiting {
		r.sendError(conn, ErrRoomAlreadyPlaying)
		return
	}

	seat := -1
	for i, slot := range r.seats {
		if !slot.occupied() {
			seat = i
			break
		}
	}
	if seat == -1 {
		r.sendError(conn, ErrRoomFull)
		return
	}

	token := uuid.New().String()
	r.seats[seat] = seatSlot{
		PlayerID:  uuid.New().String(),
		Name:      playerName,
		Token:     token,
		Connected: true,
	}
	r.mgr.RegisterToken(token, r.Code)
	r.conns.BindToken(connID, token)
	r.emptySince = time.Time{}

	r.log.WithFields(logrus.Fields{"seat": seat, "player": playerName}).Info("player joined")

	r.send(conn, r.joinedMessage("joined", seat))
	r.broadcastPresence("player_joined", seat)
}

// handleRejoin rebinds a connection to the seat its token owns. Game state
// is untouched; the client just gets a fresh snapshot. Rejoining twice in a
// row is harmless.
func (r *Room) handleRejoin(conn *websocket.Conn, connID, token string) {
	seat := r.seatForToken(token)
	if seat == -1 {
		r.sendError(conn, ErrInvalidToken)
		return
	}

	if oldConnID := r.conns.BindToken(connID, token); oldConnID != "" {
		if old := r.conns.Connection(oldConnID); old != nil {
			old.Close(websocket.StatusNormalClosure, "Connected from another device")
		}
		r.conns.RemoveConnection(oldConnID)
	}

	r.seats[seat].Connected = true
	r.seats[seat].DisconnectedAt = time.Time{}
	r.emptySince = time.Time{}

	// If this seat is to act, its pending timer may be the short autopilot
	// fast-forward; rearm so the returning player gets the full turn.
	if r.status == StatusPlaying && r.game != nil && r.game.CurrentPlayerIndex == seat {
		r.scheduleTurn()
	}

	r.log.WithFields(logrus.Fields{"seat": seat, "player": r.seats[seat].Name}).Info("player reconnected")

	r.send(conn, r.joinedMessage("rejoined", seat))
	r.broadcastPresence("player_reconnected", seat)
}

// handleDisconnect marks a seat disconnected after its socket dropped. The
// seat keeps its occupant, token and hand so a later rejoin resumes
// seamlessly. connID guards against a reconnect that has already replaced
// this socket: actor ordering makes the race deterministic.
func (r *Room) handleDisconnect(connID, token string) {
	seat := r.seatForToken(token)
	if seat == -1 {
		return
	}
	if current := r.conns.ConnectionIDFor(token); current != "" && current != connID {
		return // already reconnected elsewhere
	}

	r.seats[seat].Connected = false
	r.seats[seat].DisconnectedAt = time.Now()

	r.log.WithFields(logrus.Fields{"seat": seat, "player": r.seats[seat].Name}).Info("player disconnected")

	r.broadcastPresence("player_disconnected", seat)

	if !r.anyHumanConnected() {
		r.emptySince = time.Now()
	}
}

func (r *Room) handleLeave(conn *websocket.Conn, token string) {
	seat := r.seatForToken(token)
	if seat == -1 {
		r.sendError(conn, ErrNotInRoom)
		return
	}

	if r.status == StatusWaiting {
		r.mgr.ReleaseToken(token)
		r.conns.UnbindToken(token)
		r.seats[seat] = seatSlot{}
	} else {
		// Seats cannot be freed mid-game; the leaver is treated as a
		// disconnect and its turn falls to automated play.
		r.seats[seat].Connected = false
		r.seats[seat].DisconnectedAt = time.Now().Add(-r.cfg.ReconnectGrace)
	}

	r.log.WithField("seat", seat).Info("player left")

	r.send(conn, LeftMessage{Type: "left"})
	r.broadcastPresence("player_left", seat)

	if !r.anyHumanConnected() {
		r.emptySince = time.Now()
	}
}

func (r *Room) anyHumanConnected() bool {
	for _, slot := range r.seats {
		if slot.human() && slot.Connected {
			return true
		}
	}
	return false
}

/*
 * Host actions
 */

func (r *Room) requireHost(token string) (int, error) {
	seat := r.seatForToken(token)
	if seat == -1 {
		return -1, ErrNotInRoom
	}
	if seat != r.hostSeat() {
		return -1, ErrHostOnly
	}
	return seat, nil
}

func (r *Room) handleAddCPU(conn *websocket.Conn, token string, seatIndex int) {
	if _, err := r.requireHost(token); err != nil {
		r.sendError(conn, err)
		return
	}
	if r.status != StatusWaiting {
		r.sendError(conn, ErrRoomAlreadyPlaying)
		return
	}
	if seatIndex < 0 || seatIndex > 3 {
		r.sendError(conn, catch5.ErrInvalidSeat)
		return
	}
	if r.seats[seatIndex].occupied() {
		r.sendError(conn, ErrSeatOccupied)
		return
	}

	r.seats[seatIndex] = seatSlot{
		PlayerID: uuid.New().String(),
		Name:     fmt.Sprintf("CPU %d", seatIndex+1),
		IsCPU:    true,
	}
	r.broadcastPresence("player_joined", seatIndex)
}

func (r *Room) handleRemoveCPU(conn *websocket.Conn, token string, seatIndex int) {
	if _, err := r.requireHost(token); err != nil {
		r.sendError(conn, err)
		return
	}
	if r.status != StatusWaiting {
		r.sendError(conn, ErrRoomAlreadyPlaying)
		return
	}
	if seatIndex < 0 || seatIndex > 3 {
		r.sendError(conn, catch5.ErrInvalidSeat)
		return
	}
	if !r.seats[seatIndex].IsCPU {
		r.sendError(conn, ErrSeatEmpty)
		return
	}

	r.seats[seatIndex] = seatSlot{}
	r.broadcastPresence("player_left", seatIndex)
}

func (r *Room) handleStartGame(conn *websocket.Conn, token string) {
	if _, err := r.requireHost(token); err != nil {
		r.sendError(conn, err)
		return
	}
	if r.status != StatusWaiting {
		r.sendError(conn, ErrRoomAlreadyPlaying)
		return
	}

	var specs [4]catch5.PlayerSpec
	for i, slot := range r.seats {
		if !slot.occupied() {
			r.sendError(conn, ErrInsufficientSeats)
			return
		}
		specs[i] = catch5.PlayerSpec{
			ID:      slot.PlayerID,
			Name:    slot.Name,
			IsHuman: !slot.IsCPU,
		}
	}

	r.game = catch5.NewGame(specs, r.Rules)
	r.status = StatusPlaying

	r.log.WithField("targetScore", r.Rules.TargetScore).Info("game started")

	r.broadcastGameState()
	r.scheduleTurn()
}

/*
 * Game actions
 */

func (r *Room) handlePlayerAction(conn *websocket.Conn, token, action string, data ActionData) {
	seat := r.seatForToken(token)
	if seat == -1 {
		r.sendError(conn, ErrNotInRoom)
		return
	}
	if r.status != StatusPlaying || r.game == nil {
		r.sendError(conn, catch5.ErrWrongPhase)
		return
	}

	var effects catch5.Effects
	var err error
	switch action {
	case "bid":
		effects, err = r.game.PlaceBid(seat, data.Amount)
	case "pass":
		effects, err = r.game.PlaceBid(seat, 0)
	case "select_trump":
		var suit catch5.Suit
		suit, err = catch5.ParseSuit(data.Suit)
		if err == nil {
			effects, err = r.game.SelectTrump(seat, suit)
		}
	case "play_card":
		if data.Card == nil {
			err = fmt.Errorf("%w: no card given", catch5.ErrIllegalPlay)
		} else {
			effects, err = r.game.PlayCard(seat, *data.Card)
		}
	default:
		err = fmt.Errorf("unknown action: %s", action)
	}

	if err != nil {
		r.sendError(conn, err)
		return
	}

	r.afterAction(effects)
}

// afterAction runs once for every accepted engine action, human or
// automated: settle effects, fan out the new state, rearm the turn timer.
func (r *Room) afterAction(effects catch5.Effects) {
	if effects.HandComplete != nil {
		r.log.WithFields(logrus.Fields{
			"points": effects.HandComplete.Points,
			"scores": effects.HandComplete.Scores,
			"set":    effects.HandComplete.Set,
		}).Info("hand complete")
	}
	if effects.GameOver != nil {
		r.status = StatusFinished
		r.finishedAt = time.Now()
		r.log.WithField("winningTeam", effects.GameOver.WinningTeam).Info("game over")
		r.reportStats(effects.GameOver)
	}

	r.broadcastGameState()
	r.scheduleTurn()
}

// reportStats fires the per-seat increments for human players exactly once
// per game. Failures are logged and dropped; stats never block the room.
func (r *Room) reportStats(result *catch5.GameResult) {
	if r.statsReported || r.stats == nil {
		return
	}
	r.statsReported = true

	for i, slot := range r.seats {
		if !slot.human() {
			continue
		}
		s := result.Stats[i]
		inc := stats.Increments{
			GamesPlayed:       s.GamesPlayed,
			GamesWon:          s.GamesWon,
			BidsMade:          s.BidsMade,
			BidsSucceeded:     s.BidsSucceeded,
			TimesSet:          s.TimesSet,
			TotalPointsScored: s.PointsScored,
			HighestBid:        s.HighestBid,
			HighestBidMade:    s.HighestBidMade,
		}
		playerID, playerName := slot.PlayerID, slot.Name
		log := r.log.WithField("player", playerName)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := r.stats.Increment(ctx, playerID, playerName, inc); err != nil {
				log.WithError(err).Error("failed to record stats")
			}
		}()
	}
}

func (r *Room) handleChat(token, text string) {
	seat := r.seatForToken(token)
	if seat == -1 || text == "" {
		return
	}
	r.broadcast(ChatMessage{
		Type:       "chat",
		SeatIndex:  seat,
		PlayerName: r.seats[seat].Name,
		Message:    text,
	})
}

/*
 * Turn scheduling
 */

// autoPilot reports whether the seat should be fast-forwarded rather than
// waited on: CPU seats always, disconnected humans once their reconnect
// grace has run out.
func (r *Room) autoPilot(seat int) bool {
	slot := r.seats[seat]
	if slot.IsCPU {
		return true
	}
	return !slot.Connected && time.Since(slot.DisconnectedAt) >= r.cfg.ReconnectGrace
}

// scheduleTurn cancels any outstanding timer and arms a new one for the
// current seat. At most one timer exists per room.
func (r *Room) scheduleTurn() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
	r.turnGen++

	if r.status != StatusPlaying || r.game == nil {
		return
	}
	switch r.game.Phase {
	case catch5.PhaseBidding, catch5.PhaseTrumpSelection, catch5.PhasePlaying:
	default:
		return
	}

	delay := r.cfg.TurnTimeout
	if r.autoPilot(r.game.CurrentPlayerIndex) {
		delay = r.cfg.CPUDelay
	}

	gen := r.turnGen
	r.turnTimer = time.AfterFunc(delay, func() {
		r.post(func() { r.handleTurnExpired(gen) })
	})
}

// handleTurnExpired submits the automated action for the current seat. A
// firing whose generation is stale does nothing: the turn already advanced.
func (r *Room) handleTurnExpired(gen int) {
	if gen != r.turnGen {
		return
	}
	if r.status != StatusPlaying || r.game == nil {
		return
	}

	seat := r.game.CurrentPlayerIndex
	auto := r.autoPilot(seat)
	if !auto {
		r.log.WithFields(logrus.Fields{
			"seat":   seat,
			"player": r.seats[seat].Name,
			"phase":  r.game.Phase,
		}).Info("turn timed out, playing default action")
	}

	var effects catch5.Effects
	var err error
	switch r.game.Phase {
	case catch5.PhaseBidding:
		// Timed-out humans pass; automated seats use the bidding heuristic.
		amount := 0
		if auto {
			amount = r.game.AutoBid(seat)
		}
		effects, err = r.game.PlaceBid(seat, amount)
	case catch5.PhaseTrumpSelection:
		effects, err = r.game.SelectTrump(seat, r.game.AutoTrump(seat))
	case catch5.PhasePlaying:
		effects, err = r.game.PlayCard(seat, r.game.AutoPlay(seat))
	default:
		return
	}
	if err != nil {
		// The automated policy only produces legal actions.
		r.log.WithError(err).Error("automated action rejected")
		return
	}

	r.afterAction(effects)
}

/*
 * Reclamation
 */

// reapCheck destroys the room when it has been finished, or empty of
// connected humans, for longer than the grace period.
func (r *Room) reapCheck(now time.Time) {
	expired := false
	switch {
	case r.status == StatusFinished && now.Sub(r.finishedAt) >= r.cfg.RoomReapDelay:
		expired = true
	case !r.emptySince.IsZero() && !r.anyHumanConnected() && now.Sub(r.emptySince) >= r.cfg.RoomReapDelay:
		expired = true
	}
	if !expired {
		return
	}

	r.log.Info("reclaiming room")
	r.mgr.Destroy(r.Code)
}
