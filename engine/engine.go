package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nampwaztaken/skycast-ultra-casino/accounts"
	"github.com/nampwaztaken/skycast-ultra-casino/communications"
	"github.com/nampwaztaken/skycast-ultra-casino/db"
	"github.com/nampwaztaken/skycast-ultra-casino/games"
	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

// Recorder persists settled rounds. *db.DB satisfies it.
type Recorder interface {
	CreateRound(round *db.Round) error
}

// FortuneSource supplies the lobby one-liners pushed after big wins.
type FortuneSource interface {
	CasinoFortune(ctx context.Context, balance, win decimal.Decimal) string
}

// A payout of at least ten times the stake gets a fortune broadcast.
var bigWinFactor = decimal.NewFromInt(10)

// Session drives the games of one authenticated connection. Every round
// follows the same shape: admit the stake against the balance mirror, hand
// the round to a game instance, credit the payout at settlement, record and
// fan out the round. Invalid stakes and out-of-order actions are no-ops.
type Session struct {
	UserID   uint
	Username string
	UUID     string

	mirror   *Mirror
	manager  *communications.Manager
	recorder Recorder
	fortunes FortuneSource
	newRand  func() games.Rand
	emit     func(kind string, body interface{})

	// Frame pacing for the interactive paths. Tests shrink these.
	plinkoTick time.Duration
	dealerTick time.Duration

	mu             sync.Mutex
	mines          *games.Mines
	minesStake     decimal.Decimal
	blackjack      *games.Blackjack
	blackjackStake decimal.Decimal
	poker          *games.Poker
	pokerStake     decimal.Decimal
	ballSeq        uint
}

func NewSession(
	ctx context.Context,
	store accounts.Store,
	recorder Recorder,
	manager *communications.Manager,
	fortunes FortuneSource,
	userID uint,
	username string,
	newRand func() games.Rand,
	emit func(kind string, body interface{}),
) (*Session, error) {
	mirror, err := NewMirror(ctx, store, userID)
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:     userID,
		Username:   username,
		UUID:       uuid.NewString(),
		mirror:     mirror,
		manager:    manager,
		recorder:   recorder,
		fortunes:   fortunes,
		newRand:    newRand,
		emit:       emit,
		plinkoTick: 16 * time.Millisecond,
		dealerTick: 600 * time.Millisecond,
	}, nil
}

func (s *Session) Balance() decimal.Decimal {
	return s.mirror.Balance()
}

// Adopt updates the balance mirror from a remote profile snapshot.
func (s *Session) Adopt(profile accounts.Profile) {
	s.mirror.Adopt(profile)
}

func (s *Session) push(kind string, body interface{}) {
	if s.emit != nil {
		s.emit(kind, body)
	}
}

func (s *Session) pushBalance() {
	s.push("balance", responses.BalanceUpdate{Balance: s.mirror.Balance()})
}

// settle credits the payout, persists the round and fans it out over the
// manager. The stake was debited when the round started; settlement is the
// only credit.
func (s *Session) settle(ctx context.Context, game string, stake, payout decimal.Decimal, outcome string) {
	s.mirror.Credit(ctx, payout)
	s.pushBalance()

	round := responses.Round{
		Timestamp: time.Now(),
		UUID:      s.UUID,
		Game:      game,
		Stake:     stake,
		Payout:    payout,
		Outcome:   outcome,
		UserID:    s.UserID,
		Username:  s.Username,
	}
	if s.recorder != nil {
		record := db.Round{
			Timestamp: round.Timestamp,
			UUID:      round.UUID,
			Game:      game,
			Stake:     stake,
			Payout:    payout,
			Outcome:   outcome,
			UserID:    s.UserID,
		}
		if err := s.recorder.CreateRound(&record); err != nil {
			slog.Error("Error recording round", "game", game, "err", err)
		} else {
			round.ID = record.ID
		}
	}
	if s.manager != nil {
		s.manager.ManagerReceiver <- communications.ManagerEvent{
			Type: communications.PropagateRound,
			Body: round,
		}
	}
	if s.fortunes != nil && payout.GreaterThanOrEqual(stake.Mul(bigWinFactor)) {
		go s.announceFortune(context.WithoutCancel(ctx), payout)
	}
}

func (s *Session) announceFortune(ctx context.Context, win decimal.Decimal) {
	text := s.fortunes.CasinoFortune(ctx, s.mirror.Balance(), win)
	if s.manager == nil {
		return
	}
	s.manager.ManagerReceiver <- communications.ManagerEvent{
		Type: communications.PropagateFortune,
		Body: responses.Fortune{Text: text},
	}
}

// Mines

func (s *Session) StartMines(ctx context.Context, stake decimal.Decimal, mineCount int) responses.MinesState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mines != nil && !s.mines.Settled() {
		return s.minesState(false)
	}

	game := games.NewMines(s.newRand(), mineCount)
	if err := game.Start(stake); err != nil {
		slog.Warn("Rejected mines start", "userID", s.UserID, "stake", stake, "err", err)
		return s.minesState(false)
	}
	if !s.mirror.Debit(ctx, stake) {
		slog.Warn("Insufficient balance for mines start", "userID", s.UserID, "stake", stake)
		return s.minesState(false)
	}
	s.mines = game
	s.minesStake = stake
	s.pushBalance()
	return s.minesState(false)
}

func (s *Session) RevealMine(ctx context.Context, cell int) responses.MinesState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mines == nil {
		return s.minesState(false)
	}
	if err := s.mines.Reveal(cell); err != nil {
		return s.minesState(s.mines.Settled())
	}
	if s.mines.Status() == games.MinesGameOver {
		s.settle(ctx, "mines", s.minesStake, decimal.Zero, "bust")
		return s.minesState(true)
	}
	return s.minesState(false)
}

func (s *Session) CashOutMines(ctx context.Context) responses.MinesState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mines == nil {
		return s.minesState(false)
	}
	if err := s.mines.CashOut(); err != nil {
		return s.minesState(s.mines.Settled())
	}
	s.settle(ctx, "mines", s.minesStake, s.mines.Payout(),
		fmt.Sprintf("cashout:%d", s.mines.SafeReveals()))
	return s.minesState(true)
}

func (s *Session) minesState(revealMines bool) responses.MinesState {
	if s.mines == nil {
		return responses.MinesState{
			Status:     games.MinesIdle.String(),
			Revealed:   []int{},
			Multiplier: decimal.NewFromInt(1),
			Payout:     decimal.Zero,
		}
	}
	state := responses.MinesState{
		Status:     s.mines.Status().String(),
		Revealed:   s.mines.RevealedCells(),
		Multiplier: s.mines.Multiplier(),
		Payout:     s.mines.Payout(),
	}
	if revealMines {
		state.Mines = s.mines.MineCells()
	}
	return state
}

// Plinko

// DropBall admits the stake and launches the ball simulation. Several balls
// may be in flight at once; each settles independently and the deltas
// commute. Returns false when the drop was rejected.
func (s *Session) DropBall(ctx context.Context, stake decimal.Decimal, rows int, risk games.PlinkoRisk) bool {
	s.mu.Lock()
	board := games.NewPlinko(s.newRand(), rows, risk)
	ball, err := board.Drop(stake)
	if err != nil {
		s.mu.Unlock()
		slog.Warn("Rejected plinko drop", "userID", s.UserID, "stake", stake, "err", err)
		return false
	}
	if !s.mirror.Debit(ctx, stake) {
		s.mu.Unlock()
		slog.Warn("Insufficient balance for plinko drop", "userID", s.UserID, "stake", stake)
		return false
	}
	s.ballSeq++
	id := s.ballSeq
	s.mu.Unlock()

	s.pushBalance()
	// A ball in flight settles even if the connection drops.
	go s.runBall(context.WithoutCancel(ctx), board, ball, id)
	return true
}

func (s *Session) runBall(ctx context.Context, board *games.Plinko, ball *games.Ball, id uint) {
	for !board.Step(ball) {
		s.push("plinko_ball", responses.PlinkoBall{BallID: id, X: ball.X, Y: ball.Y})
		if s.plinkoTick > 0 {
			time.Sleep(s.plinkoTick)
		}
	}
	s.push("plinko_ball", responses.PlinkoBall{
		BallID: id,
		X:      ball.X,
		Y:      ball.Y,
		Landed: true,
		Bucket: ball.Bucket(),
		Payout: ball.Payout(),
	})
	s.settle(ctx, "plinko", ball.Stake(), ball.Payout(),
		fmt.Sprintf("bucket:%d", ball.Bucket()))
}

// Blackjack

func (s *Session) StartBlackjack(ctx context.Context, stake decimal.Decimal) responses.BlackjackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blackjack != nil && !s.blackjack.Settled() {
		return s.blackjackState()
	}

	game := games.NewBlackjack(s.newRand())
	if err := game.Start(stake); err != nil {
		slog.Warn("Rejected blackjack start", "userID", s.UserID, "stake", stake, "err", err)
		return s.blackjackState()
	}
	if !s.mirror.Debit(ctx, stake) {
		slog.Warn("Insufficient balance for blackjack start", "userID", s.UserID, "stake", stake)
		return s.blackjackState()
	}
	s.blackjack = game
	s.blackjackStake = stake
	s.pushBalance()
	return s.blackjackState()
}

func (s *Session) HitBlackjack(ctx context.Context) responses.BlackjackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blackjack == nil {
		return s.blackjackState()
	}
	if err := s.blackjack.Hit(); err != nil {
		return s.blackjackState()
	}
	if s.blackjack.Settled() {
		s.settle(ctx, "blackjack", s.blackjackStake, s.blackjack.Payout(),
			s.blackjack.Result().String())
	}
	return s.blackjackState()
}

func (s *Session) StandBlackjack(ctx context.Context) responses.BlackjackState {
	s.mu.Lock()
	if s.blackjack == nil {
		s.mu.Unlock()
		return responses.BlackjackState{Status: games.BlackjackIdle.String()}
	}
	if err := s.blackjack.Stand(); err != nil {
		state := s.blackjackState()
		s.mu.Unlock()
		return state
	}
	state := s.blackjackState()
	s.mu.Unlock()

	go s.runDealer(context.WithoutCancel(ctx))
	return state
}

// runDealer paces the dealer draws so the client sees them one at a time.
func (s *Session) runDealer(ctx context.Context) {
	for {
		if s.dealerTick > 0 {
			time.Sleep(s.dealerTick)
		}
		s.mu.Lock()
		done := s.blackjack.StepDealer()
		if done {
			s.settle(ctx, "blackjack", s.blackjackStake, s.blackjack.Payout(),
				s.blackjack.Result().String())
		}
		state := s.blackjackState()
		s.mu.Unlock()

		s.push("blackjack", state)
		if done {
			return
		}
	}
}

func (s *Session) blackjackState() responses.BlackjackState {
	g := s.blackjack
	if g == nil {
		return responses.BlackjackState{Status: games.BlackjackIdle.String()}
	}
	state := responses.BlackjackState{
		Status: g.Status().String(),
		Player: cardViews(g.PlayerHand()),
		Payout: g.Payout(),
	}
	if g.Status() == games.BlackjackPlayerTurn {
		// Hole card stays hidden until the player stands or busts.
		state.HoleHidden = true
		state.Dealer = cardViews(g.DealerHand()[:1])
	} else {
		state.Dealer = cardViews(g.DealerHand())
	}
	if g.Settled() {
		state.Result = g.Result().String()
	}
	return state
}

// Video poker

func (s *Session) DealPoker(ctx context.Context, stake decimal.Decimal) responses.PokerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poker != nil && !s.poker.Settled() {
		return s.pokerState()
	}

	game := games.NewPoker(s.newRand())
	if err := game.Start(stake); err != nil {
		slog.Warn("Rejected poker deal", "userID", s.UserID, "stake", stake, "err", err)
		return s.pokerState()
	}
	if !s.mirror.Debit(ctx, stake) {
		slog.Warn("Insufficient balance for poker deal", "userID", s.UserID, "stake", stake)
		return s.pokerState()
	}
	s.poker = game
	s.pokerStake = stake
	s.pushBalance()
	return s.pokerState()
}

func (s *Session) TogglePokerHold(i int) responses.PokerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poker == nil {
		return s.pokerState()
	}
	s.poker.ToggleHold(i)
	return s.pokerState()
}

func (s *Session) DrawPoker(ctx context.Context) responses.PokerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poker == nil {
		return s.pokerState()
	}
	if err := s.poker.Draw(); err != nil {
		return s.pokerState()
	}
	s.settle(ctx, "poker", s.pokerStake, s.poker.Payout(),
		s.poker.Category().String())
	return s.pokerState()
}

func (s *Session) pokerState() responses.PokerState {
	g := s.poker
	if g == nil {
		return responses.PokerState{Status: games.PokerIdle.String(), Holds: []bool{}}
	}
	holds := g.Holds()
	state := responses.PokerState{
		Status: g.Status().String(),
		Hand:   cardViews(g.Hand()),
		Holds:  holds[:],
		Payout: g.Payout(),
	}
	if g.Settled() {
		state.Category = g.Category().String()
	}
	return state
}

// Slots

func (s *Session) SpinSlots(ctx context.Context, stake decimal.Decimal) (responses.SlotsResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game := games.NewSlots(s.newRand())
	if err := game.Start(stake); err != nil {
		slog.Warn("Rejected slots spin", "userID", s.UserID, "stake", stake, "err", err)
		return responses.SlotsResult{}, false
	}
	if !s.mirror.Debit(ctx, stake) {
		slog.Warn("Insufficient balance for slots spin", "userID", s.UserID, "stake", stake)
		return responses.SlotsResult{}, false
	}

	reels := game.Reels()
	result := responses.SlotsResult{
		Reels: [3]string{
			games.SlotSymbols[reels[0]],
			games.SlotSymbols[reels[1]],
			games.SlotSymbols[reels[2]],
		},
		Payout: game.Payout(),
	}
	s.settle(ctx, "slots", stake, game.Payout(),
		result.Reels[0]+"|"+result.Reels[1]+"|"+result.Reels[2])
	return result, true
}

func cardViews(hand []games.Card) []responses.CardView {
	views := make([]responses.CardView, len(hand))
	for i, c := range hand {
		views[i] = responses.CardView{Suit: c.Suit.String(), Rank: c.Rank}
	}
	return views
}
