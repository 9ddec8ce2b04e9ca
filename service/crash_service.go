package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"casino/events"
	"casino/games/crash"
	"casino/models"
)

type crashRoundState int

const (
	crashPending crashRoundState = iota
	crashRunning
)

type crashPlayer struct {
	Wager     int64
	CashedOut bool
}

type crashRound struct {
	ID         uuid.UUID
	State      crashRoundState
	Multiplier float64
	Threshold  float64
	Players    map[int64]*crashPlayer
}

// crashService runs at most one shared round at a time. The round
// mutex guards the multiplier and the player set; ledger writes run
// outside it on values captured under it, so the tick loop never
// waits on the database.
type crashService struct {
	uowFactory       UnitOfWorkFactory
	countdownSeconds int
	tickInterval     time.Duration

	threshold func(*rand.Rand) float64
	rng       *rand.Rand

	mu    sync.Mutex
	round *crashRound
}

// NewCrashService creates a new crash round engine
func NewCrashService(uowFactory UnitOfWorkFactory, countdownSeconds int, tickInterval time.Duration) CrashService {
	return &crashService{
		uowFactory:       uowFactory,
		countdownSeconds: countdownSeconds,
		tickInterval:     tickInterval,
		threshold:        crash.Threshold,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run drives one full round: countdown, multiplier climb, crash. It
// blocks until the round crashes or ctx is cancelled, and returns
// ErrSessionAlreadyActive if a round is already in progress.
func (s *crashService) Run(ctx context.Context, broadcaster CrashBroadcaster) error {
	s.mu.Lock()
	if s.round != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: a round is already in progress", ErrSessionAlreadyActive)
	}
	s.round = &crashRound{
		ID:         uuid.New(),
		State:      crashPending,
		Multiplier: 1.0,
		Threshold:  s.threshold(s.rng),
		Players:    make(map[int64]*crashPlayer),
	}
	s.mu.Unlock()

	defer s.clearRound()

	for remaining := s.countdownSeconds; remaining > 0; remaining-- {
		broadcaster.Countdown(remaining)
		select {
		case <-ctx.Done():
			return s.abort(ctx)
		case <-time.After(time.Second):
		}
	}

	s.mu.Lock()
	s.round.State = crashRunning
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if s.round.Multiplier >= s.round.Threshold {
			crashedAt := s.round.Multiplier
			losses := s.collectLosses()
			// Tear down before broadcasting so late joins and
			// cash-outs see the round as already over.
			s.round = nil
			s.mu.Unlock()
			broadcaster.Crashed(crashedAt, losses)
			return nil
		}
		s.round.Multiplier += crash.Step
		current := s.round.Multiplier
		s.mu.Unlock()

		broadcaster.Multiplier(current)

		select {
		case <-ctx.Done():
			return s.abort(ctx)
		case <-time.After(s.tickInterval):
		}
	}
}

// Join places a wager on the current round, debiting it immediately.
// Joining twice is a no-op.
func (s *crashService) Join(ctx context.Context, discordID int64, wager int64) error {
	if wager <= 0 {
		return fmt.Errorf("%w: wager must be positive", ErrInvalidArgument)
	}

	s.mu.Lock()
	if s.round == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: no crash round is running", ErrNoActiveSession)
	}
	if _, ok := s.round.Players[discordID]; ok {
		s.mu.Unlock()
		return nil
	}
	roundID := s.round.ID
	s.mu.Unlock()

	if err := s.debitWager(ctx, discordID, roundID, wager); err != nil {
		return err
	}

	// The round may have ended or been replaced while the debit was in
	// flight; a wager that cannot land is returned.
	s.mu.Lock()
	if s.round == nil || s.round.ID != roundID {
		s.mu.Unlock()
		if err := s.refund(ctx, discordID, roundID, wager); err != nil {
			return fmt.Errorf("failed to refund player %d: %w", discordID, err)
		}
		return fmt.Errorf("%w: the round ended before your wager landed", ErrNoActiveSession)
	}
	if _, ok := s.round.Players[discordID]; ok {
		s.mu.Unlock()
		if err := s.refund(ctx, discordID, roundID, wager); err != nil {
			return fmt.Errorf("failed to refund player %d: %w", discordID, err)
		}
		return nil
	}
	s.round.Players[discordID] = &crashPlayer{Wager: wager}
	s.mu.Unlock()
	return nil
}

func (s *crashService) debitWager(ctx context.Context, discordID int64, roundID uuid.UUID, wager int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.Balance < wager {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, wager)
	}

	if err := uow.UserRepository().DeductBalance(ctx, discordID, wager); err != nil {
		return fmt.Errorf("failed to deduct wager: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    user.Balance - wager,
		ChangeAmount:    -wager,
		TransactionType: models.TransactionTypeCrashWager,
		TransactionMetadata: map[string]any{
			"round": roundID.String(),
			"wager": wager,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return fmt.Errorf("failed to record wager: %w", err)
	}

	return uow.Commit()
}

// CashOut locks in the current multiplier for a joined player and
// credits the payout.
func (s *crashService) CashOut(ctx context.Context, discordID int64) (*CashOutResult, error) {
	s.mu.Lock()
	if s.round == nil || s.round.State != crashRunning {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: no crash round is running", ErrNoActiveSession)
	}
	player, ok := s.round.Players[discordID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: you have not joined this round", ErrInvalidArgument)
	}
	if player.CashedOut {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: you already cashed out", ErrInvalidArgument)
	}

	// Mark the player under the lock so a crash decided while the
	// credit is in flight no longer counts them as a loser.
	player.CashedOut = true
	roundID := s.round.ID
	multiplier := s.round.Multiplier
	wager := player.Wager
	s.mu.Unlock()

	payout := crash.Payout(wager, multiplier)
	if err := s.creditCashOut(ctx, discordID, roundID, wager, multiplier, payout); err != nil {
		s.mu.Lock()
		player.CashedOut = false
		s.mu.Unlock()
		return nil, err
	}

	return &CashOutResult{Multiplier: multiplier, Payout: payout}, nil
}

func (s *crashService) creditCashOut(ctx context.Context, discordID int64, roundID uuid.UUID, wager int64, multiplier float64, payout int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %d not found", discordID)
	}

	if err := uow.UserRepository().AddBalance(ctx, discordID, payout); err != nil {
		return fmt.Errorf("failed to credit payout: %w", err)
	}
	if payout > wager {
		if err := uow.UserRepository().AddScore(ctx, discordID, payout-wager); err != nil {
			return fmt.Errorf("failed to update score: %w", err)
		}
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    user.Balance + payout,
		ChangeAmount:    payout,
		TransactionType: models.TransactionTypeCrashCashOut,
		TransactionMetadata: map[string]any{
			"round":      roundID.String(),
			"multiplier": multiplier,
			"payout":     payout,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return fmt.Errorf("failed to record cash out: %w", err)
	}

	uow.EventBus().Publish(events.GameResultEvent{
		UserID: discordID,
		Game:   "crash",
		Wager:  wager,
		Payout: payout,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// collectLosses lists players who never cashed out. Callers hold s.mu.
func (s *crashService) collectLosses() []CrashLoss {
	var losses []CrashLoss
	for id, player := range s.round.Players {
		if !player.CashedOut {
			losses = append(losses, CrashLoss{DiscordID: id, Wager: player.Wager})
		}
	}
	return losses
}

// abort refunds outstanding wagers when the round is cancelled
// mid-flight. The incoming context is already cancelled, so refunds
// run on a fresh one.
func (s *crashService) abort(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	refundCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for id, player := range s.round.Players {
		if player.CashedOut {
			continue
		}
		if err := s.refund(refundCtx, id, s.round.ID, player.Wager); err != nil {
			return fmt.Errorf("failed to refund player %d: %w", id, err)
		}
		player.CashedOut = true
	}
	return ctx.Err()
}

func (s *crashService) refund(ctx context.Context, discordID int64, roundID uuid.UUID, wager int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %d not found", discordID)
	}

	if err := uow.UserRepository().AddBalance(ctx, discordID, wager); err != nil {
		return fmt.Errorf("failed to credit refund: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    user.Balance + wager,
		ChangeAmount:    wager,
		TransactionType: models.TransactionTypeCrashCashOut,
		TransactionMetadata: map[string]any{
			"round":  roundID.String(),
			"refund": true,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return fmt.Errorf("failed to record refund: %w", err)
	}

	return uow.Commit()
}

func (s *crashService) clearRound() {
	s.mu.Lock()
	s.round = nil
	s.mu.Unlock()
}
