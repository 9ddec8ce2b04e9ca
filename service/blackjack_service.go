package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"casino/events"
	"casino/games/blackjack"
	"casino/models"
)

// blackjackService implements the BlackjackService interface. Every
// command runs start-to-finish under the engine mutex, so re-entrant
// commands from the same user cannot interleave and a game can never
// settle twice.
type blackjackService struct {
	uowFactory UnitOfWorkFactory

	mu       sync.Mutex
	sessions map[int64]*blackjack.Session
	rng      *rand.Rand
}

// NewBlackjackService creates a new blackjack session engine
func NewBlackjackService(uowFactory UnitOfWorkFactory) BlackjackService {
	return &blackjackService{
		uowFactory: uowFactory,
		sessions:   make(map[int64]*blackjack.Session),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start deals a new game, debiting the bet up front.
func (s *blackjackService) Start(ctx context.Context, discordID int64, bet int64) (*BlackjackView, error) {
	if bet <= 0 {
		return nil, fmt.Errorf("%w: bet must be positive", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[discordID]; ok {
		return nil, fmt.Errorf("%w: finish your current game first", ErrSessionAlreadyActive)
	}

	if err := s.placeBet(ctx, discordID, bet, map[string]any{"operation": "start"}); err != nil {
		return nil, err
	}

	session := blackjack.NewSession(discordID, bet, s.rng)
	s.sessions[discordID] = session

	return s.view(session, nil), nil
}

// Hit draws one card for the hand; a bust ends it and may settle the game.
func (s *blackjackService) Hit(ctx context.Context, discordID int64, handIndex int) (*BlackjackView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, hand, err := s.lookupHand(discordID, handIndex)
	if err != nil {
		return nil, err
	}

	session.Hit(hand, s.rng)
	return s.settleIfDone(ctx, discordID, session)
}

// Stand ends the hand and may settle the game.
func (s *blackjackService) Stand(ctx context.Context, discordID int64, handIndex int) (*BlackjackView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, hand, err := s.lookupHand(discordID, handIndex)
	if err != nil {
		return nil, err
	}

	hand.Status = blackjack.HandEnded
	return s.settleIfDone(ctx, discordID, session)
}

// Double doubles the hand's bet for exactly one more card, then the
// hand ends either by busting or by standing on the new total.
func (s *blackjackService) Double(ctx context.Context, discordID int64, handIndex int) (*BlackjackView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, hand, err := s.lookupHand(discordID, handIndex)
	if err != nil {
		return nil, err
	}

	if err := s.placeBet(ctx, discordID, hand.Bet, map[string]any{"operation": "double"}); err != nil {
		return nil, err
	}
	hand.Bet *= 2

	session.Hit(hand, s.rng)
	hand.Status = blackjack.HandEnded
	return s.settleIfDone(ctx, discordID, session)
}

// Split turns an initial pair into two independent hands, debiting a
// second bet equal to the first.
func (s *blackjackService) Split(ctx context.Context, discordID int64) (*BlackjackView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[discordID]
	if !ok {
		return nil, fmt.Errorf("%w: start a game with blackjack first", ErrNoActiveSession)
	}
	if len(session.Hands) != 1 {
		return nil, fmt.Errorf("%w: can only split on the first turn", ErrInvalidArgument)
	}
	if !session.Hands[0].IsPair() {
		return nil, fmt.Errorf("%w: can only split a pair", ErrInvalidArgument)
	}

	if err := s.placeBet(ctx, discordID, session.Hands[0].Bet, map[string]any{"operation": "split"}); err != nil {
		return nil, err
	}

	session.Split(s.rng)
	return s.view(session, nil), nil
}

// SetHandBet overrides one split hand's bet, debiting the new amount.
// The originally copied bet is not refunded.
func (s *blackjackService) SetHandBet(ctx context.Context, discordID int64, handIndex int, bet int64) (*BlackjackView, error) {
	if bet <= 0 {
		return nil, fmt.Errorf("%w: bet must be positive", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[discordID]
	if !ok {
		return nil, fmt.Errorf("%w: start a game with blackjack first", ErrNoActiveSession)
	}
	if len(session.Hands) < 2 {
		return nil, fmt.Errorf("%w: separate bets are only for split hands", ErrInvalidArgument)
	}
	if handIndex < 1 || handIndex > len(session.Hands) {
		return nil, fmt.Errorf("%w: invalid hand index %d", ErrInvalidArgument, handIndex)
	}

	if err := s.placeBet(ctx, discordID, bet, map[string]any{"operation": "bet", "hand": handIndex}); err != nil {
		return nil, err
	}

	session.Hands[handIndex-1].Bet = bet
	return s.view(session, nil), nil
}

// lookupHand validates the session and 1-based hand index. Callers hold s.mu.
func (s *blackjackService) lookupHand(discordID int64, handIndex int) (*blackjack.Session, *blackjack.Hand, error) {
	session, ok := s.sessions[discordID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: start a game with blackjack first", ErrNoActiveSession)
	}
	if handIndex < 1 || handIndex > len(session.Hands) {
		return nil, nil, fmt.Errorf("%w: invalid hand index %d", ErrInvalidArgument, handIndex)
	}
	hand := session.Hands[handIndex-1]
	if hand.Status != blackjack.HandOngoing {
		return nil, nil, fmt.Errorf("%w: hand %d has already ended", ErrInvalidArgument, handIndex)
	}
	return session, hand, nil
}

// placeBet debits a bet inside its own transaction, pre-checking the
// balance so a rejection leaves the ledger untouched. Callers hold s.mu.
func (s *blackjackService) placeBet(ctx context.Context, discordID int64, bet int64, metadata map[string]any) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.Balance < bet {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, bet)
	}

	if err := uow.UserRepository().DeductBalance(ctx, discordID, bet); err != nil {
		return fmt.Errorf("failed to deduct bet: %w", err)
	}

	metadata["bet"] = bet
	history := &models.BalanceHistory{
		DiscordID:           discordID,
		BalanceBefore:       user.Balance,
		BalanceAfter:        user.Balance - bet,
		ChangeAmount:        -bet,
		TransactionType:     models.TransactionTypeBlackjackBet,
		TransactionMetadata: metadata,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return fmt.Errorf("failed to record bet: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// settleIfDone resolves the game once every hand has ended: it reveals
// the dealer's hole card, credits winnings and pushes, and removes the
// session. Callers hold s.mu.
func (s *blackjackService) settleIfDone(ctx context.Context, discordID int64, session *blackjack.Session) (*BlackjackView, error) {
	if !session.AllEnded() {
		return s.view(session, nil), nil
	}

	settlement := session.Settle(s.rng)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", discordID)
	}

	balance := user.Balance
	var totalBets, totalWinnings int64
	for _, result := range settlement.Results {
		totalBets += result.Bet
		if result.Winnings <= 0 {
			continue
		}
		totalWinnings += result.Winnings

		if err := uow.UserRepository().AddBalance(ctx, discordID, result.Winnings); err != nil {
			return nil, fmt.Errorf("failed to credit hand %d: %w", result.HandIndex, err)
		}

		history := &models.BalanceHistory{
			DiscordID:       discordID,
			BalanceBefore:   balance,
			BalanceAfter:    balance + result.Winnings,
			ChangeAmount:    result.Winnings,
			TransactionType: models.TransactionTypeBlackjackWin,
			TransactionMetadata: map[string]any{
				"hand":     result.HandIndex,
				"bet":      result.Bet,
				"winnings": result.Winnings,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record winnings: %w", err)
		}
		balance += result.Winnings
	}

	if totalWinnings > totalBets {
		if err := uow.UserRepository().AddScore(ctx, discordID, totalWinnings-totalBets); err != nil {
			return nil, fmt.Errorf("failed to update score: %w", err)
		}
	}

	uow.EventBus().Publish(events.GameResultEvent{
		UserID: discordID,
		Game:   "blackjack",
		Wager:  totalBets,
		Payout: totalWinnings,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	delete(s.sessions, discordID)
	return s.view(session, &settlement), nil
}

// view renders the session state. Callers hold s.mu.
func (s *blackjackService) view(session *blackjack.Session, settlement *blackjack.Settlement) *BlackjackView {
	view := &BlackjackView{
		DealerUp:    session.DealerUp,
		DealerValue: blackjack.HandValue([]blackjack.Card{session.DealerUp}),
		Settlement:  settlement,
	}
	for i, hand := range session.Hands {
		view.Hands = append(view.Hands, BlackjackHandView{
			Index:    i + 1,
			Cards:    append([]blackjack.Card(nil), hand.Cards...),
			Value:    hand.Value(),
			Bet:      hand.Bet,
			Ongoing:  hand.Status == blackjack.HandOngoing,
			CanSplit: len(session.Hands) == 1 && hand.IsPair(),
		})
	}
	return view
}
