package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Anand1513/wash-while-you-shop/internal/loyalty/domain"
	"github.com/Anand1513/wash-while-you-shop/internal/loyalty/repository"
	"github.com/Anand1513/wash-while-you-shop/internal/platform/notifier"
	sessionapp "github.com/Anand1513/wash-while-you-shop/internal/session/app"
	sessiondomain "github.com/Anand1513/wash-while-you-shop/internal/session/domain"
)

// Session is the slice of the session service the ledger depends on: the
// active user and the balance write-back path.
type Session interface {
	CurrentUser() *sessiondomain.UserAccount
	UpdateUser(ctx context.Context, updates sessionapp.UserUpdate) error
}

// Service owns the reward catalog and the current user's redemption and
// points histories.
type Service struct {
	session  Session
	repo     repository.LedgerRepository
	notifier notifier.Notifier
	logger   *slog.Logger

	// mu serializes the snapshot-read through write-back sequence of the
	// mutating operations; handlers dispatch concurrently, and an
	// unserialized check-then-debit would double-spend.
	mu sync.Mutex
}

// NewService wires the loyalty ledger. Nil collaborators fail fast.
func NewService(session Session, repo repository.LedgerRepository, n notifier.Notifier, logger *slog.Logger) *Service {
	if session == nil {
		panic("loyalty: NewService called with nil session")
	}
	if repo == nil {
		panic("loyalty: NewService called with nil repository")
	}
	if n == nil {
		panic("loyalty: NewService called with nil notifier")
	}
	if logger == nil {
		panic("loyalty: NewService called with nil logger")
	}
	return &Service{
		session:  session,
		repo:     repo,
		notifier: n,
		logger:   logger.With("service", "loyalty"),
	}
}

// Catalog returns the static reward catalog.
func (s *Service) Catalog() []domain.RewardCatalogEntry {
	return domain.Catalog()
}

// AddPoints credits points with a reason, prepends the transaction to the
// history, and writes the new balance back through the session. No-op
// when nobody is logged in; there is no upper bound.
func (s *Service) AddPoints(ctx context.Context, points int, reason string) error {
	if points <= 0 {
		return errors.New("points to add must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.session.CurrentUser()
	if user == nil {
		return nil
	}

	txn := domain.PointsTransaction{
		ID:        uuid.NewString(),
		Direction: domain.DirectionEarned,
		Points:    points,
		Reason:    reason,
		At:        time.Now().UTC(),
	}

	history, err := s.repo.PointsHistory(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	history = append([]domain.PointsTransaction{txn}, history...)
	if err := s.repo.SavePointsHistory(ctx, user.ID, history); err != nil {
		return fmt.Errorf("add points: %w", err)
	}

	newBalance := user.LoyaltyPoints + points
	if err := s.session.UpdateUser(ctx, sessionapp.UserUpdate{LoyaltyPoints: &newBalance}); err != nil {
		return fmt.Errorf("add points: %w", err)
	}

	s.logger.InfoContext(ctx, "Points credited", "user_id", user.ID, "points", points, "reason", reason, "balance", newBalance)
	s.notifier.Notify(ctx, fmt.Sprintf("+%d Points Earned! 🎉", points), reason, false)
	return nil
}

// RedeemReward exchanges points for a catalog reward. The boolean is the
// business outcome; a non-nil error reports a persistence failure. The
// balance decrement is performed last, after both history writes, so a
// reader never observes a spent transaction without the matching
// redemption record and balance change.
func (s *Service) RedeemReward(ctx context.Context, rewardID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.session.CurrentUser()
	if user == nil {
		return false, nil
	}

	reward, found := domain.CatalogEntry(rewardID)
	if !found || !reward.Available {
		s.logger.WarnContext(ctx, "Redemption of unavailable reward", "user_id", user.ID, "reward_id", rewardID)
		s.notifier.Notify(ctx, "Reward Unavailable", "This reward is currently not available", true)
		return false, nil
	}

	if user.LoyaltyPoints < reward.PointsCost {
		shortfall := reward.PointsCost - user.LoyaltyPoints
		s.logger.WarnContext(ctx, "Redemption with insufficient points",
			"user_id", user.ID, "reward_id", rewardID, "balance", user.LoyaltyPoints, "cost", reward.PointsCost)
		s.notifier.Notify(ctx, "Insufficient Points",
			fmt.Sprintf("You need %d more points to redeem this reward", shortfall), true)
		return false, nil
	}

	now := time.Now().UTC()
	redeemed := domain.RedeemedReward{
		ID:         uuid.NewString(),
		RewardID:   reward.ID,
		RedeemedAt: now,
		ExpiresAt:  now.Add(domain.RedemptionValidity),
		Code:       newRedemptionCode(),
		Used:       false,
	}

	redemptions, err := s.repo.Redemptions(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("redeem reward: %w", err)
	}
	redemptions = append([]domain.RedeemedReward{redeemed}, redemptions...)
	if err := s.repo.SaveRedemptions(ctx, user.ID, redemptions); err != nil {
		return false, fmt.Errorf("redeem reward: %w", err)
	}

	txn := domain.PointsTransaction{
		ID:        uuid.NewString(),
		Direction: domain.DirectionSpent,
		Points:    reward.PointsCost,
		Reason:    "Redeemed: " + reward.Title,
		At:        now,
	}
	history, err := s.repo.PointsHistory(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("redeem reward: %w", err)
	}
	history = append([]domain.PointsTransaction{txn}, history...)
	if err := s.repo.SavePointsHistory(ctx, user.ID, history); err != nil {
		return false, fmt.Errorf("redeem reward: %w", err)
	}

	// Balance mutation goes last; see ordering note above.
	newBalance := user.LoyaltyPoints - reward.PointsCost
	if err := s.session.UpdateUser(ctx, sessionapp.UserUpdate{LoyaltyPoints: &newBalance}); err != nil {
		return false, fmt.Errorf("redeem reward: %w", err)
	}

	s.logger.InfoContext(ctx, "Reward redeemed",
		"user_id", user.ID, "reward_id", reward.ID, "cost", reward.PointsCost, "code", redeemed.Code, "balance", newBalance)
	s.notifier.Notify(ctx, "Reward Redeemed! 🎁",
		fmt.Sprintf("%s has been added to your rewards. Code: %s", reward.Title, redeemed.Code), false)
	return true, nil
}

// PointsHistory returns the current user's transactions, newest-first.
// Empty when nobody is logged in.
func (s *Service) PointsHistory(ctx context.Context) ([]domain.PointsTransaction, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return []domain.PointsTransaction{}, nil
	}
	return s.repo.PointsHistory(ctx, user.ID)
}

// Redemptions returns the current user's redeemed rewards, newest-first.
// Empty when nobody is logged in.
func (s *Service) Redemptions(ctx context.Context) ([]domain.RedeemedReward, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return []domain.RedeemedReward{}, nil
	}
	return s.repo.Redemptions(ctx, user.ID)
}

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newRedemptionCode builds the human-presentable code, RW plus six
// base-36 characters. Collisions are possible and unhandled.
func newRedemptionCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure is unrecoverable wiring trouble.
		panic(fmt.Sprintf("loyalty: redemption code entropy unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "RW" + string(buf)
}
