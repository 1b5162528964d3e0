package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Anand1513/wash-while-you-shop/internal/platform/notifier"
	sessionapp "github.com/Anand1513/wash-while-you-shop/internal/session/app"
	sessiondomain "github.com/Anand1513/wash-while-you-shop/internal/session/domain"
	"github.com/Anand1513/wash-while-you-shop/internal/wallet/domain"
)

// Session is the slice of the session service the wallet depends on.
type Session interface {
	CurrentUser() *sessiondomain.UserAccount
	UpdateUser(ctx context.Context, updates sessionapp.UserUpdate) error
}

// Service owns wallet top-ups and subscription plan changes. Both mutate
// the user record exclusively through the session's update path.
type Service struct {
	session  Session
	notifier notifier.Notifier
	logger   *slog.Logger

	// mu serializes the balance and tier read-modify-write cycles;
	// handlers dispatch concurrently and a lost update would drop a
	// credit.
	mu sync.Mutex
}

// NewService wires the wallet service. Nil collaborators fail fast.
func NewService(session Session, n notifier.Notifier, logger *slog.Logger) *Service {
	if session == nil {
		panic("wallet: NewService called with nil session")
	}
	if n == nil {
		panic("wallet: NewService called with nil notifier")
	}
	if logger == nil {
		panic("wallet: NewService called with nil logger")
	}
	return &Service{
		session:  session,
		notifier: n,
		logger:   logger.With("service", "wallet"),
	}
}

// Offers returns the static top-up promotion list.
func (s *Service) Offers() []domain.Offer {
	return domain.Offers()
}

// Plans returns the static subscription plan catalog.
func (s *Service) Plans() []domain.SubscriptionPlan {
	return domain.Plans()
}

// TopUp credits the wallet with amount plus any offer bonus. The boolean
// is the business outcome; amounts below the minimum are rejected with a
// notification. No-op when nobody is logged in.
func (s *Service) TopUp(ctx context.Context, amount int, offerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.session.CurrentUser()
	if user == nil {
		return false, nil
	}
	if amount < domain.MinTopUpAmount {
		s.notifier.Notify(ctx, "Invalid Amount",
			fmt.Sprintf("Minimum top-up amount is ₹%d", domain.MinTopUpAmount), true)
		return false, nil
	}

	credited := amount
	if offer, ok := domain.OfferByID(offerID); ok && amount >= offer.MinAmount {
		credited += amount * offer.BonusPercent / 100
	}

	newBalance := user.WalletBalance + credited
	if err := s.session.UpdateUser(ctx, sessionapp.UserUpdate{WalletBalance: &newBalance}); err != nil {
		return false, fmt.Errorf("wallet top-up: %w", err)
	}

	s.logger.InfoContext(ctx, "Wallet topped up",
		"user_id", user.ID, "amount", amount, "credited", credited, "balance", newBalance)
	body := fmt.Sprintf("₹%d has been added to your wallet", credited)
	if credited > amount {
		body += fmt.Sprintf(" (includes ₹%d bonus)", credited-amount)
	}
	s.notifier.Notify(ctx, "Wallet Top-up Successful! 💰", body, false)
	return true, nil
}

// Subscribe switches the current user to the given plan. Unknown plans
// are rejected with a notification; no-op when nobody is logged in.
func (s *Service) Subscribe(ctx context.Context, planID sessiondomain.SubscriptionTier) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.session.CurrentUser()
	if user == nil {
		return false, nil
	}
	plan, ok := domain.PlanByID(planID)
	if !ok {
		s.notifier.Notify(ctx, "Plan Unavailable", "The selected subscription plan does not exist", true)
		return false, nil
	}

	tier := plan.ID
	if err := s.session.UpdateUser(ctx, sessionapp.UserUpdate{SubscriptionTier: &tier}); err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}

	s.logger.InfoContext(ctx, "Subscription changed", "user_id", user.ID, "plan", plan.ID)
	s.notifier.Notify(ctx, fmt.Sprintf("Welcome to %s Plan! 🎉", plan.Name),
		fmt.Sprintf("You now have access to all %s features. Your first wash is on us!", plan.Name), false)
	return true, nil
}

// CancelSubscription drops the current user back to the free tier.
// No-op when nobody is logged in.
func (s *Service) CancelSubscription(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.session.CurrentUser()
	if user == nil {
		return nil
	}
	none := sessiondomain.TierNone
	if err := s.session.UpdateUser(ctx, sessionapp.UserUpdate{SubscriptionTier: &none}); err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	s.logger.InfoContext(ctx, "Subscription cancelled", "user_id", user.ID)
	s.notifier.Notify(ctx, "Subscription Cancelled",
		"Your subscription will remain active until the end of your billing cycle.", true)
	return nil
}
