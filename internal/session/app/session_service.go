package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Anand1513/wash-while-you-shop/internal/platform/notifier"
	"github.com/Anand1513/wash-while-you-shop/internal/session/domain"
	"github.com/Anand1513/wash-while-you-shop/internal/session/repository"
)

// ErrNoActiveSession is returned by mutators invoked while nobody is
// logged in.
var ErrNoActiveSession = errors.New("no active session")

// ErrOperationInFlight is returned when a login or registration is
// attempted while another one is still suspended in its artificial
// latency window. Policy: the second call is rejected outright.
var ErrOperationInFlight = errors.New("another authentication attempt is in flight")

// Config carries the tunables of the session service.
type Config struct {
	// Latency is the artificial suspension applied to Login and Register
	// to emulate a network round trip. Zero disables it.
	Latency time.Duration
	// Sleep overrides the sleeper; nil means time.Sleep.
	Sleep func(time.Duration)
}

// UserUpdate is a partial UserAccount; nil fields are left untouched.
// UpdateUser performs no validation of its own, so callers own the
// non-negativity invariants on points and wallet.
type UserUpdate struct {
	DisplayName      *string
	PhoneNumber      *string
	LoyaltyPoints    *int
	SubscriptionTier *domain.SubscriptionTier
	WalletBalance    *int
}

// Service holds at most one authenticated UserAccount, persists it, and
// is the sole mutation path for the user record.
type Service struct {
	repo     repository.UserRepository
	notifier notifier.Notifier
	logger   *slog.Logger
	latency  time.Duration
	sleep    func(time.Duration)

	mu       sync.Mutex
	current  *domain.UserAccount
	inFlight bool
}

// NewService wires the session service. Nil collaborators are a wiring
// bug, not a runtime condition, and fail fast.
func NewService(repo repository.UserRepository, n notifier.Notifier, cfg Config, logger *slog.Logger) *Service {
	if repo == nil {
		panic("session: NewService called with nil repository")
	}
	if n == nil {
		panic("session: NewService called with nil notifier")
	}
	if logger == nil {
		panic("session: NewService called with nil logger")
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Service{
		repo:     repo,
		notifier: n,
		logger:   logger.With("service", "session"),
		latency:  cfg.Latency,
		sleep:    sleep,
	}
}

// Restore loads a previously persisted session, if any. A missing or
// undecodable record leaves the service unauthenticated.
func (s *Service) Restore(ctx context.Context) error {
	user, err := s.repo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("restore session: %w", err)
	}
	s.mu.Lock()
	s.current = user
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "Restored persisted session", "user_id", user.ID, "email", user.Email)
	return nil
}

// Login checks email/password against the fixed demo directory. The
// boolean is the business outcome; a non-nil error reports either the
// in-flight rejection or a persistence failure.
func (s *Service) Login(ctx context.Context, email, password string) (bool, error) {
	if !s.beginAuthAttempt() {
		s.logger.WarnContext(ctx, "Rejected concurrent login attempt", "email", email)
		s.notifier.Notify(ctx, "Login Failed", "Another sign-in attempt is already in progress.", true)
		return false, ErrOperationInFlight
	}
	defer s.endAuthAttempt()

	s.sleep(s.latency)

	var found *domain.UserAccount
	for _, u := range domain.DemoDirectory() {
		if u.Email == email {
			u := u
			found = &u
			break
		}
	}

	if found == nil || password != domain.DemoPassword {
		s.logger.WarnContext(ctx, "Login failed", "email", email)
		s.notifier.Notify(ctx, "Login Failed",
			"Invalid credentials. Try admin@autowash.com / password or john@example.com / password", true)
		return false, nil
	}

	if err := s.repo.SaveCurrent(ctx, found); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist session on login", "error", err, "email", email)
		s.notifier.Notify(ctx, "Login Error", "Something went wrong. Please try again.", true)
		return false, err
	}

	s.mu.Lock()
	s.current = found
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "User logged in", "user_id", found.ID, "email", found.Email, "is_admin", found.IsAdministrator)
	s.notifier.Notify(ctx, "Login Successful", fmt.Sprintf("Welcome back, %s!", found.DisplayName), false)
	return true, nil
}

// Register creates a fresh account with the welcome bonus and signs it
// in. There is no uniqueness check against the demo directory; the
// password is accepted but neither stored nor validated.
func (s *Service) Register(ctx context.Context, displayName, email, phoneNumber, _ string) (bool, error) {
	if !s.beginAuthAttempt() {
		s.logger.WarnContext(ctx, "Rejected concurrent registration attempt", "email", email)
		s.notifier.Notify(ctx, "Registration Failed", "Another sign-in attempt is already in progress.", true)
		return false, ErrOperationInFlight
	}
	defer s.endAuthAttempt()

	s.sleep(s.latency)

	newUser := &domain.UserAccount{
		ID:               uuid.NewString(),
		Email:            email,
		DisplayName:      displayName,
		PhoneNumber:      phoneNumber,
		IsAdministrator:  false,
		LoyaltyPoints:    domain.WelcomeBonusPoints,
		SubscriptionTier: domain.TierNone,
		WalletBalance:    0,
	}

	if err := s.repo.SaveCurrent(ctx, newUser); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist session on registration", "error", err, "email", email)
		s.notifier.Notify(ctx, "Registration Error", "Something went wrong. Please try again.", true)
		return false, err
	}

	s.mu.Lock()
	s.current = newUser
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "User registered", "user_id", newUser.ID, "email", newUser.Email)
	s.notifier.Notify(ctx, "Registration Successful",
		fmt.Sprintf("Welcome %s! You've earned %d loyalty points as a welcome bonus.", displayName, domain.WelcomeBonusPoints), false)
	return true, nil
}

// Logout clears the current account from memory and storage. Not
// confirmable, not cancellable.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.repo.DeleteCurrent(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear persisted session", "error", err)
		return err
	}
	s.logger.InfoContext(ctx, "User logged out")
	s.notifier.Notify(ctx, "Logged Out", "You have been successfully logged out.", false)
	return nil
}

// UpdateUser shallow-merges the given fields into the current account,
// persists the merged record, then commits it to memory. It is the sole
// mutation path used by the ledger and wallet services.
func (s *Service) UpdateUser(ctx context.Context, updates UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoActiveSession
	}

	merged := *s.current
	if updates.DisplayName != nil {
		merged.DisplayName = *updates.DisplayName
	}
	if updates.PhoneNumber != nil {
		merged.PhoneNumber = *updates.PhoneNumber
	}
	if updates.LoyaltyPoints != nil {
		merged.LoyaltyPoints = *updates.LoyaltyPoints
	}
	if updates.SubscriptionTier != nil {
		merged.SubscriptionTier = *updates.SubscriptionTier
	}
	if updates.WalletBalance != nil {
		merged.WalletBalance = *updates.WalletBalance
	}

	if err := s.repo.SaveCurrent(ctx, &merged); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist user update", "error", err, "user_id", merged.ID)
		return fmt.Errorf("persist user update: %w", err)
	}
	s.current = &merged
	return nil
}

// CurrentUser returns a copy of the authenticated account, or nil.
func (s *Service) CurrentUser() *domain.UserAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// InFlight reports whether a login or registration is currently
// suspended in its latency window.
func (s *Service) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *Service) beginAuthAttempt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *Service) endAuthAttempt() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}
