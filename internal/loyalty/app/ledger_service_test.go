package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anand1513/wash-while-you-shop/internal/loyalty/domain"
	"github.com/Anand1513/wash-while-you-shop/internal/loyalty/repository"
	loyaltykv "github.com/Anand1513/wash-while-you-shop/internal/loyalty/repository/kv"
	"github.com/Anand1513/wash-while-you-shop/internal/platform/notifier"
	"github.com/Anand1513/wash-while-you-shop/internal/platform/storage"
	sessionapp "github.com/Anand1513/wash-while-you-shop/internal/session/app"
	sessionkv "github.com/Anand1513/wash-while-you-shop/internal/session/repository/kv"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	session *sessionapp.Service
	ledger  *Service
	rec     *notifier.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	rec := notifier.NewRecorder()
	logger := testLogger()

	session := sessionapp.NewService(
		sessionkv.NewUserRepositoryKV(store, logger), rec, sessionapp.Config{}, logger)
	ledger := NewService(session,
		loyaltykv.NewLedgerRepositoryKV(store, logger), rec, logger)
	return &fixture{session: session, ledger: ledger, rec: rec}
}

func (f *fixture) register(t *testing.T, name string) {
	t.Helper()
	ok, err := f.session.Register(context.Background(), name, strings.ToLower(name)+"@example.com", "+91 9000000000", "x")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCatalogShape(t *testing.T) {
	f := newFixture(t)
	catalog := f.ledger.Catalog()
	require.Len(t, catalog, 6)

	costs := make([]int, 0, len(catalog))
	categories := make([]domain.Category, 0, len(catalog))
	for _, r := range catalog {
		costs = append(costs, r.PointsCost)
		categories = append(categories, r.Category)
	}
	assert.Equal(t, []int{500, 200, 300, 150, 800, 600}, costs)
	assert.Equal(t, []domain.Category{
		domain.CategoryWash, domain.CategoryProduct, domain.CategoryProduct,
		domain.CategoryDiscount, domain.CategoryService, domain.CategoryService,
	}, categories)
}

func TestAddPointsOrderingNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "Asha")

	for i := 1; i <= 3; i++ {
		require.NoError(t, f.ledger.AddPoints(ctx, i*10, fmt.Sprintf("visit %d", i)))
	}

	history, err := f.ledger.PointsHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "visit 3", history[0].Reason)
	assert.Equal(t, "visit 2", history[1].Reason)
	assert.Equal(t, "visit 1", history[2].Reason)
	for _, txn := range history {
		assert.Equal(t, domain.DirectionEarned, txn.Direction)
	}

	user := f.session.CurrentUser()
	assert.Equal(t, 100+10+20+30, user.LoyaltyPoints)
}

func TestAddPointsRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Asha")
	assert.Error(t, f.ledger.AddPoints(context.Background(), 0, "nothing"))
	assert.Error(t, f.ledger.AddPoints(context.Background(), -5, "negative"))
}

// Register, earn a promo, redeem the 150-point discount: ends at zero
// with one redemption and two history entries.
func TestRedeemAfterPromo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "Asha")
	require.Equal(t, 100, f.session.CurrentUser().LoyaltyPoints)

	require.NoError(t, f.ledger.AddPoints(ctx, 50, "promo"))
	require.Equal(t, 150, f.session.CurrentUser().LoyaltyPoints)

	ok, err := f.ledger.RedeemReward(ctx, "4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, f.session.CurrentUser().LoyaltyPoints)

	redemptions, err := f.ledger.Redemptions(ctx)
	require.NoError(t, err)
	require.Len(t, redemptions, 1)
	assert.Equal(t, "4", redemptions[0].RewardID)
	assert.False(t, redemptions[0].Used)
	assert.True(t, strings.HasPrefix(redemptions[0].Code, "RW"))
	assert.Len(t, redemptions[0].Code, 8)
	assert.Equal(t, redemptions[0].RedeemedAt.Add(30*24*time.Hour), redemptions[0].ExpiresAt)

	history, err := f.ledger.PointsHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.DirectionSpent, history[0].Direction)
	assert.Equal(t, 150, history[0].Points)
	assert.Equal(t, "Redeemed: 20% Off Next Wash", history[0].Reason)

	assert.Equal(t, "Reward Redeemed! 🎁", f.rec.Last().Title)
	assert.Contains(t, f.rec.Last().Body, redemptions[0].Code)
}

// A fresh account cannot afford the 500-point wash; nothing changes and
// the notification states the exact shortfall.
func TestRedeemInsufficientPointsLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "Bala")

	ok, err := f.ledger.RedeemReward(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 100, f.session.CurrentUser().LoyaltyPoints)

	redemptions, err := f.ledger.Redemptions(ctx)
	require.NoError(t, err)
	assert.Empty(t, redemptions)

	history, err := f.ledger.PointsHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	last := f.rec.Last()
	assert.Equal(t, "Insufficient Points", last.Title)
	assert.Contains(t, last.Body, "400 more points")
	assert.True(t, last.Severe)
}

func TestRedeemUnknownReward(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Asha")

	ok, err := f.ledger.RedeemReward(context.Background(), "999")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Reward Unavailable", f.rec.Last().Title)
	assert.True(t, f.rec.Last().Severe)
}

// All three redemption effects land together: one redemption record, one
// spent transaction of the exact cost, and the matching balance drop.
func TestRedeemEffectsAreConsistent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ok, err := f.session.Login(ctx, "john@example.com", "password")
	require.NoError(t, err)
	require.True(t, ok)

	before := f.session.CurrentUser().LoyaltyPoints

	ok, err = f.ledger.RedeemReward(ctx, "2")
	require.NoError(t, err)
	require.True(t, ok)

	redemptions, err := f.ledger.Redemptions(ctx)
	require.NoError(t, err)
	history, err := f.ledger.PointsHistory(ctx)
	require.NoError(t, err)

	assert.Len(t, redemptions, 1)
	assert.Len(t, history, 1)
	assert.Equal(t, domain.DirectionSpent, history[0].Direction)
	assert.Equal(t, 200, history[0].Points)
	assert.Equal(t, before-200, f.session.CurrentUser().LoyaltyPoints)
}

func TestOperationsWithoutSessionAreNoOps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.ledger.AddPoints(ctx, 50, "promo"))

	ok, err := f.ledger.RedeemReward(ctx, "4")
	require.NoError(t, err)
	assert.False(t, ok)

	history, err := f.ledger.PointsHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	redemptions, err := f.ledger.Redemptions(ctx)
	require.NoError(t, err)
	assert.Empty(t, redemptions)
}

// slowLedgerRepo widens the window between the snapshot read and the
// write-back so an unserialized check-then-debit is caught reliably.
type slowLedgerRepo struct {
	inner repository.LedgerRepository
}

func (r *slowLedgerRepo) Redemptions(ctx context.Context, userID string) ([]domain.RedeemedReward, error) {
	time.Sleep(10 * time.Millisecond)
	return r.inner.Redemptions(ctx, userID)
}

func (r *slowLedgerRepo) SaveRedemptions(ctx context.Context, userID string, redemptions []domain.RedeemedReward) error {
	return r.inner.SaveRedemptions(ctx, userID, redemptions)
}

func (r *slowLedgerRepo) PointsHistory(ctx context.Context, userID string) ([]domain.PointsTransaction, error) {
	return r.inner.PointsHistory(ctx, userID)
}

func (r *slowLedgerRepo) SavePointsHistory(ctx context.Context, userID string, history []domain.PointsTransaction) error {
	return r.inner.SavePointsHistory(ctx, userID, history)
}

// Overlapping redemptions must serialize: john's 250 points cover the
// 200-point reward once, so exactly one call may pass the sufficiency
// check, and the surviving state carries one redemption record with its
// matching spent transaction and balance drop.
func TestConcurrentRedemptionsSerialize(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	rec := notifier.NewRecorder()
	logger := testLogger()

	session := sessionapp.NewService(
		sessionkv.NewUserRepositoryKV(store, logger), rec, sessionapp.Config{}, logger)
	ok, err := session.Login(ctx, "john@example.com", "password")
	require.NoError(t, err)
	require.True(t, ok)

	ledger := NewService(session,
		&slowLedgerRepo{inner: loyaltykv.NewLedgerRepositoryKV(store, logger)}, rec, logger)

	var wg sync.WaitGroup
	outcomes := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := ledger.RedeemReward(ctx, "2")
			assert.NoError(t, err)
			outcomes <- ok
		}()
	}
	wg.Wait()
	close(outcomes)

	successes := 0
	for ok := range outcomes {
		if ok {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 50, session.CurrentUser().LoyaltyPoints)

	redemptions, err := ledger.Redemptions(ctx)
	require.NoError(t, err)
	assert.Len(t, redemptions, 1)

	history, err := ledger.PointsHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

// Concurrent accruals must not lose a transaction to the full-collection
// rewrite.
func TestConcurrentAddPointsLoseNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "Asha")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.ledger.AddPoints(ctx, 10, "visit"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 100+5*10, f.session.CurrentUser().LoyaltyPoints)
	history, err := f.ledger.PointsHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 5)
}

// --- Mocks ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Redemptions(ctx context.Context, userID string) ([]domain.RedeemedReward, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RedeemedReward), args.Error(1)
}

func (m *MockLedgerRepository) SaveRedemptions(ctx context.Context, userID string, redemptions []domain.RedeemedReward) error {
	args := m.Called(ctx, userID, redemptions)
	return args.Error(0)
}

func (m *MockLedgerRepository) PointsHistory(ctx context.Context, userID string) ([]domain.PointsTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PointsTransaction), args.Error(1)
}

func (m *MockLedgerRepository) SavePointsHistory(ctx context.Context, userID string, history []domain.PointsTransaction) error {
	args := m.Called(ctx, userID, history)
	return args.Error(0)
}

// A failed history write must abort the redemption before the balance is
// touched; the balance mutation is deliberately last.
func TestRedeemLeavesBalanceWhenHistoryWriteFails(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	rec := notifier.NewRecorder()
	logger := testLogger()

	session := sessionapp.NewService(
		sessionkv.NewUserRepositoryKV(store, logger), rec, sessionapp.Config{}, logger)
	ok, err := session.Login(ctx, "john@example.com", "password")
	require.NoError(t, err)
	require.True(t, ok)

	repo := new(MockLedgerRepository)
	repo.On("Redemptions", mock.Anything, mock.Anything).Return([]domain.RedeemedReward{}, nil)
	repo.On("SaveRedemptions", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("PointsHistory", mock.Anything, mock.Anything).Return([]domain.PointsTransaction{}, nil)
	repo.On("SavePointsHistory", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	ledger := NewService(session, repo, rec, logger)

	ok, err = ledger.RedeemReward(ctx, "2")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, 250, session.CurrentUser().LoyaltyPoints)
	repo.AssertExpectations(t)
}
