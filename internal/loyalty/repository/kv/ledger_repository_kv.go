package kv

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Anand1513/wash-while-you-shop/internal/loyalty/domain"
	"github.com/Anand1513/wash-while-you-shop/internal/platform/storage"
)

// Storage keys are namespaced by user identifier.
const (
	redemptionsKeyPrefix   = "userRewards_"
	pointsHistoryKeyPrefix = "pointsHistory_"
)

// LedgerRepositoryKV stores each per-user collection as one versioned
// JSON blob in the platform key-value store.
type LedgerRepositoryKV struct {
	store  storage.Store
	logger *slog.Logger
}

func NewLedgerRepositoryKV(store storage.Store, logger *slog.Logger) *LedgerRepositoryKV {
	return &LedgerRepositoryKV{
		store:  store,
		logger: logger.With("repository", "ledger_kv"),
	}
}

func (r *LedgerRepositoryKV) Redemptions(ctx context.Context, userID string) ([]domain.RedeemedReward, error) {
	raw, found, err := r.store.Get(ctx, redemptionsKeyPrefix+userID)
	if err != nil {
		return nil, fmt.Errorf("load redemptions: %w", err)
	}
	if !found {
		return []domain.RedeemedReward{}, nil
	}
	redemptions, ok := storage.Decode[[]domain.RedeemedReward](raw)
	if !ok {
		r.logger.WarnContext(ctx, "Discarding undecodable redemption history", "user_id", userID)
		return []domain.RedeemedReward{}, nil
	}
	return redemptions, nil
}

func (r *LedgerRepositoryKV) SaveRedemptions(ctx context.Context, userID string, redemptions []domain.RedeemedReward) error {
	raw, err := storage.Encode(redemptions)
	if err != nil {
		return fmt.Errorf("encode redemptions: %w", err)
	}
	if err := r.store.Put(ctx, redemptionsKeyPrefix+userID, raw); err != nil {
		return fmt.Errorf("save redemptions: %w", err)
	}
	return nil
}

func (r *LedgerRepositoryKV) PointsHistory(ctx context.Context, userID string) ([]domain.PointsTransaction, error) {
	raw, found, err := r.store.Get(ctx, pointsHistoryKeyPrefix+userID)
	if err != nil {
		return nil, fmt.Errorf("load points history: %w", err)
	}
	if !found {
		return []domain.PointsTransaction{}, nil
	}
	history, ok := storage.Decode[[]domain.PointsTransaction](raw)
	if !ok {
		r.logger.WarnContext(ctx, "Discarding undecodable points history", "user_id", userID)
		return []domain.PointsTransaction{}, nil
	}
	return history, nil
}

func (r *LedgerRepositoryKV) SavePointsHistory(ctx context.Context, userID string, history []domain.PointsTransaction) error {
	raw, err := storage.Encode(history)
	if err != nil {
		return fmt.Errorf("encode points history: %w", err)
	}
	if err := r.store.Put(ctx, pointsHistoryKeyPrefix+userID, raw); err != nil {
		return fmt.Errorf("save points history: %w", err)
	}
	return nil
}
