package repository

import (
	"context"

	"github.com/Anand1513/wash-while-you-shop/internal/loyalty/domain"
)

// LedgerRepository persists the per-user reward and points collections.
// Each collection is rewritten in full on every mutation; readers get an
// empty slice for an absent or undecodable blob (fail closed), never an
// error for bad data.
type LedgerRepository interface {
	Redemptions(ctx context.Context, userID string) ([]domain.RedeemedReward, error)
	SaveRedemptions(ctx context.Context, userID string, redemptions []domain.RedeemedReward) error
	PointsHistory(ctx context.Context, userID string) ([]domain.PointsTransaction, error)
	SavePointsHistory(ctx context.Context, userID string, history []domain.PointsTransaction) error
}
