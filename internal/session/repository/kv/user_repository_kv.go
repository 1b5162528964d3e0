package kv

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Anand1513/wash-while-you-shop/internal/platform/storage"
	"github.com/Anand1513/wash-while-you-shop/internal/session/domain"
	"github.com/Anand1513/wash-while-you-shop/internal/session/repository"
)

// currentUserKey is the fixed storage key for the persisted session.
const currentUserKey = "user"

// UserRepositoryKV stores the current UserAccount as a versioned JSON
// blob in the platform key-value store.
type UserRepositoryKV struct {
	store  storage.Store
	logger *slog.Logger
}

func NewUserRepositoryKV(store storage.Store, logger *slog.Logger) *UserRepositoryKV {
	return &UserRepositoryKV{
		store:  store,
		logger: logger.With("repository", "user_kv"),
	}
}

func (r *UserRepositoryKV) GetCurrent(ctx context.Context) (*domain.UserAccount, error) {
	raw, found, err := r.store.Get(ctx, currentUserKey)
	if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	if !found {
		return nil, repository.ErrUserNotFound
	}
	user, ok := storage.Decode[domain.UserAccount](raw)
	if !ok {
		// Malformed persisted state; treat as unauthenticated.
		r.logger.WarnContext(ctx, "Discarding undecodable persisted user record")
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepositoryKV) SaveCurrent(ctx context.Context, user *domain.UserAccount) error {
	raw, err := storage.Encode(*user)
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	if err := r.store.Put(ctx, currentUserKey, raw); err != nil {
		return fmt.Errorf("save current user: %w", err)
	}
	return nil
}

func (r *UserRepositoryKV) DeleteCurrent(ctx context.Context) error {
	if err := r.store.Delete(ctx, currentUserKey); err != nil {
		return fmt.Errorf("delete current user: %w", err)
	}
	return nil
}
