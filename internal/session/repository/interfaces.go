package repository

import (
	"context"
	"errors"

	"github.com/Anand1513/wash-while-you-shop/internal/session/domain"
)

// ErrUserNotFound is returned when no current user record is persisted,
// or when the persisted record cannot be decoded (fail closed).
var ErrUserNotFound = errors.New("user not found")

// UserRepository persists the single current UserAccount under a fixed
// key. There is no multi-user index; logout deletes the record outright.
type UserRepository interface {
	GetCurrent(ctx context.Context) (*domain.UserAccount, error)
	SaveCurrent(ctx context.Context, user *domain.UserAccount) error
	DeleteCurrent(ctx context.Context) error
}
