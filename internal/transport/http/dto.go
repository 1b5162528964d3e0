package http

import (
	sessiondomain "github.com/Anand1513/wash-while-you-shop/internal/session/domain"
)

// Login and registration inputs are not format-checked beyond presence;
// an unknown email is simply an authentication failure.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

type AddPointsRequest struct {
	Points int    `json:"points" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required"`
}

type TopUpRequest struct {
	Amount  int    `json:"amount" validate:"required,gt=0"`
	OfferID string `json:"offer_id,omitempty"`
}

type UserProfileResponse struct {
	ID               string                         `json:"id"`
	Email            string                         `json:"email"`
	DisplayName      string                         `json:"display_name"`
	PhoneNumber      string                         `json:"phone_number"`
	IsAdministrator  bool                           `json:"is_administrator"`
	LoyaltyPoints    int                            `json:"loyalty_points"`
	SubscriptionTier sessiondomain.SubscriptionTier `json:"subscription_tier"`
	WalletBalance    int                            `json:"wallet_balance"`
}

func profileFromUser(u *sessiondomain.UserAccount) UserProfileResponse {
	return UserProfileResponse{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		PhoneNumber:      u.PhoneNumber,
		IsAdministrator:  u.IsAdministrator,
		LoyaltyPoints:    u.LoyaltyPoints,
		SubscriptionTier: u.SubscriptionTier,
		WalletBalance:    u.WalletBalance,
	}
}

type LoginResponse struct {
	Token string              `json:"token"`
	User  UserProfileResponse `json:"user"`
}
