package domain

// SubscriptionTier is the user's wash-plan membership level. It affects
// display and offer eligibility only; no balance math depends on it.
type SubscriptionTier string

const (
	TierNone     SubscriptionTier = "none"
	TierSilver   SubscriptionTier = "silver"
	TierGold     SubscriptionTier = "gold"
	TierPlatinum SubscriptionTier = "platinum"
)

// Valid reports whether t is one of the known tiers.
func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierNone, TierSilver, TierGold, TierPlatinum:
		return true
	}
	return false
}

// UserAccount is the single authenticated identity and its mutable
// balances. At most one account is current at a time; LoyaltyPoints and
// WalletBalance must never go negative, and every mutation path checks
// sufficiency before debiting.
type UserAccount struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	DisplayName      string           `json:"display_name"`
	PhoneNumber      string           `json:"phone_number"`
	IsAdministrator  bool             `json:"is_administrator"`
	LoyaltyPoints    int              `json:"loyalty_points"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	WalletBalance    int              `json:"wallet_balance"`
}
