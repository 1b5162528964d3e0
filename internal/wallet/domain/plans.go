package domain

import sessiondomain "github.com/Anand1513/wash-while-you-shop/internal/session/domain"

// SubscriptionPlan is one purchasable wash-plan tier.
type SubscriptionPlan struct {
	ID             sessiondomain.SubscriptionTier `json:"id"`
	Name           string                         `json:"name"`
	Price          int                            `json:"price"`
	WashesPerMonth string                         `json:"washes_per_month"`
	Features       []string                       `json:"features"`
}

// Plans returns the fixed subscription plan catalog.
func Plans() []SubscriptionPlan {
	return []SubscriptionPlan{
		{
			ID:             sessiondomain.TierSilver,
			Name:           "Silver",
			Price:          299,
			WashesPerMonth: "5",
			Features: []string{
				"5 car washes per month",
				"Basic wash package",
				"SMS notifications",
				"Loyalty points (1x)",
			},
		},
		{
			ID:             sessiondomain.TierGold,
			Name:           "Gold",
			Price:          599,
			WashesPerMonth: "12",
			Features: []string{
				"12 car washes per month",
				"Premium wash package",
				"Live video tracking",
				"Loyalty points (2x)",
			},
		},
		{
			ID:             sessiondomain.TierPlatinum,
			Name:           "Platinum",
			Price:          999,
			WashesPerMonth: "unlimited",
			Features: []string{
				"Unlimited car washes",
				"Deluxe wash + wax",
				"Interior detailing",
				"Loyalty points (3x)",
			},
		},
	}
}

// PlanByID looks up a plan by its tier identifier.
func PlanByID(id sessiondomain.SubscriptionTier) (SubscriptionPlan, bool) {
	for _, p := range Plans() {
		if p.ID == id {
			return p, true
		}
	}
	return SubscriptionPlan{}, false
}
