package domain

// DemoPassword is the only credential the demo directory accepts.
const DemoPassword = "password"

// WelcomeBonusPoints is granted to every newly registered account.
const WelcomeBonusPoints = 100

// DemoDirectory returns the fixed login directory: one administrator and
// one regular member. Lookup is by exact email match.
func DemoDirectory() []UserAccount {
	return []UserAccount{
		{
			ID:               "1",
			Email:            "admin@autowash.com",
			DisplayName:      "Admin User",
			PhoneNumber:      "+91 9876543210",
			IsAdministrator:  true,
			LoyaltyPoints:    0,
			SubscriptionTier: TierNone,
			WalletBalance:    1000,
		},
		{
			ID:               "2",
			Email:            "john@example.com",
			DisplayName:      "John Doe",
			PhoneNumber:      "+91 9876543211",
			IsAdministrator:  false,
			LoyaltyPoints:    250,
			SubscriptionTier: TierGold,
			WalletBalance:    500,
		},
	}
}
