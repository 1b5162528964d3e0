package domain

// MinTopUpAmount is the smallest accepted wallet top-up, in whole rupees.
const MinTopUpAmount = 100

// Offer is a static top-up promotion: a bonus percentage applied when
// the top-up meets the minimum amount.
type Offer struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	BonusPercent int    `json:"bonus_percent"`
	MinAmount    int    `json:"min_amount"`
	ValidUntil   string `json:"valid_until"`
	Code         string `json:"code"`
}

// Offers returns the fixed top-up promotion list.
func Offers() []Offer {
	return []Offer{
		{
			ID:           "1",
			Title:        "First Time Bonus",
			Description:  "Get 20% extra on your first wallet top-up",
			BonusPercent: 20,
			MinAmount:    500,
			ValidUntil:   "2024-12-31",
			Code:         "FIRST20",
		},
		{
			ID:           "2",
			Title:        "Weekend Special",
			Description:  "15% extra on top-ups above ₹1000",
			BonusPercent: 15,
			MinAmount:    1000,
			ValidUntil:   "2024-12-15",
			Code:         "WEEKEND15",
		},
		{
			ID:           "3",
			Title:        "Loyalty Bonus",
			Description:  "10% extra for Gold & Platinum members",
			BonusPercent: 10,
			MinAmount:    300,
			ValidUntil:   "2024-12-25",
			Code:         "LOYAL10",
		},
	}
}

// OfferByID looks up a promotion.
func OfferByID(id string) (Offer, bool) {
	for _, o := range Offers() {
		if o.ID == id {
			return o, true
		}
	}
	return Offer{}, false
}
