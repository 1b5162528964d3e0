package domain

import "time"

// Category classifies a catalog reward.
type Category string

const (
	CategoryWash     Category = "wash"
	CategoryProduct  Category = "product"
	CategoryService  Category = "service"
	CategoryDiscount Category = "discount"
)

// RewardCatalogEntry is one redeemable item in the static catalog. The
// catalog is process-wide and immutable; entries are never owned by a
// user.
type RewardCatalogEntry struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PointsCost   int      `json:"points_cost"`
	Category     Category `json:"category"`
	DisplayGlyph string   `json:"display_glyph"`
	Available    bool     `json:"available"`
	Stock        *int     `json:"stock,omitempty"`
}

// RedemptionValidity is how long a redeemed reward stays presentable.
const RedemptionValidity = 30 * 24 * time.Hour

// RedeemedReward records a catalog reward exchanged for points. Used is
// persisted but never transitioned; consumption is not modeled here.
type RedeemedReward struct {
	ID         string    `json:"id"`
	RewardID   string    `json:"reward_id"`
	RedeemedAt time.Time `json:"redeemed_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Code       string    `json:"code"`
	Used       bool      `json:"used"`
}
