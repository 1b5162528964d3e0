package domain

import "time"

// Direction tags a points transaction as an accrual or a spend. The
// magnitude is always positive; the direction carries the sign.
type Direction string

const (
	DirectionEarned Direction = "earned"
	DirectionSpent  Direction = "spent"
)

// PointsTransaction is one entry in a user's points history, stored
// newest-first.
type PointsTransaction struct {
	ID        string    `json:"id"`
	Direction Direction `json:"direction"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}
