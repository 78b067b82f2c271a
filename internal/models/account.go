package models

import "time"

// MaxAccountNameLength bounds account names.
const MaxAccountNameLength = 50

// Account is a named, isolated balance owned by a user.
type Account struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}
