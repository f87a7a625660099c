package models

import (
	"time"
)

// Account represents a customer account. Balance is held in minor
// currency units (cents) to keep monetary arithmetic exact.
type Account struct {
	Number      string    `json:"account_number"`
	OwnerName   string    `json:"owner_name"`
	ContactInfo string    `json:"contact_info"`
	PINHash     string    `json:"-"`
	Balance     int64     `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
}
