package models

import "time"

// AuthCodeTTL is how long an issued verification code stays redeemable.
const AuthCodeTTL = 300 * time.Second

// PendingAuthCode is the ephemeral record behind a 6-digit verification
// code. It lives in the code store keyed by the code itself and is
// consumed on redemption or dropped on expiry, whichever comes first.
type PendingAuthCode struct {
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}
