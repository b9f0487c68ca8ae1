package domain

import (
	"fmt"
	"net/url"
)

// RecoveryStatusRequest is the public "check active recovery" lookup. The
// caller (the chat layer) resolves a session to a customer email first; the
// HMAC proves it was issued by us.
type RecoveryStatusRequest struct {
	StoreID   string `json:"store_id"`
	Email     string `json:"email"`
	EmailHMAC string `json:"email_hmac"`
}

// Validate validates the recovery status request
func (r *RecoveryStatusRequest) Validate() error {
	if r.StoreID == "" {
		return fmt.Errorf("store_id is required")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.EmailHMAC == "" {
		return fmt.Errorf("email_hmac is required")
	}
	return nil
}

// FromURLValues parses URL query parameters into the request
func (r *RecoveryStatusRequest) FromURLValues(values url.Values) error {
	r.StoreID = values.Get("store_id")
	r.Email = values.Get("email")
	r.EmailHMAC = values.Get("email_hmac")
	return r.Validate()
}

// RecoveryStatusResponse carries the latest active sequence and its cart
// snapshot, or nothing when no recovery is underway for the email.
type RecoveryStatusResponse struct {
	HasActiveRecovery bool      `json:"has_active_recovery"`
	Sequence          *Sequence `json:"sequence,omitempty"`
	Checkout          *Checkout `json:"checkout,omitempty"`
}
