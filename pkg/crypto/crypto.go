package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

// ComputeHMAC256 signs the payload with HMAC-SHA256 and returns the hex
// encoded signature.
func ComputeHMAC256(toSign []byte, secretKey string) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write(toSign)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ComputeEmailHMAC signs a customer email for use in public links. The
// public recovery-status endpoint verifies this before disclosing any cart
// data for the email.
func ComputeEmailHMAC(email string, secretKey string) string {
	return ComputeHMAC256([]byte(email), secretKey)
}

// VerifyEmailHMAC checks a provided signature against the expected one in
// constant time.
func VerifyEmailHMAC(email string, providedHMAC string, secretKey string) bool {
	expected := ComputeEmailHMAC(email, secretKey)
	return hmac.Equal([]byte(expected), []byte(providedHMAC))
}
