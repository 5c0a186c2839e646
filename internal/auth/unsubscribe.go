package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// UnsubscribeToken derives the one-click unsubscribe token for an email
// address. The token is an HMAC over the address so digest links stay valid
// without storing per-user secrets.
func UnsubscribeToken(email, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(email))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyUnsubscribeToken checks a token from an unsubscribe link in constant
// time.
func VerifyUnsubscribeToken(email, secret, token string) bool {
	expected := UnsubscribeToken(email, secret)
	return hmac.Equal([]byte(expected), []byte(token))
}
