package tripay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign computes the hex HMAC-SHA256 of payload keyed by the merchant's
// private key. The same scheme covers outbound request signatures and
// inbound callback verification.
func Sign(payload []byte, privateKey string) string {
	mac := hmac.New(sha256.New, []byte(privateKey))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a callback signature against the raw request body.
// It never fails hard: any missing or malformed input yields false.
func VerifySignature(payload []byte, signature, privateKey string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" || strings.TrimSpace(privateKey) == "" {
		return false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(privateKey))
	_, _ = mac.Write(payload)
	return hmac.Equal(provided, mac.Sum(nil))
}
