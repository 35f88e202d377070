// Package cryptoutil holds the one cryptographic primitive sinks need:
// HMAC-SHA256 signing for webhook providers that require it.
package cryptoutil

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// HMACSHA256Base64 returns the standard-alphabet, padded base64 encoding of
// HMAC-SHA256(key, message). Used by Feishu (message "{unix_seconds}\n{secret}")
// and DingTalk (message "{unix_millis}\n{secret}").
func HMACSHA256Base64(key, message string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
