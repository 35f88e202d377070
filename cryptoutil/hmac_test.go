package cryptoutil

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSHA256Base64MatchesManualComputation(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("s3cr3t"))
	mac.Write([]byte("1700000000\ns3cr3t"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	got := HMACSHA256Base64("s3cr3t", "1700000000\ns3cr3t")
	assert.Equal(t, want, got)
}

func TestHMACSHA256Base64IsDeterministic(t *testing.T) {
	a := HMACSHA256Base64("key", "message")
	b := HMACSHA256Base64("key", "message")
	assert.Equal(t, a, b)
}

func TestHMACSHA256Base64DiffersOnKeyChange(t *testing.T) {
	a := HMACSHA256Base64("key1", "message")
	b := HMACSHA256Base64("key2", "message")
	assert.NotEqual(t, a, b)
}
