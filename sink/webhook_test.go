package sink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/notifyguard/event"
)

func TestWebhookSendSuccessWithCustomField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, decodeJSONBody(r, &body))
		assert.NotEmpty(t, body["message"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := &Webhook{base: newTestBase(t, "webhook", srv.URL), field: "message", limits: defaultTestLimits()}
	assert.NoError(t, w.Send(context.Background(), event.New("k", event.Info, "t")))
}

func TestNewWebhookRejectsDisablingPublicIPWithoutAllowedHosts(t *testing.T) {
	_, err := NewWebhook("https://example.com/hook", nil, "", DefaultTimeout, false)
	assert.Error(t, err)
}

func TestNewStrictWebhookRequiresPathPrefixAndAllowedHosts(t *testing.T) {
	_, err := NewStrictWebhook("https://example.com/hook", nil, "", "", DefaultTimeout)
	assert.Error(t, err)

	_, err = NewStrictWebhook("https://example.com/hook", nil, "/hook", "", DefaultTimeout)
	assert.Error(t, err)
}

// S8 — SSRF reject: construction against a raw private-range IP literal
// succeeds (syntactic validation only); send must fail at DNS/IP
// resolution instead, never reaching the network.
func TestWebhookConstructionSucceedsButSendRejectsPrivateIP(t *testing.T) {
	w, err := NewWebhook("https://10.0.0.1/hook", nil, "", DefaultTimeout, true)
	require.NoError(t, err)

	err = w.Send(context.Background(), event.New("k", event.Info, "t"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "resolved ip is not allowed")
}
