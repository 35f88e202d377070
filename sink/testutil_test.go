package sink

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kart-io/notifyguard/httpsafe"
	"github.com/kart-io/notifyguard/textfmt"
)

// newTestBase builds an httpSinkBase pointed at an httptest server without
// running it through the public-webhook URL/host validation that every real
// constructor applies eagerly: httptest servers are plain-HTTP loopback
// addresses, which that validation exists specifically to reject.
func newTestBase(t *testing.T, name, rawURL string) httpSinkBase {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return httpSinkBase{
		name:    name,
		url:     u,
		timeout: DefaultTimeout,
		base:    httpsafe.NewBaseClient(DefaultTimeout),
	}
}

func decodeJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func defaultTestLimits() textfmt.Limits {
	return textfmt.DefaultLimits()
}
