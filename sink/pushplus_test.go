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

func TestPushPlusSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, decodeJSONBody(r, &body))
		assert.Equal(t, "tok1", body["token"])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"code":200,"msg":"success"}`))
	}))
	defer srv.Close()

	p := &PushPlus{base: newTestBase(t, "pushplus", srv.URL), token: "tok1", limits: defaultTestLimits()}
	assert.NoError(t, p.Send(context.Background(), event.New("k", event.Info, "t")))
}

func TestPushPlusNonSuccessCodeIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"code":500,"msg":"token invalid"}`))
	}))
	defer srv.Close()

	p := &PushPlus{base: newTestBase(t, "pushplus", srv.URL), token: "tok1", limits: defaultTestLimits()}
	assert.ErrorContains(t, p.Send(context.Background(), event.New("k", event.Info, "t")), "token invalid")
}
