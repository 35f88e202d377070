package sink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/notifyguard/event"
)

func TestWeComSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}))
	defer srv.Close()

	s := &WeCom{base: newTestBase(t, "wecom", srv.URL), limits: defaultTestLimits()}
	assert.NoError(t, s.Send(context.Background(), event.New("k", event.Info, "hi")))
}

func TestWeComNonZeroErrCodeIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"errcode":93000,"errmsg":"invalid key"}`))
	}))
	defer srv.Close()

	s := &WeCom{base: newTestBase(t, "wecom", srv.URL), limits: defaultTestLimits()}
	assert.Error(t, s.Send(context.Background(), event.New("k", event.Info, "hi")))
}
