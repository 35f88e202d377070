package sink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/notifyguard/event"
)

func TestNewServerChanDetectsSC3FromSendKey(t *testing.T) {
	s, err := NewServerChan("sctp123tabcXYZ", DefaultTimeout)
	require := assert.New(t)
	require.NoError(err)
	require.Equal("123.push.ft07.com", s.base.url.Host)
}

func TestNewServerChanDefaultsToTurbo(t *testing.T) {
	s, err := NewServerChan("SCT123abc", DefaultTimeout)
	assert.NoError(t, err)
	assert.Equal(t, "sctapi.ftqq.com", s.base.url.Host)
}

func TestNewServerChanRejectsNonAlphanumericKey(t *testing.T) {
	_, err := NewServerChan("abc-123", DefaultTimeout)
	assert.Error(t, err)
}

func TestServerChanSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"code":0,"message":"ok"}`))
	}))
	defer srv.Close()

	s := &ServerChan{base: newTestBase(t, "serverchan", srv.URL), limits: defaultTestLimits()}
	assert.NoError(t, s.Send(context.Background(), event.New("k", event.Info, "t")))
}

func TestServerChanAcceptsErrnoField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"errno":0}`))
	}))
	defer srv.Close()

	s := &ServerChan{base: newTestBase(t, "serverchan", srv.URL), limits: defaultTestLimits()}
	assert.NoError(t, s.Send(context.Background(), event.New("k", event.Info, "t")))
}
