package sink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/notifyguard/event"
)

func TestFeishuRichTextMarkdownWithoutAppCredentials(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, decodeJSONBody(r, &gotBody))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"code":0,"msg":"ok"}`))
	}))
	defer srv.Close()

	f := &Feishu{
		base:     newTestBase(t, "feishu", srv.URL),
		richText: true,
		limits:   defaultTestLimits(),
	}
	e := event.New("k", event.Info, "t").
		WithBody("hello [lark](https://open.feishu.cn)\n\n![img](https://example.com/a.png)").
		WithTag("thread_id", "t1")

	require.NoError(t, f.Send(context.Background(), e))

	raw, err := json.Marshal(gotBody)
	require.NoError(t, err)
	s := string(raw)

	assert.Equal(t, "post", gotBody["msg_type"])
	assert.Contains(t, s, `"tag":"a"`)
	assert.Contains(t, s, "[image:img] https://example.com/a.png")
	assert.Contains(t, s, "thread_id=t1")
	assert.True(t, strings.Contains(s, `"tag":"text"`))
}

func TestFeishuMissingCodeIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := &Feishu{base: newTestBase(t, "feishu", srv.URL), limits: defaultTestLimits()}
	err := f.Send(context.Background(), event.New("k", event.Info, "t"))
	assert.Error(t, err)
}

func TestFeishuSignsBodyWhenSecretConfigured(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, decodeJSONBody(r, &gotBody))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"code":0}`))
	}))
	defer srv.Close()

	f := &Feishu{base: newTestBase(t, "feishu", srv.URL), secret: "s3cr3t", limits: defaultTestLimits()}
	require.NoError(t, f.Send(context.Background(), event.New("k", event.Info, "t")))

	assert.NotEmpty(t, gotBody["timestamp"])
	assert.NotEmpty(t, gotBody["sign"])
}
