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

func TestGitHubSendSuccessSetsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ghtok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	g := &GitHub{base: newTestBase(t, "github", srv.URL), token: "ghtok", limits: defaultTestLimits()}
	assert.NoError(t, g.Send(context.Background(), event.New("k", event.Info, "t")))
}

func TestNewGitHubIssueCommentValidatesOwnerRepoIssue(t *testing.T) {
	_, err := NewGitHubIssueComment("bad/owner", "repo", 1, "tok", DefaultTimeout)
	require.Error(t, err)

	_, err = NewGitHubIssueComment("owner", "repo", 0, "tok", DefaultTimeout)
	require.Error(t, err)

	_, err = NewGitHubIssueComment("owner", "repo", 1, "", DefaultTimeout)
	require.Error(t, err)
}
