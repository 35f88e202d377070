package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/httpsafe"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/textfmt"
)

const githubAPIHost = "api.github.com"

var githubOwnerRepoRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// GitHub posts a comment onto an existing issue via the REST API.
type GitHub struct {
	base   httpSinkBase
	token  string
	limits textfmt.Limits
}

func NewGitHubIssueComment(owner, repo string, issue int, token string, timeout time.Duration) (*GitHub, error) {
	if !githubOwnerRepoRe.MatchString(owner) {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig, "github: owner must match [A-Za-z0-9._-]+")
	}
	if !githubOwnerRepoRe.MatchString(repo) {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig, "github: repo must match [A-Za-z0-9._-]+")
	}
	if issue <= 0 {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig, "github: issue number must be > 0")
	}
	if token == "" {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeMissingConfig, "github: token must not be empty")
	}

	u := &url.URL{
		Scheme: "https",
		Host:   githubAPIHost,
		Path:   fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, issue),
	}
	base, err := newHTTPSinkBase("github", u.String(), []string{githubAPIHost}, "", timeout, true)
	if err != nil {
		return nil, err
	}
	return &GitHub{base: base, token: token, limits: textfmt.DefaultLimits()}, nil
}

func (g *GitHub) Name() string { return g.base.Name() }

func (g *GitHub) Send(ctx context.Context, e event.Event) error {
	client, err := g.base.client(ctx)
	if err != nil {
		return err
	}

	body := textfmt.FormatEventText(e, g.limits, true)
	encoded, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return notifyerr.Wrap(err, notifyerr.CategoryProtocol, notifyerr.CodeDecode, "github: failed to encode request payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base.url.String(), bytes.NewReader(encoded))
	if err != nil {
		return notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig, "github: failed to build request: "+err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "notifyguard")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := httpsafe.Do(client, req)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return protocolErr(resp)
	}
	return nil
}
