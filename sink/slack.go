package sink

import (
	"context"
	"strings"
	"time"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/textfmt"
)

// Slack posts to a Slack incoming webhook (hooks.slack.com/services/...).
type Slack struct {
	base    httpSinkBase
	limits  textfmt.Limits
	nameTag string
}

// NewSlack validates webhookURL eagerly and returns a ready-to-use sink.
func NewSlack(webhookURL string, timeout time.Duration) (*Slack, error) {
	base, err := newHTTPSinkBase("slack", webhookURL, []string{"hooks.slack.com"}, "/services/", timeout, true)
	if err != nil {
		return nil, err
	}
	return &Slack{base: base, limits: textfmt.DefaultLimits()}, nil
}

func (s *Slack) Name() string { return s.base.Name() }

func (s *Slack) Send(ctx context.Context, e event.Event) error {
	text := textfmt.FormatEventText(e, s.limits, true)
	resp, err := s.base.post(ctx, map[string]string{"text": text})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return protocolErr(resp)
	}
	// Slack's webhook endpoint answers a bare "ok" body on success; an empty
	// body is also accepted, and anything else in a 2xx response is still
	// treated as a protocol failure.
	body := strings.ToLower(strings.TrimSpace(string(resp.Body)))
	if body != "" && body != "ok" {
		return protocolErr(resp)
	}
	return nil
}
