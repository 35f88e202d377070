package sink

import (
	"context"
	"time"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/textfmt"
)

// DefaultWebhookField is the payload field name used when the caller does
// not override it.
const DefaultWebhookField = "text"

// Webhook is a caller-configured generic HTTPS POST sink: any URL, any
// optional host allow-list, and a single JSON field carrying the shaped
// event text.
type Webhook struct {
	base   httpSinkBase
	field  string
	limits textfmt.Limits
}

// NewWebhook validates rawURL against allowedHosts (skipped when empty) and
// requires enforcePublicIP=true whenever allowedHosts is empty, since an
// unconstrained host with SSRF defenses off would let a caller's config
// reach arbitrary internal addresses.
func NewWebhook(rawURL string, allowedHosts []string, field string, timeout time.Duration, enforcePublicIP bool) (*Webhook, error) {
	if len(allowedHosts) == 0 && !enforcePublicIP {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig,
			"webhook: disabling public-ip enforcement requires a non-empty allowed_hosts")
	}
	if field == "" {
		field = DefaultWebhookField
	}
	base, err := newWebhookSinkBase("webhook", rawURL, allowedHosts, "", timeout, enforcePublicIP)
	if err != nil {
		return nil, err
	}
	return &Webhook{base: base, field: field, limits: textfmt.DefaultLimits()}, nil
}

// NewStrictWebhook additionally requires a path prefix, a non-empty
// allow-list, and public-IP enforcement on — the "strict" constructor
// variant for callers who want the tightest possible generic-webhook config.
func NewStrictWebhook(rawURL string, allowedHosts []string, pathPrefix, field string, timeout time.Duration) (*Webhook, error) {
	if pathPrefix == "" {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig, "webhook: strict constructor requires a path_prefix")
	}
	if len(allowedHosts) == 0 {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig, "webhook: strict constructor requires a non-empty allowed_hosts")
	}
	if field == "" {
		field = DefaultWebhookField
	}
	base, err := newWebhookSinkBase("webhook", rawURL, allowedHosts, pathPrefix, timeout, true)
	if err != nil {
		return nil, err
	}
	return &Webhook{base: base, field: field, limits: textfmt.DefaultLimits()}, nil
}

func (w *Webhook) Name() string { return w.base.Name() }

func (w *Webhook) Send(ctx context.Context, e event.Event) error {
	text := textfmt.FormatEventText(e, w.limits, true)
	resp, err := w.base.post(ctx, map[string]string{w.field: text})
	if err != nil {
		return err
	}
	return checkHTTPSuccess(resp)
}
