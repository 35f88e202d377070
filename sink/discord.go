package sink

import (
	"context"
	"time"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/textfmt"
)

// Discord posts to a Discord webhook (discord.com/api/webhooks/... or the
// legacy discordapp.com host).
type Discord struct {
	base   httpSinkBase
	limits textfmt.Limits
}

func NewDiscord(webhookURL string, timeout time.Duration) (*Discord, error) {
	base, err := newHTTPSinkBase("discord", webhookURL,
		[]string{"discord.com", "discordapp.com"}, "/api/webhooks/", timeout, true)
	if err != nil {
		return nil, err
	}
	return &Discord{base: base, limits: textfmt.DefaultLimits()}, nil
}

func (d *Discord) Name() string { return d.base.Name() }

func (d *Discord) Send(ctx context.Context, e event.Event) error {
	content := textfmt.FormatEventText(e, d.limits, true)
	resp, err := d.base.post(ctx, map[string]string{"content": content})
	if err != nil {
		return err
	}
	return checkHTTPSuccess(resp)
}
