// Package sink defines the sink capability (component C6) and the
// provider-specific sink instances (component C7): Slack, Discord,
// DingTalk, WeCom, Feishu, Telegram, Bark, PushPlus, ServerChan, a GitHub
// Issue comment sink, a generic webhook, and a non-HTTP terminal/command
// "sound" sink.
package sink

import (
	"context"

	"github.com/kart-io/notifyguard/event"
)

// Sink is a capability that delivers one event to one destination. Name
// must be cheap (no allocation expected) and stable for the lifetime of
// the sink; it is used verbatim in hub failure aggregation and logs.
// Send must not panic on ordinary inputs — the hub contains panics that
// escape anyway, but a well-behaved sink never relies on that.
type Sink interface {
	Name() string
	Send(ctx context.Context, e event.Event) error
}
