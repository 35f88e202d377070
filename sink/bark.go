package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/textfmt"
)

// Bark posts to the Bark push-notification gateway at api.day.app; the
// endpoint is fixed, so self-hosted Bark servers are not supported.
type Bark struct {
	base      httpSinkBase
	deviceKey string
	group     string
	limits    textfmt.Limits
}

func NewBark(deviceKey string, timeout time.Duration) (*Bark, error) {
	if deviceKey == "" {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeMissingConfig, "bark: device_key must not be empty")
	}
	base, err := newHTTPSinkBase("bark", "https://api.day.app/push", []string{"api.day.app"}, "/push", timeout, true)
	if err != nil {
		return nil, err
	}
	return &Bark{base: base, deviceKey: deviceKey, limits: textfmt.DefaultLimits()}, nil
}

func (b *Bark) WithGroup(group string) *Bark {
	b.group = group
	return b
}

func (b *Bark) Name() string { return b.base.Name() }

func (b *Bark) Send(ctx context.Context, e event.Event) error {
	payload := map[string]interface{}{
		"device_key": b.deviceKey,
		"title":      e.Title,
		"body":       textfmt.FormatBodyAndTags(e, b.limits),
	}
	if b.group != "" {
		payload["group"] = b.group
	}
	resp, err := b.base.post(ctx, payload)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return protocolErr(resp)
	}
	var decoded struct {
		Code *int `json:"code"`
	}
	if err := resp.DecodeJSON(&decoded); err != nil {
		// Bark may answer 2xx with a non-JSON or empty body; that is still
		// success per the "if JSON" qualifier in the success criterion.
		return nil
	}
	if decoded.Code != nil && *decoded.Code != 200 {
		return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess,
			fmt.Sprintf("bark code %d", *decoded.Code))
	}
	return nil
}
