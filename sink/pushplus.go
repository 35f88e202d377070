package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/textfmt"
)

// PushPlus posts to the PushPlus (www.pushplus.plus) push gateway.
type PushPlus struct {
	base     httpSinkBase
	token    string
	channel  string
	template string
	topic    string
	limits   textfmt.Limits
}

func NewPushPlus(token string, timeout time.Duration) (*PushPlus, error) {
	if token == "" {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeMissingConfig, "pushplus: token must not be empty")
	}
	base, err := newHTTPSinkBase("pushplus", "https://www.pushplus.plus/send", []string{"www.pushplus.plus"}, "/send", timeout, true)
	if err != nil {
		return nil, err
	}
	return &PushPlus{base: base, token: token, limits: textfmt.DefaultLimits()}, nil
}

func (p *PushPlus) WithChannel(channel string) *PushPlus   { p.channel = channel; return p }
func (p *PushPlus) WithTemplate(template string) *PushPlus { p.template = template; return p }
func (p *PushPlus) WithTopic(topic string) *PushPlus       { p.topic = topic; return p }

func (p *PushPlus) Name() string { return p.base.Name() }

func (p *PushPlus) Send(ctx context.Context, e event.Event) error {
	payload := map[string]interface{}{
		"token":   p.token,
		"title":   e.Title,
		"content": textfmt.FormatBodyAndTags(e, p.limits),
	}
	if p.channel != "" {
		payload["channel"] = p.channel
	}
	if p.template != "" {
		payload["template"] = p.template
	}
	if p.topic != "" {
		payload["topic"] = p.topic
	}
	resp, err := p.base.post(ctx, payload)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return protocolErr(resp)
	}
	var decoded struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := resp.DecodeJSON(&decoded); err != nil {
		return notifyerr.Wrap(err, notifyerr.CategoryProtocol, notifyerr.CodeDecode, "pushplus: invalid response body")
	}
	if decoded.Code != 200 {
		return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess,
			fmt.Sprintf("pushplus code %d: %s", decoded.Code, decoded.Msg))
	}
	return nil
}
