package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/textfmt"
)

// WeCom posts to a WeCom (Enterprise WeChat) group-robot webhook.
type WeCom struct {
	base   httpSinkBase
	limits textfmt.Limits
}

func NewWeCom(webhookURL string, timeout time.Duration) (*WeCom, error) {
	base, err := newHTTPSinkBase("wecom", webhookURL, []string{"qyapi.weixin.qq.com"}, "/cgi-bin/webhook/send", timeout, true)
	if err != nil {
		return nil, err
	}
	return &WeCom{base: base, limits: textfmt.DefaultLimits()}, nil
}

func (w *WeCom) Name() string { return w.base.Name() }

func (w *WeCom) Send(ctx context.Context, e event.Event) error {
	content := textfmt.FormatEventText(e, w.limits, true)
	payload := map[string]interface{}{
		"msgtype": "text",
		"text":    map[string]string{"content": content},
	}
	resp, err := w.base.post(ctx, payload)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return protocolErr(resp)
	}
	var decoded struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := resp.DecodeJSON(&decoded); err != nil {
		return notifyerr.Wrap(err, notifyerr.CategoryProtocol, notifyerr.CodeDecode, "wecom: invalid response body")
	}
	if decoded.ErrCode != 0 {
		return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess,
			fmt.Sprintf("wecom errcode %d: %s", decoded.ErrCode, decoded.ErrMsg))
	}
	return nil
}
