package sink

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kart-io/notifyguard/cryptoutil"
	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/httpsafe"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/textfmt"
)

// DingTalk posts to a DingTalk custom-robot webhook, optionally HMAC-signing
// every request with a shared secret.
type DingTalk struct {
	base   httpSinkBase
	secret string
	limits textfmt.Limits
}

func NewDingTalk(webhookURL, secret string, timeout time.Duration) (*DingTalk, error) {
	base, err := newHTTPSinkBase("dingtalk", webhookURL, []string{"oapi.dingtalk.com"}, "/robot/send", timeout, true)
	if err != nil {
		return nil, err
	}
	// Strip any pre-existing timestamp/sign so signing always starts from a
	// clean slate, regardless of what the caller's URL already contained.
	q := base.url.Query()
	q.Del("timestamp")
	q.Del("sign")
	base.url.RawQuery = q.Encode()
	return &DingTalk{base: base, secret: secret, limits: textfmt.DefaultLimits()}, nil
}

func (d *DingTalk) Name() string { return d.base.Name() }

func (d *DingTalk) Send(ctx context.Context, e event.Event) error {
	u := *d.base.url
	if d.secret != "" {
		ts := time.Now().UnixMilli()
		sign := cryptoutil.HMACSHA256Base64(d.secret, fmt.Sprintf("%d\n%s", ts, d.secret))
		q := u.Query()
		q.Set("timestamp", strconv.FormatInt(ts, 10))
		q.Set("sign", sign)
		u.RawQuery = q.Encode()
	}

	content := textfmt.FormatEventText(e, d.limits, true)
	payload := map[string]interface{}{
		"msgtype": "text",
		"text":    map[string]string{"content": content},
	}

	client, err := d.base.client(ctx)
	if err != nil {
		return err
	}
	resp, err := httpsafe.PostJSON(ctx, client, &u, payload)
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
		return notifyerr.Wrap(err, notifyerr.CategoryProtocol, notifyerr.CodeDecode, "dingtalk: invalid response body")
	}
	if decoded.ErrCode != 0 {
		return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess,
			fmt.Sprintf("dingtalk errcode %d: %s", decoded.ErrCode, decoded.ErrMsg))
	}
	return nil
}
