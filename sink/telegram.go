package sink

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/textfmt"
)

const telegramHost = "api.telegram.org"

// Telegram posts to a Telegram bot's sendMessage endpoint. The bot token is
// embedded in the URL path as one escaped path segment, so it cannot
// smuggle extra path segments, a query or a fragment.
type Telegram struct {
	base   httpSinkBase
	chatID string
	limits textfmt.Limits
}

func NewTelegram(token, chatID string, timeout time.Duration) (*Telegram, error) {
	if token == "" {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeMissingConfig, "telegram: token must not be empty")
	}
	if chatID == "" {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeMissingConfig, "telegram: chat_id must not be empty")
	}
	u := &url.URL{
		Scheme:  "https",
		Host:    telegramHost,
		Path:    "/bot" + token + "/sendMessage",
		RawPath: "/bot" + url.PathEscape(token) + "/sendMessage",
	}
	base, err := newHTTPSinkBase("telegram", u.String(), []string{telegramHost}, "", timeout, true)
	if err != nil {
		return nil, err
	}
	return &Telegram{base: base, chatID: chatID, limits: textfmt.DefaultLimits()}, nil
}

func (tg *Telegram) Name() string { return tg.base.Name() }

func (tg *Telegram) Send(ctx context.Context, e event.Event) error {
	text := textfmt.FormatEventText(e, tg.limits, true)
	payload := map[string]interface{}{
		"chat_id":                  tg.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	resp, err := tg.base.post(ctx, payload)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return protocolErr(resp)
	}
	var decoded struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := resp.DecodeJSON(&decoded); err != nil {
		return notifyerr.Wrap(err, notifyerr.CategoryProtocol, notifyerr.CodeDecode, "telegram: invalid response body")
	}
	if !decoded.OK {
		return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess,
			fmt.Sprintf("telegram: %s", decoded.Description))
	}
	return nil
}
