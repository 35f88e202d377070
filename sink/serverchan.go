package sink

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/textfmt"
)

var (
	serverChanKeyRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	serverChanSC3Re = regexp.MustCompile(`^(?i)sctp(\d+)t`)
)

// ServerChan posts to a ServerChan Turbo (sctapi.ftqq.com) or SC3
// ({uid}.push.ft07.com) send-key endpoint, the variant determined entirely
// by the shape of the send key.
type ServerChan struct {
	base   httpSinkBase
	limits textfmt.Limits
}

func NewServerChan(sendKey string, timeout time.Duration) (*ServerChan, error) {
	if !serverChanKeyRe.MatchString(sendKey) {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig,
			"serverchan: send key must be ASCII alphanumeric")
	}

	var host string
	if m := serverChanSC3Re.FindStringSubmatch(sendKey); m != nil {
		host = fmt.Sprintf("%s.push.ft07.com", m[1])
	} else {
		host = "sctapi.ftqq.com"
	}

	u := &url.URL{Scheme: "https", Host: host, Path: fmt.Sprintf("/%s.send", sendKey)}
	base, err := newHTTPSinkBase("serverchan", u.String(), []string{host}, "", timeout, true)
	if err != nil {
		return nil, err
	}
	return &ServerChan{base: base, limits: textfmt.DefaultLimits()}, nil
}

func (s *ServerChan) Name() string { return s.base.Name() }

func (s *ServerChan) Send(ctx context.Context, e event.Event) error {
	payload := map[string]interface{}{
		"title": e.Title,
		"desp":  textfmt.FormatBodyAndTags(e, s.limits),
	}
	resp, err := s.base.post(ctx, payload)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return protocolErr(resp)
	}
	var decoded struct {
		Code  *int `json:"code"`
		Errno *int `json:"errno"`
	}
	if err := resp.DecodeJSON(&decoded); err != nil {
		return notifyerr.Wrap(err, notifyerr.CategoryProtocol, notifyerr.CodeDecode, "serverchan: invalid response body")
	}
	switch {
	case decoded.Code != nil && *decoded.Code == 0:
		return nil
	case decoded.Errno != nil && *decoded.Errno == 0:
		return nil
	case decoded.Code != nil:
		return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess,
			fmt.Sprintf("serverchan code %d", *decoded.Code))
	default:
		return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess, "serverchan: response missing code field")
	}
}
