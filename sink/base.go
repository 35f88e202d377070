package sink

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kart-io/notifyguard/httpsafe"
	"github.com/kart-io/notifyguard/notifyerr"
)

// DefaultTimeout is used when a caller doesn't specify one.
const DefaultTimeout = 5 * time.Second

// httpSinkBase carries the validated URL and client-selection policy every
// HTTPS sink shares: URL/host/path validation happened once, eagerly, at
// construction (spec.md's "fail fast" lifecycle rule).
type httpSinkBase struct {
	name            string
	url             *url.URL
	timeout         time.Duration
	enforcePublicIP bool
	base            *http.Client
}

// newHTTPSinkBase validates rawURL against allowedHosts and pathPrefix
// (pathPrefix == "" skips the prefix check, for sinks like Telegram/GitHub
// whose path is built programmatically rather than supplied by the caller)
// and constructs the base (non-pinned) client eagerly.
func newHTTPSinkBase(name, rawURL string, allowedHosts []string, pathPrefix string, timeout time.Duration, enforcePublicIP bool) (httpSinkBase, error) {
	var u *url.URL
	var err error
	if len(allowedHosts) > 0 {
		u, err = httpsafe.ValidateHTTPSURL(rawURL, allowedHosts)
	} else {
		u, err = httpsafe.ValidateHTTPSURLBasic(rawURL)
	}
	if err != nil {
		return httpSinkBase{}, err
	}
	if pathPrefix != "" {
		if err := httpsafe.ValidatePathPrefix(u, pathPrefix); err != nil {
			return httpSinkBase{}, err
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return httpSinkBase{
		name:            name,
		url:             u,
		timeout:         timeout,
		enforcePublicIP: enforcePublicIP,
		base:            httpsafe.NewBaseClient(timeout),
	}, nil
}

// newWebhookSinkBase is newHTTPSinkBase's counterpart for the generic
// webhook sink: it validates rawURL with ValidateWebhookURL, which (unlike
// every provider sink's validation) does not reject an IP-literal or
// "localhost" host at construction time. SSRF defense against such hosts
// still applies in full at send time via DNS/IP resolution.
func newWebhookSinkBase(name, rawURL string, allowedHosts []string, pathPrefix string, timeout time.Duration, enforcePublicIP bool) (httpSinkBase, error) {
	u, err := httpsafe.ValidateWebhookURL(rawURL, allowedHosts)
	if err != nil {
		return httpSinkBase{}, err
	}
	if pathPrefix != "" {
		if err := httpsafe.ValidatePathPrefix(u, pathPrefix); err != nil {
			return httpSinkBase{}, err
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return httpSinkBase{
		name:            name,
		url:             u,
		timeout:         timeout,
		enforcePublicIP: enforcePublicIP,
		base:            httpsafe.NewBaseClient(timeout),
	}, nil
}

func (b httpSinkBase) Name() string { return b.name }

func (b httpSinkBase) client(ctx context.Context) (*http.Client, error) {
	return httpsafe.SelectHTTPClient(ctx, b.base, b.timeout, b.url, b.enforcePublicIP)
}

func (b httpSinkBase) post(ctx context.Context, payload interface{}) (*httpsafe.Response, error) {
	client, err := b.client(ctx)
	if err != nil {
		return nil, err
	}
	return httpsafe.PostJSON(ctx, client, b.url, payload)
}

// checkHTTPSuccess is the shared "HTTP 2xx" success criterion; providers
// needing a decoded JSON status code check it additionally.
func checkHTTPSuccess(resp *httpsafe.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return protocolErr(resp)
}

func protocolErr(resp *httpsafe.Response) error {
	return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess,
		fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, resp.Summary()))
}
