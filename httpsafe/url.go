package httpsafe

import (
	"net"
	"net/url"
	"strings"
)

// ValidateHTTPSURLBasic parses raw and enforces the scheme/credential/host/
// port rules every webhook sink shares, independent of any host allow-list:
// scheme must be https, no embedded username/password, host must be present
// and neither "localhost" nor an IP literal, and any explicit port must be
// 443.
func ValidateHTTPSURLBasic(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, newConfigErr("invalid url: " + err.Error())
	}
	if u.Scheme != "https" {
		return nil, newConfigErr("url scheme must be https")
	}
	if u.User != nil {
		return nil, newConfigErr("url must not contain credentials")
	}
	host := u.Hostname()
	if host == "" {
		return nil, newConfigErr("url must have a host")
	}
	if strings.EqualFold(host, "localhost") {
		return nil, newConfigErr("url host must not be localhost")
	}
	if net.ParseIP(host) != nil {
		return nil, newConfigErr("url host must not be an IP literal")
	}
	if port := u.Port(); port != "" && port != "443" {
		return nil, newConfigErr("url port must be 443 when present")
	}
	return u, nil
}

// ValidateHTTPSURL is ValidateHTTPSURLBasic plus ASCII-case-insensitive host
// membership in allowedHosts.
func ValidateHTTPSURL(raw string, allowedHosts []string) (*url.URL, error) {
	u, err := ValidateHTTPSURLBasic(raw)
	if err != nil {
		return nil, err
	}
	host := u.Hostname()
	for _, allowed := range allowedHosts {
		if strings.EqualFold(host, allowed) {
			return u, nil
		}
	}
	return nil, newConfigErr("url host " + RedactURL(u) + " is not in the allow-list")
}

// ValidateWebhookURL is the generic-webhook sink's syntactic check: https
// scheme, no credentials, a host, and port 443 if one is explicit — but
// unlike ValidateHTTPSURLBasic it does not reject "localhost" or an IP
// literal host. The generic webhook defers that judgment to send-time DNS
// resolution (ResolvePublicAddrs), which rejects non-public addresses
// whether they arrived as a literal or a resolved name. When allowedHosts
// is non-empty, the host must also be an ASCII-case-insensitive member.
func ValidateWebhookURL(raw string, allowedHosts []string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, newConfigErr("invalid url: " + err.Error())
	}
	if u.Scheme != "https" {
		return nil, newConfigErr("url scheme must be https")
	}
	if u.User != nil {
		return nil, newConfigErr("url must not contain credentials")
	}
	host := u.Hostname()
	if host == "" {
		return nil, newConfigErr("url must have a host")
	}
	if port := u.Port(); port != "" && port != "443" {
		return nil, newConfigErr("url port must be 443 when present")
	}
	if len(allowedHosts) == 0 {
		return u, nil
	}
	for _, allowed := range allowedHosts {
		if strings.EqualFold(host, allowed) {
			return u, nil
		}
	}
	return nil, newConfigErr("url host " + RedactURL(u) + " is not in the allow-list")
}

// ValidatePathPrefix matches prefix on a segment boundary. A prefix ending
// in "/" accepts any path starting with it; otherwise the path must equal
// the prefix exactly or continue with "/" (so "/send" matches "/send" and
// "/send/x" but not "/sendMessage").
func ValidatePathPrefix(u *url.URL, prefix string) error {
	path := u.EscapedPath()
	if strings.HasSuffix(prefix, "/") {
		if strings.HasPrefix(path, prefix) {
			return nil
		}
	} else if path == prefix || strings.HasPrefix(path, prefix+"/") {
		return nil
	}
	return newConfigErr("url path does not match required prefix " + prefix)
}

// RedactURL renders u as "scheme://host/<redacted>", the only form this
// package permits anywhere a token-bearing webhook URL might otherwise leak
// into logs or error text.
func RedactURL(u *url.URL) string {
	if u == nil {
		return "<redacted>"
	}
	return u.Scheme + "://" + u.Host + "/<redacted>"
}

// RedactURLString parses s and redacts it; unparsable input renders as
// "<redacted>". Redaction is idempotent: redacting an already-redacted
// string is a fixed point.
func RedactURLString(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "<redacted>"
	}
	return RedactURL(u)
}
