package httpsafe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/kart-io/notifyguard/notifyerr"
)

// DefaultMaxResponseBodyBytes caps how much of a response body is read into
// memory for inspection; anything beyond this is reported as oversize, never
// echoed.
const DefaultMaxResponseBodyBytes = 16 * 1024

const maxErrorBodyChars = 200
const maxDrainBytes = 64 * 1024

// Response is a size-capped, already-drained HTTP response: safe to hold
// onto and inspect without worrying about leaking connections.
type Response struct {
	StatusCode int
	Body       []byte
	Truncated  bool
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodeJSON unmarshals the captured body into v. If the body was truncated
// at the byte cap, decoding is refused with a "response body too large"
// error rather than attempting to parse a partial document.
func (r *Response) DecodeJSON(v interface{}) error {
	if r.Truncated {
		return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess, "response body too large")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return wrapTransportErr(err, notifyerr.CodeDecode, "invalid json response")
	}
	return nil
}

// Summary renders the response body the way error messages are allowed to:
// "response body too large" if it exceeded DefaultMaxResponseBodyBytes,
// "(response body omitted)" if empty, or the first 200 characters followed
// by a "[truncated]" marker on its own line if longer.
func (r *Response) Summary() string {
	if r.Truncated {
		return "response body too large"
	}
	text := strings.TrimSpace(string(r.Body))
	if text == "" {
		return "(response body omitted)"
	}
	runes := []rune(text)
	if len(runes) > maxErrorBodyChars {
		return string(runes[:maxErrorBodyChars]) + "\n[truncated]"
	}
	return text
}

// PostJSON issues one POST of payload (JSON-encoded) to u using client,
// returning a size-capped Response. Every transport-level failure is mapped
// to a sanitized category (timeout|connect|request|decode|unknown) so the
// error text never leaks URL structure.
func PostJSON(ctx context.Context, client *http.Client, u *url.URL, payload interface{}) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, wrapTransportErr(err, notifyerr.CodeDecode, "failed to encode request payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, newConfigErr("failed to build request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	return Do(client, req)
}

// Do issues req and reads up to DefaultMaxResponseBodyBytes of the
// response, draining and discarding the remainder (bounded by
// maxDrainBytes) so the connection stays eligible for keep-alive reuse.
func Do(client *http.Client, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, sanitizeTransportErr(err)
	}
	defer resp.Body.Close()

	data, truncated, err := readLimited(resp.Body, DefaultMaxResponseBodyBytes)
	if err != nil {
		return nil, wrapTransportErr(err, notifyerr.CodeRequest, "failed to read response body")
	}
	if truncated {
		_, _ = io.CopyN(io.Discard, resp.Body, maxDrainBytes)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data, Truncated: truncated}, nil
}

func readLimited(r io.Reader, limit int) (data []byte, truncated bool, err error) {
	buf := make([]byte, limit+1)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, false, err
	}
	if n > limit {
		return buf[:limit], true, nil
	}
	return buf[:n], false, nil
}

// sanitizeTransportErr maps a low-level transport failure to one of the
// sanitized categories the spec names: timeout, connect, request, decode,
// unknown. The returned error's short message never contains the request
// URL.
func sanitizeTransportErr(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return wrapTransportErr(err, notifyerr.CodeTransportTimeout, "timeout")
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return wrapTransportErr(err, notifyerr.CodeTransportTimeout, "timeout")
		}
		if opErr.Op == "dial" {
			return wrapTransportErr(err, notifyerr.CodeConnect, "connect")
		}
		return wrapTransportErr(err, notifyerr.CodeRequest, "request")
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return wrapTransportErr(err, notifyerr.CodeRequest, "request")
	}

	return wrapTransportErr(err, notifyerr.CodeUnknownTransport, "unknown")
}
