package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/kart-io/notifyguard/cryptoutil"
	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/httpsafe"
	"github.com/kart-io/notifyguard/mdshape"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/textfmt"
)

const (
	feishuTokenEndpoint = "https://open.feishu.cn/open-apis/auth/v3/tenant_access_token/internal"
	feishuImageEndpoint = "https://open.feishu.cn/open-apis/im/v1/images"
	feishuTokenFloor    = 60 * time.Second
)

// Feishu posts to a Feishu/Lark group-bot webhook. With an HMAC secret it
// signs the body; with WithFeishuRichText it renders the body as a
// rich-text "post" message, and with app credentials it also uploads any
// referenced images first (without them, images are sent as text).
type Feishu struct {
	base      httpSinkBase
	secret    string
	appID     string
	appSecret string
	richText  bool
	limits    textfmt.Limits

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time
}

// FeishuOption configures optional Feishu behavior.
type FeishuOption func(*Feishu)

func WithFeishuSecret(secret string) FeishuOption {
	return func(f *Feishu) { f.secret = secret }
}

func WithFeishuAppCredentials(appID, appSecret string) FeishuOption {
	return func(f *Feishu) { f.appID, f.appSecret = appID, appSecret }
}

func WithFeishuRichText(on bool) FeishuOption {
	return func(f *Feishu) { f.richText = on }
}

func NewFeishu(webhookURL string, timeout time.Duration, opts ...FeishuOption) (*Feishu, error) {
	base, err := newHTTPSinkBase("feishu", webhookURL,
		[]string{"open.feishu.cn", "open.larksuite.com"}, "/open-apis/bot/v2/hook/", timeout, true)
	if err != nil {
		return nil, err
	}
	f := &Feishu{base: base, limits: textfmt.DefaultLimits()}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// NewStrictFeishu validates that the webhook host resolves to a public IP
// address at construction time rather than deferring the surprise to the
// first send. It rejects enforcePublicIP=false and otherwise behaves like
// NewStrictFeishuAsync; it does not detect or refuse any calling context.
func NewStrictFeishu(ctx context.Context, webhookURL string, timeout time.Duration, enforcePublicIP bool, opts ...FeishuOption) (*Feishu, error) {
	if !enforcePublicIP {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig,
			"strict feishu constructor requires enforce_public_ip=true")
	}
	return NewStrictFeishuAsync(ctx, webhookURL, timeout, opts...)
}

// NewStrictFeishuAsync is NewStrictFeishu without the enforcePublicIP
// argument: it builds the sink and resolves the webhook host to public IP
// addresses before returning.
func NewStrictFeishuAsync(ctx context.Context, webhookURL string, timeout time.Duration, opts ...FeishuOption) (*Feishu, error) {
	f, err := NewFeishu(webhookURL, timeout, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := f.base.client(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Feishu) Name() string { return f.base.Name() }

func (f *Feishu) Send(ctx context.Context, e event.Event) error {
	payload, err := f.buildPayload(ctx, e)
	if err != nil {
		return err
	}
	resp, err := f.base.post(ctx, payload)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return protocolErr(resp)
	}
	return checkFeishuBody(resp)
}

func (f *Feishu) buildPayload(ctx context.Context, e event.Event) (map[string]interface{}, error) {
	var payload map[string]interface{}
	if f.richText {
		post, err := f.buildRichTextPost(ctx, e)
		if err != nil {
			return nil, err
		}
		payload = map[string]interface{}{
			"msg_type": "post",
			"content": map[string]interface{}{
				"post": map[string]interface{}{
					"zh_cn": post,
				},
			},
		}
	} else {
		text := textfmt.FormatEventText(e, f.limits, true)
		payload = map[string]interface{}{
			"msg_type": "text",
			"content":  map[string]string{"text": text},
		}
	}
	if f.secret != "" {
		ts := time.Now().Unix()
		sign := cryptoutil.HMACSHA256Base64(f.secret, fmt.Sprintf("%d\n%s", ts, f.secret))
		payload["timestamp"] = strconv.FormatInt(ts, 10)
		payload["sign"] = sign
	}
	return payload, nil
}

func (f *Feishu) buildRichTextPost(ctx context.Context, e event.Event) (map[string]interface{}, error) {
	title := e.Title
	var rows [][]map[string]interface{}

	lines := mdshape.Parse(e.Body)
	for _, line := range lines {
		var row []map[string]interface{}
		for _, inl := range line {
			switch inl.Kind {
			case mdshape.KindText:
				row = append(row, map[string]interface{}{"tag": "text", "text": inl.Text})
			case mdshape.KindLink:
				row = append(row, map[string]interface{}{"tag": "a", "text": inl.Text, "href": inl.Href})
			case mdshape.KindImage:
				if key, err := f.tryUploadImage(ctx, inl.Src); err == nil {
					row = append(row, map[string]interface{}{"tag": "img", "image_key": key})
				} else {
					row = append(row, map[string]interface{}{
						"tag":  "text",
						"text": fmt.Sprintf("[image:%s] %s", inl.Alt, inl.Src),
					})
				}
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	for _, tag := range e.Tags() {
		rows = append(rows, []map[string]interface{}{
			{"tag": "text", "text": fmt.Sprintf("%s=%s", tag.Key, tag.Value)},
		})
	}

	return map[string]interface{}{"title": title, "content": rows}, nil
}

// tryUploadImage uploads the image at src to Feishu's image API and returns
// its image_key. Without app credentials (or on any upload failure) the
// caller falls back to a plain-text row.
func (f *Feishu) tryUploadImage(ctx context.Context, src string) (string, error) {
	if f.appID == "" || f.appSecret == "" {
		return "", errors.New("feishu: no app credentials configured for image upload")
	}
	token, err := f.tenantAccessToken(ctx)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(src)
	if err != nil {
		return "", err
	}
	client, err := httpsafe.SelectHTTPClient(ctx, httpsafe.NewBaseClient(f.base.timeout), f.base.timeout, u, true)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", err
	}
	imgResp, err := httpsafe.Do(client, req)
	if err != nil {
		return "", err
	}
	if !imgResp.IsSuccess() {
		return "", fmt.Errorf("feishu: fetching image failed: %s", imgResp.Summary())
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("image_type", "message")
	part, err := mw.CreateFormFile("image", "image")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, bytes.NewReader(imgResp.Body)); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	uploadReq, err := http.NewRequestWithContext(ctx, http.MethodPost, feishuImageEndpoint, &body)
	if err != nil {
		return "", err
	}
	uploadReq.Header.Set("Content-Type", mw.FormDataContentType())
	uploadReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpsafe.Do(f.base.base, uploadReq)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("feishu: image upload failed: %s", resp.Summary())
	}
	var decoded struct {
		Code int `json:"code"`
		Data struct {
			ImageKey string `json:"image_key"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&decoded); err != nil {
		return "", err
	}
	if decoded.Code != 0 || decoded.Data.ImageKey == "" {
		return "", fmt.Errorf("feishu: image upload returned code %d", decoded.Code)
	}
	return decoded.Data.ImageKey, nil
}

func (f *Feishu) tenantAccessToken(ctx context.Context) (string, error) {
	f.tokenMu.Lock()
	defer f.tokenMu.Unlock()

	if f.token != "" && time.Now().Before(f.tokenExpiry) {
		return f.token, nil
	}

	tokenURL, err := url.Parse(feishuTokenEndpoint)
	if err != nil {
		return "", err
	}
	payload := map[string]string{"app_id": f.appID, "app_secret": f.appSecret}
	resp, err := httpsafe.PostJSON(ctx, f.base.base, tokenURL, payload)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("feishu: tenant token request failed: %s", resp.Summary())
	}
	var decoded struct {
		Code              int    `json:"code"`
		Msg               string `json:"msg"`
		TenantAccessToken string `json:"tenant_access_token"`
		Expire            int    `json:"expire"`
	}
	if err := resp.DecodeJSON(&decoded); err != nil {
		return "", err
	}
	if decoded.Code != 0 || decoded.TenantAccessToken == "" {
		return "", fmt.Errorf("feishu: tenant token error %d: %s", decoded.Code, decoded.Msg)
	}
	ttl := time.Duration(decoded.Expire)*time.Second - feishuTokenFloor
	if ttl < feishuTokenFloor {
		ttl = feishuTokenFloor
	}
	f.token = decoded.TenantAccessToken
	f.tokenExpiry = time.Now().Add(ttl)
	return f.token, nil
}

// checkFeishuBody applies the "code == 0 (also accept StatusCode == 0);
// missing code is an error" success rule.
func checkFeishuBody(resp *httpsafe.Response) error {
	var decoded struct {
		Code       *int `json:"code"`
		StatusCode *int `json:"StatusCode"`
	}
	if err := resp.DecodeJSON(&decoded); err != nil {
		return notifyerr.Wrap(err, notifyerr.CategoryProtocol, notifyerr.CodeDecode, "feishu: invalid response body")
	}
	switch {
	case decoded.Code != nil && *decoded.Code == 0:
		return nil
	case decoded.StatusCode != nil && *decoded.StatusCode == 0:
		return nil
	case decoded.Code != nil:
		return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess,
			fmt.Sprintf("feishu code %d: %s", *decoded.Code, resp.Summary()))
	default:
		return notifyerr.New(notifyerr.CategoryProtocol, notifyerr.CodeNonSuccess, "feishu: response missing code field")
	}
}
