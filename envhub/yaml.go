package envhub

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kart-io/notifyguard/hub"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/sink"
)

// yamlDoc is the on-disk shape for the YAML bootstrap (component C10's
// domain-stack addition): the same field set as the env-var table in
// spec.md §6, plus a sinks list keyed by provider type.
type yamlDoc struct {
	TimeoutMS int        `yaml:"timeout_ms"`
	Events    []string   `yaml:"events"`
	Sinks     []yamlSink `yaml:"sinks"`
}

// yamlSink is one entry of the sinks list; fields not used by Type are
// simply left zero.
type yamlSink struct {
	Type string `yaml:"type"`

	// Shared HTTP sink fields.
	WebhookURL string `yaml:"webhook_url"`
	URL        string `yaml:"url"`
	Field      string `yaml:"field"`
	Secret     string `yaml:"secret"`

	// Telegram.
	Token  string `yaml:"token"`
	ChatID string `yaml:"chat_id"`

	// Bark.
	DeviceKey string `yaml:"device_key"`
	Group     string `yaml:"group"`

	// PushPlus.
	Channel  string `yaml:"channel"`
	Template string `yaml:"template"`
	Topic    string `yaml:"topic"`

	// ServerChan.
	SendKey string `yaml:"send_key"`

	// GitHub issue comment.
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
	Issue int    `yaml:"issue"`

	// Feishu app credentials (optional).
	AppID     string `yaml:"app_id"`
	AppSecret string `yaml:"app_secret"`
	RichText  bool   `yaml:"rich_text"`
}

// LoadYAML reads a config file and returns the Hub config plus the
// constructed sinks, for callers who prefer a file over env vars. This is
// additive: the env-var bootstrap (Load) remains the primary path.
func LoadYAML(path string) (*hub.Config, []sink.Sink, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, notifyerr.Wrap(err, notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig,
			fmt.Sprintf("envhub: failed to read %s", path))
	}

	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, notifyerr.Wrap(err, notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig,
			"envhub: invalid yaml")
	}

	timeout := time.Duration(doc.TimeoutMS) * time.Millisecond
	if doc.TimeoutMS <= 0 {
		timeout = defaultTimeoutMS * time.Millisecond
	}

	sinks := make([]sink.Sink, 0, len(doc.Sinks))
	for _, s := range doc.Sinks {
		built, err := buildYAMLSink(s, timeout)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, built)
	}

	cfg := &hub.Config{Kinds: doc.Events, PerSinkTimeout: timeout}
	return cfg, sinks, nil
}

func buildYAMLSink(s yamlSink, timeout time.Duration) (sink.Sink, error) {
	switch s.Type {
	case "slack":
		return sink.NewSlack(s.WebhookURL, timeout)
	case "discord":
		return sink.NewDiscord(s.WebhookURL, timeout)
	case "dingtalk":
		return sink.NewDingTalk(s.WebhookURL, s.Secret, timeout)
	case "wecom":
		return sink.NewWeCom(s.WebhookURL, timeout)
	case "feishu":
		opts := []sink.FeishuOption{}
		if s.Secret != "" {
			opts = append(opts, sink.WithFeishuSecret(s.Secret))
		}
		if s.AppID != "" && s.AppSecret != "" {
			opts = append(opts, sink.WithFeishuAppCredentials(s.AppID, s.AppSecret))
		}
		if s.RichText {
			opts = append(opts, sink.WithFeishuRichText(true))
		}
		return sink.NewFeishu(s.WebhookURL, timeout, opts...)
	case "telegram":
		return sink.NewTelegram(s.Token, s.ChatID, timeout)
	case "bark":
		b, err := sink.NewBark(s.DeviceKey, timeout)
		if err != nil {
			return nil, err
		}
		if s.Group != "" {
			b = b.WithGroup(s.Group)
		}
		return b, nil
	case "pushplus":
		p, err := sink.NewPushPlus(s.Token, timeout)
		if err != nil {
			return nil, err
		}
		if s.Channel != "" {
			p = p.WithChannel(s.Channel)
		}
		if s.Template != "" {
			p = p.WithTemplate(s.Template)
		}
		if s.Topic != "" {
			p = p.WithTopic(s.Topic)
		}
		return p, nil
	case "serverchan":
		return sink.NewServerChan(s.SendKey, timeout)
	case "github":
		return sink.NewGitHubIssueComment(s.Owner, s.Repo, s.Issue, s.Token, timeout)
	case "webhook":
		field := s.Field
		return sink.NewWebhook(s.URL, nil, field, timeout, true)
	case "sound":
		return sink.NewSound()
	default:
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig,
			fmt.Sprintf("envhub: unknown sink type %q", s.Type))
	}
}
