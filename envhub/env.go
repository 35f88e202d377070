// Package envhub is the environment-variable bootstrap (component C10):
// reads the OMNE_NOTIFY_* variables and returns a ready Hub, or nothing if
// no sink is configured.
package envhub

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kart-io/notifyguard/hub"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/sink"
)

const (
	envSound            = "OMNE_NOTIFY_SOUND"
	envWebhookURL       = "OMNE_NOTIFY_WEBHOOK_URL"
	envWebhookField     = "OMNE_NOTIFY_WEBHOOK_FIELD"
	envFeishuWebhookURL = "OMNE_NOTIFY_FEISHU_WEBHOOK_URL"
	envSlackWebhookURL  = "OMNE_NOTIFY_SLACK_WEBHOOK_URL"
	envTimeoutMS        = "OMNE_NOTIFY_TIMEOUT_MS"
	envEvents           = "OMNE_NOTIFY_EVENTS"

	defaultTimeoutMS = 5000
)

// Load reads the OMNE_NOTIFY_* environment variables and returns a
// configured Hub. Returns (nil, nil) when no sink ends up configured, per
// spec: the bootstrap is opt-in, not a hard requirement.
func Load() (*hub.Hub, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*hub.Hub, error) {
	timeout, err := parseTimeoutMS(getenv(envTimeoutMS))
	if err != nil {
		return nil, err
	}

	var sinks []sink.Sink

	soundOn, err := parseBoolFlag(getenv(envSound))
	if err != nil {
		return nil, err
	}
	if soundOn {
		s, err := sink.NewSound()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if url := getenv(envWebhookURL); url != "" {
		field := getenv(envWebhookField)
		s, err := sink.NewWebhook(url, nil, field, timeout, true)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if url := getenv(envFeishuWebhookURL); url != "" {
		s, err := sink.NewFeishu(url, timeout)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if url := getenv(envSlackWebhookURL); url != "" {
		s, err := sink.NewSlack(url, timeout)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if len(sinks) == 0 {
		return nil, nil
	}

	cfg := hub.Config{
		Kinds:          parseEvents(getenv(envEvents)),
		PerSinkTimeout: timeout,
	}
	return hub.New(cfg, sinks)
}

// parseTimeoutMS parses OMNE_NOTIFY_TIMEOUT_MS, defaulting to 5000ms when
// unset and flooring at 1ms.
func parseTimeoutMS(raw string) (time.Duration, error) {
	if raw == "" {
		return defaultTimeoutMS * time.Millisecond, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return 0, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig,
			fmt.Sprintf("%s: not an integer: %q", envTimeoutMS, raw))
	}
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// parseBoolFlag implements the bool parsing spelled out in spec.md §6:
// 1/true/yes/on and 0/false/no/off, case-insensitive; unset is false;
// anything else is rejected.
func parseBoolFlag(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig,
			fmt.Sprintf("invalid bool value %q", raw))
	}
}

// parseEvents splits OMNE_NOTIFY_EVENTS into an allow-list; empty/unset
// means allow all (nil Kinds).
func parseEvents(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	kinds := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kinds = append(kinds, p)
		}
	}
	return kinds
}
