// Package notifyguard is a small, SSRF-safe notification fan-out library:
// one Event, many Sinks, a Hub that dispatches to all of them concurrently
// with a hard per-sink timeout and panic containment.
//
// Basic usage:
//
//	slack, err := sink.NewSlack("https://hooks.slack.com/services/X/Y/Z", sink.DefaultTimeout)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	h, err := notifyguard.New(notifyguard.Config{}, slack)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = h.Send(context.Background(), notifyguard.NewEvent("deploy.finished", notifyguard.SeveritySuccess, "done").
//		WithBody("all green").
//		WithTag("service", "api"))
//
// Environment bootstrap, for callers that configure sinks purely through
// OMNE_NOTIFY_* variables (see envhub):
//
//	h, err := notifyguard.FromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if h != nil {
//		h.Notify(notifyguard.NewEvent("job.failed", notifyguard.SeverityError, "build broke"))
//	}
package notifyguard

import (
	"github.com/kart-io/notifyguard/envhub"
	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/hub"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/sink"
)

// ================================
// Core type aliases
// ================================

type (
	// Event is the immutable notification value dispatched to every sink.
	Event = event.Event

	// Severity is an Event's strictly ordered notification level.
	Severity = event.Severity

	// Sink delivers one Event to one destination.
	Sink = sink.Sink

	// Hub is the central dispatcher: notify/try_notify/send over a fixed
	// sink vector, with bounded concurrency and failure aggregation.
	Hub = hub.Hub

	// Config configures a Hub.
	Config = hub.Config

	// TryNotifyError is returned by Hub.TryNotify instead of logging.
	TryNotifyError = hub.TryNotifyError

	// Error is notifyguard's opaque error wrapper.
	Error = notifyerr.Error
)

// Severity levels, re-exported for callers who don't want to import event
// directly.
const (
	SeverityInfo    = event.Info
	SeveritySuccess = event.Success
	SeverityWarning = event.Warning
	SeverityError   = event.Error
)

// TryNotify rejection kinds, re-exported from hub.
const (
	Overloaded = hub.Overloaded
	Closed     = hub.Closed
)

// ================================
// Event construction
// ================================

// NewEvent constructs an Event with an empty body and no tags.
func NewEvent(kind string, severity Severity, title string) Event {
	return event.New(kind, severity, title)
}

// ================================
// Hub construction
// ================================

// New constructs a Hub with hub.DefaultMaxInflightEvents in-flight
// permits.
func New(cfg Config, sinks ...Sink) (*Hub, error) {
	return hub.New(cfg, sinks)
}

// NewWithInflightLimit constructs a Hub with an explicit in-flight event
// permit count.
func NewWithInflightLimit(cfg Config, maxInflightEvents int, sinks ...Sink) (*Hub, error) {
	return hub.NewWithInflightLimit(cfg, sinks, maxInflightEvents)
}

// FromEnv bootstraps a Hub from the OMNE_NOTIFY_* environment variables
// (see envhub.Load). Returns (nil, nil) if no sink ends up configured.
func FromEnv() (*Hub, error) {
	return envhub.Load()
}

// FromYAML bootstraps a Hub from a YAML config file (see envhub.LoadYAML).
func FromYAML(path string) (*Hub, error) {
	cfg, sinks, err := envhub.LoadYAML(path)
	if err != nil {
		return nil, err
	}
	return hub.New(*cfg, sinks)
}
