// Package hub implements the central dispatcher (component C8): entry
// points notify/try_notify/send, the bounded-concurrency sink fan-out,
// per-sink timeouts, panic containment, and failure aggregation.
package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/logger"
	"github.com/kart-io/notifyguard/notifyerr"
	"github.com/kart-io/notifyguard/sink"
	"github.com/kart-io/notifyguard/telemetry"
)

const (
	// DefaultMaxSinkSendsInParallel bounds how many sinks of a single
	// event are in flight at once.
	DefaultMaxSinkSendsInParallel = 16
	// DefaultMaxInflightEvents bounds how many events the hub processes
	// concurrently across notify/try_notify/send.
	DefaultMaxInflightEvents = 128
	// DefaultPerSinkTimeout is the hard ceiling on a single sink send.
	DefaultPerSinkTimeout = 10 * time.Second

	// unknownSinkName is substituted when a sink's Name() itself panics
	// at construction time.
	unknownSinkName = "<unknown>"
)

// Config configures a Hub. The zero value is valid: Kinds empty allows
// every kind, and New fills in the remaining defaults.
type Config struct {
	// Kinds, when non-empty, is the allow-list of event kinds the hub
	// dispatches; any other kind is filtered (dropped silently, no log).
	Kinds []string
	// MaxSinkSendsInParallel bounds per-event sink concurrency. Defaults
	// to DefaultMaxSinkSendsInParallel when <= 0.
	MaxSinkSendsInParallel int
	// PerSinkTimeout bounds a single sink's send. Defaults to
	// DefaultPerSinkTimeout when <= 0.
	PerSinkTimeout time.Duration
	// Logger receives rejected/dropped-event and fan-out diagnostics.
	// Defaults to logger.Discard.
	Logger logger.Interface
	// EnableTelemetry turns on OpenTelemetry spans and counters for fan-out
	// and sink sends. Checked once at construction.
	EnableTelemetry bool
}

// TryNotifyErrorKind distinguishes the two non-logging rejection reasons
// try_notify can report.
type TryNotifyErrorKind int

const (
	// Overloaded means the in-flight permit semaphore had no free slot.
	Overloaded TryNotifyErrorKind = iota
	// Closed means the hub's Shutdown was already called.
	Closed
)

func (k TryNotifyErrorKind) String() string {
	switch k {
	case Overloaded:
		return "overloaded"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// TryNotifyError is returned by TryNotify instead of logging.
type TryNotifyError struct {
	Kind TryNotifyErrorKind
}

func (e *TryNotifyError) Error() string { return "try_notify: " + e.Kind.String() }

// Hub is the immutable config + sink vector + in-flight permit semaphore
// (runtime state, per spec §4.8). Construct with New or
// NewWithInflightLimit; a Hub is safe for concurrent use and must not be
// copied after first use.
type Hub struct {
	sinks          []sink.Sink
	sinkNames      []string            // cached at construction; see safeName
	kindAllow      map[string]struct{} // nil means allow all
	maxPerEvent    int
	perSinkTimeout time.Duration
	logger         logger.Interface
	telemetry      *telemetry.Provider

	permits chan struct{}
	closed  atomic.Bool
}

// New constructs a Hub with DefaultMaxInflightEvents in-flight event
// permits.
func New(cfg Config, sinks []sink.Sink) (*Hub, error) {
	return NewWithInflightLimit(cfg, sinks, DefaultMaxInflightEvents)
}

// NewWithInflightLimit constructs a Hub with an explicit in-flight event
// permit count (must be >= 1).
func NewWithInflightLimit(cfg Config, sinks []sink.Sink, maxInflightEvents int) (*Hub, error) {
	if maxInflightEvents < 1 {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig,
			"hub: max_inflight_events must be >= 1")
	}

	maxPerEvent := cfg.MaxSinkSendsInParallel
	if maxPerEvent <= 0 {
		maxPerEvent = DefaultMaxSinkSendsInParallel
	}
	perSinkTimeout := cfg.PerSinkTimeout
	if perSinkTimeout <= 0 {
		perSinkTimeout = DefaultPerSinkTimeout
	}
	l := cfg.Logger
	if l == nil {
		l = logger.Discard
	}

	tp, err := telemetry.New(telemetry.Config{Enabled: cfg.EnableTelemetry})
	if err != nil {
		return nil, notifyerr.Wrap(err, notifyerr.CategoryInternal, notifyerr.CodeInvalidConfig,
			"hub: failed to initialize telemetry")
	}

	var kindAllow map[string]struct{}
	if len(cfg.Kinds) > 0 {
		kindAllow = make(map[string]struct{}, len(cfg.Kinds))
		for _, k := range cfg.Kinds {
			kindAllow[k] = struct{}{}
		}
	}

	h := &Hub{
		sinks:          append([]sink.Sink(nil), sinks...),
		kindAllow:      kindAllow,
		maxPerEvent:    maxPerEvent,
		perSinkTimeout: perSinkTimeout,
		logger:         l,
		telemetry:      tp,
		permits:        make(chan struct{}, maxInflightEvents),
	}
	h.sinkNames = make([]string, len(h.sinks))
	for i, s := range h.sinks {
		h.sinkNames[i] = safeName(s)
	}
	return h, nil
}

// safeName obtains s.Name(), containing a panic from Name itself: a
// panicking Name degrades to "<unknown>" so the sink is still
// addressable in fan-out failure reporting.
func safeName(s sink.Sink) (name string) {
	defer func() {
		if recover() != nil {
			name = unknownSinkName
		}
	}()
	return s.Name()
}

func (h *Hub) kindEnabled(kind string) bool {
	if h.kindAllow == nil {
		return true
	}
	_, ok := h.kindAllow[kind]
	return ok
}

// Notify is fire-and-forget: silently dropped if the kind is disabled,
// logged-and-dropped if the hub is closed or overloaded, otherwise
// dispatched on a new goroutine whose error (if any) is logged.
func (h *Hub) Notify(e event.Event) {
	if !h.kindEnabled(e.Kind) {
		return
	}
	if h.closed.Load() {
		h.logger.Warn(context.Background(), "notify: hub closed, dropping event", "kind", e.Kind)
		return
	}
	select {
	case h.permits <- struct{}{}:
	default:
		h.logger.Warn(context.Background(), "notify: overloaded, dropping event", "kind", e.Kind)
		return
	}
	go func() {
		defer func() { <-h.permits }()
		if err := h.fanOut(context.Background(), e); err != nil {
			h.logger.Error(context.Background(), "notify: dispatch failed", "kind", e.Kind, "error", err)
		}
	}()
}

// TryNotify behaves like Notify but reports Overloaded/Closed instead of
// logging. Ok(nil) is returned when there are no sinks or the kind is
// disabled, even once the hub is closed.
func (h *Hub) TryNotify(e event.Event) error {
	if len(h.sinks) == 0 || !h.kindEnabled(e.Kind) {
		return nil
	}
	if h.closed.Load() {
		return &TryNotifyError{Kind: Closed}
	}
	select {
	case h.permits <- struct{}{}:
	default:
		return &TryNotifyError{Kind: Overloaded}
	}
	go func() {
		defer func() { <-h.permits }()
		if err := h.fanOut(context.Background(), e); err != nil {
			h.logger.Error(context.Background(), "try_notify: dispatch failed", "kind", e.Kind, "error", err)
		}
	}()
	return nil
}

// Send awaits a permit and the full fan-out, returning the aggregated
// failure (if any). Returns nil immediately when there are no sinks or
// the kind is disabled.
func (h *Hub) Send(ctx context.Context, e event.Event) error {
	if len(h.sinks) == 0 || !h.kindEnabled(e.Kind) {
		return nil
	}
	select {
	case h.permits <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-h.permits }()

	return h.fanOut(ctx, e)
}

// Shutdown marks the hub closed: subsequent Notify calls log-and-drop and
// TryNotify returns Closed. In-flight fan-outs already started are not
// cancelled.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.closed.Store(true)
	if h.telemetry != nil {
		return h.telemetry.Shutdown(ctx)
	}
	return nil
}

type sinkFailure = notifyerr.SinkFailure

// fanOut runs every sink's Send in windows of maxPerEvent concurrent
// sends, aggregating failures by original sink index.
func (h *Hub) fanOut(ctx context.Context, e event.Event) error {
	if e.ID == "" {
		e = e.WithID(uuid.NewString())
	}

	ctx, span := h.telemetry.StartFanOut(ctx, e.Kind)
	defer span.End()
	h.telemetry.RecordEventTotal(ctx, e.Kind)

	type result struct {
		failure *sinkFailure
	}

	results := make([]result, len(h.sinks))
	sem := make(chan struct{}, h.maxPerEvent)
	var wg sync.WaitGroup

	for i, s := range h.sinks {
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int, s sink.Sink) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx].failure = h.sendOne(ctx, idx, h.sinkNames[idx], s, e)
		}(i, s)
	}
	wg.Wait()

	var failures []sinkFailure
	for _, r := range results {
		if r.failure != nil {
			failures = append(failures, *r.failure)
			h.telemetry.RecordSinkFailure(ctx, r.failure.Name)
		}
	}

	agg := notifyerr.Aggregate(failures)
	if agg != nil {
		h.telemetry.SetSpanError(span, agg)
	} else {
		h.telemetry.SetSpanOK(span)
	}
	return agg
}

// sendOne runs a single sink's Send under the hub's per-sink timeout and a
// panic guard, returning a *sinkFailure on any error or nil on success. The
// send itself runs on its own goroutine so a hung sink can't block the
// timeout from firing; an unrecovered panic there would crash the process,
// so that goroutine recovers locally and reports the panic as an error.
func (h *Hub) sendOne(ctx context.Context, idx int, name string, s sink.Sink, e event.Event) (failure *sinkFailure) {
	sendCtx, span := h.telemetry.StartSinkSend(ctx, name)
	defer span.End()

	timeoutCtx, cancel := context.WithTimeout(sendCtx, h.perSinkTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if name == unknownSinkName {
					done <- errors.New("sink panicked")
					return
				}
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		done <- s.Send(timeoutCtx, e)
	}()

	select {
	case err := <-done:
		if err != nil {
			h.telemetry.SetSpanError(span, err)
			return &sinkFailure{Index: idx, Name: name, Err: err}
		}
		h.telemetry.SetSpanOK(span)
		return nil
	case <-timeoutCtx.Done():
		err := fmt.Errorf("timeout after %s", h.perSinkTimeout)
		h.telemetry.SetSpanError(span, err)
		return &sinkFailure{Index: idx, Name: name, Err: err}
	}
}
