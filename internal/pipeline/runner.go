package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edgewatch/edgewatch/internal/alert"
	"github.com/edgewatch/edgewatch/internal/logsource"
	"github.com/edgewatch/edgewatch/internal/metrics"
	"github.com/edgewatch/edgewatch/internal/store"
)

// Source fetches log entries for one check window.
type Source interface {
	Fetch(ctx context.Context, start, end time.Time, severities []string) ([]logsource.Entry, error)
}

// Notifier sends one notification for a qualifying entry.
type Notifier interface {
	Notify(ctx context.Context, e logsource.Entry) error
}

// Broadcaster pushes dispatched alerts to live stream subscribers.
type Broadcaster interface {
	Broadcast(rec store.Record)
}

// Settings is the per-check snapshot of the reloadable alerting policy.
type Settings struct {
	// Filter decides which entries qualify.
	Filter alert.Policy

	// StrictDelivery makes any failed send fail the whole check.
	StrictDelivery bool
}

// SettingsFunc returns the settings for the check about to run. It is called
// once per check so a config hot-reload takes effect on the next trigger.
type SettingsFunc func() Settings

// Summary is the outcome of one completed check.
type Summary struct {
	// CheckID identifies this invocation in logs and responses.
	CheckID string

	// Processed is the total number of entries fetched.
	Processed int

	// AlertsSent is the number of qualifying entries dispatched.
	AlertsSent int

	// DeliveryFailures is how many of those dispatches failed.
	DeliveryFailures int
}

// Runner executes checks. RunCheck is single-flight: concurrent triggers
// queue on an internal mutex so the tracker is never raced.
type Runner struct {
	src      Source
	notifier Notifier
	tracker  *Tracker
	settings SettingsFunc

	// Optional collaborators, assigned before the first check.
	History *store.Store
	Stream  Broadcaster
	Metrics *metrics.Registry

	mu sync.Mutex
}

// NewRunner wires a Runner from its required collaborators.
func NewRunner(src Source, notifier Notifier, tracker *Tracker, settings SettingsFunc) *Runner {
	return &Runner{
		src:      src,
		notifier: notifier,
		tracker:  tracker,
		settings: settings,
	}
}

// RunCheck performs one fetch → filter → notify pass.
//
// A fetch failure aborts the check and leaves the cursor unchanged. Once the
// fetch succeeds the cursor advances to the window end no matter how
// dispatch goes. Under strict delivery any failed send also fails the check;
// otherwise failures are only counted in the Summary.
func (r *Runner) RunCheck(ctx context.Context) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := Summary{CheckID: uuid.NewString()}
	start, end := r.tracker.Current()

	slog.Info("pipeline: check started",
		"check_id", sum.CheckID,
		"window_start", start.UTC().Format(time.RFC3339),
		"window_end", end.UTC().Format(time.RFC3339),
	)

	entries, err := r.src.Fetch(ctx, start, end, alert.Severities())
	if err != nil {
		if r.Metrics != nil {
			r.Metrics.RecordCheckFailure()
		}
		slog.Error("pipeline: fetch failed — window not advanced",
			"check_id", sum.CheckID, "err", err)
		return sum, fmt.Errorf("check %s: %w", sum.CheckID, err)
	}
	sum.Processed = len(entries)

	cfg := r.settings()
	var qualifying []logsource.Entry
	for _, e := range entries {
		if alert.ShouldAlert(e, cfg.Filter) {
			qualifying = append(qualifying, e)
		}
	}
	sum.AlertsSent = len(qualifying)

	// Per-entry outcomes are collected independently so one failed send
	// never hides the rest of the batch.
	outcomes := r.dispatch(ctx, qualifying)

	// The fetch covered [start, end), so the cursor moves to end even when
	// some sends failed. Those entries are skipped for good.
	r.tracker.Advance(end)

	for i, e := range qualifying {
		rec := store.Record{
			Entry:     e,
			CheckID:   sum.CheckID,
			Delivered: outcomes[i] == nil,
		}
		if outcomes[i] != nil {
			sum.DeliveryFailures++
			rec.Error = outcomes[i].Error()
			slog.Error("pipeline: notification failed",
				"check_id", sum.CheckID,
				"entry_id", e.ID,
				"origin", e.OriginID,
				"err", outcomes[i],
			)
		}
		if r.History != nil {
			r.History.Add(rec)
		}
		if r.Stream != nil {
			r.Stream.Broadcast(rec)
		}
	}

	if r.Metrics != nil {
		r.Metrics.RecordCheck(sum.Processed, sum.AlertsSent, sum.DeliveryFailures)
	}

	slog.Info("pipeline: check finished",
		"check_id", sum.CheckID,
		"processed", sum.Processed,
		"alerts_sent", sum.AlertsSent,
		"delivery_failures", sum.DeliveryFailures,
	)

	if cfg.StrictDelivery && sum.DeliveryFailures > 0 {
		return sum, fmt.Errorf("check %s: %d of %d notifications failed",
			sum.CheckID, sum.DeliveryFailures, sum.AlertsSent)
	}
	return sum, nil
}

// dispatch sends notifications for all entries concurrently and returns one
// outcome per entry, index-aligned with the input.
func (r *Runner) dispatch(ctx context.Context, entries []logsource.Entry) []error {
	outcomes := make([]error, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e logsource.Entry) {
			defer wg.Done()
			outcomes[i] = r.notifier.Notify(ctx, e)
		}(i, e)
	}
	wg.Wait()
	return outcomes
}
