// Package telemetry aggregates per-session counters and failure logs.
//
// The Watchdog is the only state shared across guarded workers, so every
// read-modify-write is serialized behind a single mutex. Counters never
// decrease; error, warning, and timeout entries are append-only and keep
// their insertion order.
package telemetry

import (
	"sync"
	"time"
)

// TimeoutAction documents how timed-out work is handled.
const TimeoutAction = "skipped (no retry)"

// Metrics is the fixed counter set recorded for one session.
type Metrics struct {
	StationsTotal   int64 `json:"stations_total"`
	StationsSuccess int64 `json:"stations_success"`
	StationsFailed  int64 `json:"stations_failed"`
	StationsSkipped int64 `json:"stations_skipped"`
	StationsTimeout int64 `json:"stations_timeout"`
	StreamsFound    int64 `json:"streams_found"`
	PlaylistsMade   int64 `json:"pls_created"`
	LogosConverted  int64 `json:"logos_converted"`
	LogosSkipped    int64 `json:"logos_skipped"`
	LogosFailed     int64 `json:"logos_failed"`
	LogosTimeout    int64 `json:"logos_timeout"`
	VectorSkipped   int64 `json:"svg_skipped"`
}

// Counter names a single metric for increment calls.
type Counter int

const (
	StationsTotal Counter = iota
	StationsSuccess
	StationsFailed
	StationsSkipped
	StationsTimeout
	StreamsFound
	PlaylistsMade
	LogosConverted
	LogosSkipped
	LogosFailed
	LogosTimeout
	VectorSkipped
)

// ErrorEntry records one attributed failure.
type ErrorEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Station   string    `json:"station"`
	Phase     string    `json:"phase"`
	Message   string    `json:"message"`
	Cause     string    `json:"exception,omitempty"`
}

// WarningEntry records a non-fatal anomaly.
type WarningEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Station   string    `json:"station"`
	Message   string    `json:"message"`
}

// TimeoutEntry records guarded work that exceeded its budget.
type TimeoutEntry struct {
	Timestamp       time.Time `json:"timestamp"`
	Station         string    `json:"station"`
	Phase           string    `json:"phase"`
	DurationSeconds float64   `json:"duration_seconds"`
	Action          string    `json:"action"`
}

// Watchdog tracks session progress and failures for reporting.
type Watchdog struct {
	mu       sync.Mutex
	started  time.Time
	metrics  Metrics
	errors   []ErrorEntry
	warnings []WarningEntry
	timeouts []TimeoutEntry
	now      func() time.Time
}

// New creates a Watchdog whose session clock starts immediately.
func New() *Watchdog {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Watchdog {
	return &Watchdog{started: now().UTC(), now: now}
}

// Add increments the named counter by delta. Negative deltas are ignored;
// counters never decrease.
func (w *Watchdog) Add(counter Counter, delta int64) {
	if delta <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	switch counter {
	case StationsTotal:
		w.metrics.StationsTotal += delta
	case StationsSuccess:
		w.metrics.StationsSuccess += delta
	case StationsFailed:
		w.metrics.StationsFailed += delta
	case StationsSkipped:
		w.metrics.StationsSkipped += delta
	case StationsTimeout:
		w.metrics.StationsTimeout += delta
	case StreamsFound:
		w.metrics.StreamsFound += delta
	case PlaylistsMade:
		w.metrics.PlaylistsMade += delta
	case LogosConverted:
		w.metrics.LogosConverted += delta
	case LogosSkipped:
		w.metrics.LogosSkipped += delta
	case LogosFailed:
		w.metrics.LogosFailed += delta
	case LogosTimeout:
		w.metrics.LogosTimeout += delta
	case VectorSkipped:
		w.metrics.VectorSkipped += delta
	}
}

// Increment bumps the named counter by one.
func (w *Watchdog) Increment(counter Counter) { w.Add(counter, 1) }

// RecordError appends an attributed error entry.
func (w *Watchdog) RecordError(station, phase, message string, cause error) {
	entry := ErrorEntry{
		Timestamp: w.now().UTC(),
		Station:   station,
		Phase:     phase,
		Message:   message,
	}
	if cause != nil {
		entry.Cause = cause.Error()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errors = append(w.errors, entry)
}

// RecordWarning appends a warning entry.
func (w *Watchdog) RecordWarning(station, message string) {
	entry := WarningEntry{Timestamp: w.now().UTC(), Station: station, Message: message}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warnings = append(w.warnings, entry)
}

// RecordTimeout appends a timeout entry and counts the timed-out station.
// Timeouts are never retried.
func (w *Watchdog) RecordTimeout(station, phase string, duration time.Duration) {
	entry := TimeoutEntry{
		Timestamp:       w.now().UTC(),
		Station:         station,
		Phase:           phase,
		DurationSeconds: duration.Seconds(),
		Action:          TimeoutAction,
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timeouts = append(w.timeouts, entry)
	w.metrics.StationsTimeout++
}

// Snapshot returns a copy of the current metrics.
func (w *Watchdog) Snapshot() Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Counts returns the number of recorded errors, warnings, and timeouts.
func (w *Watchdog) Counts() (errors, warnings, timeouts int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.errors), len(w.warnings), len(w.timeouts)
}
