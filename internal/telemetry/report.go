package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Summary is the persisted run report.
type Summary struct {
	SessionID        string  `json:"session_id"`
	StartedAt        string  `json:"started_at"`
	EndedAt          string  `json:"ended_at"`
	RuntimeSeconds   float64 `json:"runtime_seconds"`
	RuntimeFormatted string  `json:"runtime_formatted"`
	VectorSupport    bool    `json:"vector_support"`
	TimeoutSetting   string  `json:"timeout_setting"`
	Metrics          Metrics `json:"metrics"`
	TotalErrors      int     `json:"total_errors"`
	TotalWarnings    int     `json:"total_warnings"`
	TotalTimeouts    int     `json:"total_timeouts"`
}

// Detail is the persisted per-entry report.
type Detail struct {
	GeneratedAt   string         `json:"generated_at"`
	TotalErrors   int            `json:"total_errors"`
	TotalWarnings int            `json:"total_warnings"`
	TotalTimeouts int            `json:"total_timeouts"`
	Errors        []ErrorEntry   `json:"errors"`
	Warnings      []WarningEntry `json:"warnings"`
	Timeouts      []TimeoutEntry `json:"timeouts"`
}

// ReportOptions carries per-run context stamped into the summary.
type ReportOptions struct {
	SessionID     string
	VectorSupport bool
	StationBudget time.Duration
}

// Finish derives the summary and detail reports for the session so far.
func (w *Watchdog) Finish(opts ReportOptions) (Summary, Detail) {
	w.mu.Lock()
	defer w.mu.Unlock()

	end := w.now().UTC()
	runtime := end.Sub(w.started)

	summary := Summary{
		SessionID:        opts.SessionID,
		StartedAt:        w.started.Format(time.RFC3339),
		EndedAt:          end.Format(time.RFC3339),
		RuntimeSeconds:   runtime.Seconds(),
		RuntimeFormatted: formatRuntime(runtime),
		VectorSupport:    opts.VectorSupport,
		TimeoutSetting:   fmt.Sprintf("%s per station (no retry)", opts.StationBudget),
		Metrics:          w.metrics,
		TotalErrors:      len(w.errors),
		TotalWarnings:    len(w.warnings),
		TotalTimeouts:    len(w.timeouts),
	}

	detail := Detail{
		GeneratedAt:   end.Format(time.RFC3339),
		TotalErrors:   len(w.errors),
		TotalWarnings: len(w.warnings),
		TotalTimeouts: len(w.timeouts),
		Errors:        append([]ErrorEntry(nil), w.errors...),
		Warnings:      append([]WarningEntry(nil), w.warnings...),
		Timeouts:      append([]TimeoutEntry(nil), w.timeouts...),
	}

	return summary, detail
}

// WriteReports persists the summary and detail reports as indented JSON.
func WriteReports(summary Summary, detail Detail, summaryPath, detailPath string) error {
	if err := writeJSON(summaryPath, summary); err != nil {
		return fmt.Errorf("write summary report: %w", err)
	}
	if err := writeJSON(detailPath, detail); err != nil {
		return fmt.Errorf("write error report: %w", err)
	}
	return nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func formatRuntime(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}
