package telemetry

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAddIgnoresNonPositiveDeltas(t *testing.T) {
	w := New()
	w.Add(StationsSuccess, -5)
	w.Add(StationsSuccess, 0)
	if got := w.Snapshot().StationsSuccess; got != 0 {
		t.Fatalf("StationsSuccess = %d, want 0", got)
	}
}

func TestIncrementIsThreadSafe(t *testing.T) {
	w := New()
	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				w.Increment(LogosConverted)
				w.RecordWarning("station", "warn")
			}
		}()
	}
	wg.Wait()

	if got := w.Snapshot().LogosConverted; got != workers*perWorker {
		t.Fatalf("LogosConverted = %d, want %d", got, workers*perWorker)
	}
	_, warnings, _ := w.Counts()
	if warnings != workers*perWorker {
		t.Fatalf("warnings = %d, want %d", warnings, workers*perWorker)
	}
}

func TestRecordTimeoutCountsStation(t *testing.T) {
	w := New()
	w.RecordTimeout("Jazz FM", "logo", 30*time.Second)

	snap := w.Snapshot()
	if snap.StationsTimeout != 1 {
		t.Fatalf("StationsTimeout = %d, want 1", snap.StationsTimeout)
	}
	_, _, timeouts := w.Counts()
	if timeouts != 1 {
		t.Fatalf("timeout entries = %d, want 1", timeouts)
	}
}

func TestFinishReports(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	w := newWithClock(func() time.Time { return current })

	w.Increment(StationsTotal)
	w.RecordError("Jazz FM", "logo", "decode failed", errors.New("bad header"))
	w.RecordTimeout("Rock FM", "station_process", time.Minute)
	current = base.Add(95 * time.Second)

	summary, detail := w.Finish(ReportOptions{
		SessionID:     "abc-123",
		VectorSupport: true,
		StationBudget: time.Minute,
	})

	if summary.RuntimeFormatted != "1m 35s" {
		t.Errorf("RuntimeFormatted = %q", summary.RuntimeFormatted)
	}
	if summary.TotalErrors != 1 || summary.TotalTimeouts != 1 {
		t.Errorf("totals = %d errors %d timeouts", summary.TotalErrors, summary.TotalTimeouts)
	}
	if !strings.Contains(summary.TimeoutSetting, "no retry") {
		t.Errorf("TimeoutSetting = %q", summary.TimeoutSetting)
	}
	if summary.Metrics.StationsTimeout != 1 {
		t.Errorf("metrics snapshot StationsTimeout = %d", summary.Metrics.StationsTimeout)
	}

	if len(detail.Errors) != 1 || detail.Errors[0].Cause != "bad header" {
		t.Errorf("detail errors = %+v", detail.Errors)
	}
	if len(detail.Timeouts) != 1 || detail.Timeouts[0].Action != TimeoutAction {
		t.Errorf("detail timeouts = %+v", detail.Timeouts)
	}
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()
	summaryPath := filepath.Join(dir, "run_summary.json")
	detailPath := filepath.Join(dir, "error_report.json")

	w := New()
	w.Increment(StationsSuccess)
	summary, detail := w.Finish(ReportOptions{SessionID: "s"})

	if err := WriteReports(summary, detail, summaryPath, detailPath); err != nil {
		t.Fatalf("WriteReports: %v", err)
	}

	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("summary not valid JSON: %v", err)
	}
	metrics, ok := decoded["metrics"].(map[string]any)
	if !ok {
		t.Fatal("summary missing metrics object")
	}
	if metrics["stations_success"].(float64) != 1 {
		t.Errorf("stations_success = %v", metrics["stations_success"])
	}
}
