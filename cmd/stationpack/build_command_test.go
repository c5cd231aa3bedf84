package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"stationpack/internal/config"
	"stationpack/internal/dataset"
	"stationpack/internal/directory"
	"stationpack/internal/testsupport"
)

func TestResolveQuery(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name     string
		opts     buildOptions
		wantMode directory.Mode
		wantVal  string
		wantErr  bool
	}{
		{name: "default", opts: buildOptions{}, wantMode: directory.ModeAll},
		{name: "country uppercased", opts: buildOptions{country: "nl"}, wantMode: directory.ModeCountry, wantVal: "NL"},
		{name: "tag", opts: buildOptions{tag: "jazz"}, wantMode: directory.ModeTag, wantVal: "jazz"},
		{name: "language", opts: buildOptions{language: "dutch"}, wantMode: directory.ModeLanguage, wantVal: "dutch"},
		{name: "name", opts: buildOptions{name: "BBC"}, wantMode: directory.ModeName, wantVal: "BBC"},
		{name: "conflicting filters", opts: buildOptions{tag: "jazz", country: "NL"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, err := resolveQuery(tc.opts, &cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveQuery: %v", err)
			}
			if query.Mode != tc.wantMode || query.Value != tc.wantVal {
				t.Errorf("got %s=%q, want %s=%q", query.Mode, query.Value, tc.wantMode, tc.wantVal)
			}
			if query.Limit != cfg.Directory.Limit {
				t.Errorf("limit = %d, want config default %d", query.Limit, cfg.Directory.Limit)
			}
		})
	}
}

func TestResolveQueryLimitOverride(t *testing.T) {
	cfg := config.Default()
	query, err := resolveQuery(buildOptions{limit: 25}, &cfg)
	if err != nil {
		t.Fatalf("resolveQuery: %v", err)
	}
	if query.Limit != 25 {
		t.Errorf("limit = %d, want 25", query.Limit)
	}
}

// directoryStub is an in-process stand-in for the directory service. Its
// station batch can be swapped between runs; URLs are usually filled in
// after the server address is known.
type directoryStub struct {
	mu       sync.Mutex
	stations []directory.Station
	server   *httptest.Server
}

func newDirectoryStub(t *testing.T) *directoryStub {
	t.Helper()

	stub := &directoryStub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/json/stations/search", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		batch := append([]directory.Station(nil), stub.stations...)
		stub.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(batch); err != nil {
			t.Errorf("encode stations: %v", err)
		}
	})
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(testsupport.PNGLogo(t, 24, 24))
	})
	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *directoryStub) set(stations ...directory.Station) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations = stations
}

func (s *directoryStub) url() string { return s.server.URL }

func TestBuildCommandEndToEnd(t *testing.T) {
	stub := newDirectoryStub(t)
	stub.set(
		directory.Station{
			Name:     "Jazz FM!",
			URL:      stub.url() + "/stream",
			Favicon:  stub.url() + "/logo.png",
			Codec:    "MP3",
			Bitrate:  128,
			Tags:     "jazz",
			Language: "english",
			Country:  "Netherlands",
		},
		directory.Station{Name: "Static Only"},
	)

	configPath, outputDir := writeTestConfig(t, stub.url())

	out, err := runCLI(t, "--config", configPath, "build", "--tag", "jazz")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	ds, err := dataset.Load(cfg.DatasetPath())
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	if len(ds.Stations) != 1 {
		t.Fatalf("dataset records = %d, want 1", len(ds.Stations))
	}
	rec := ds.Stations[0]
	if rec.Name != "Jazz FM" {
		t.Errorf("record name = %q, want %q", rec.Name, "Jazz FM")
	}

	for _, rel := range []string{
		filepath.Join("RADIO", "Jazz FM.pls"),
		"radiostreams.csv",
		"run_summary.json",
		"error_report.json",
		"ledger.db",
	} {
		if _, err := os.Stat(filepath.Join(outputDir, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if !strings.Contains(out, "stations succeeded") {
		t.Errorf("summary table missing from output:\n%s", out)
	}
}

func TestBuildCommandMerge(t *testing.T) {
	stub := newDirectoryStub(t)
	stub.set(directory.Station{Name: "First", URL: "http://stream.example/one"})
	configPath, outputDir := writeTestConfig(t, stub.url())

	if out, err := runCLI(t, "--config", configPath, "build"); err != nil {
		t.Fatalf("first build: %v\n%s", err, out)
	}
	// The second run delivers the same stream plus one new station.
	stub.set(
		directory.Station{Name: "First", URL: "http://stream.example/one"},
		directory.Station{Name: "Second", URL: "http://stream.example/two"},
	)

	if out, err := runCLI(t, "--config", configPath, "build", "--merge"); err != nil {
		t.Fatalf("merged build: %v\n%s", err, out)
	}

	ds, err := dataset.Load(filepath.Join(outputDir, "station_data.json"))
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	if len(ds.Stations) != 2 {
		t.Fatalf("dataset records = %d, want 2 after merge", len(ds.Stations))
	}
	urls := map[string]bool{}
	for _, rec := range ds.Stations {
		urls[rec.Station] = true
	}
	if !urls["http://stream.example/one"] || !urls["http://stream.example/two"] {
		t.Errorf("merged dataset missing streams: %+v", urls)
	}
}

func TestBuildCommandZip(t *testing.T) {
	stub := newDirectoryStub(t)
	stub.set(directory.Station{Name: "Zipped", URL: "http://stream.example/z"})
	configPath, outputDir := writeTestConfig(t, stub.url())

	out, err := runCLI(t, "--config", configPath, "build", "--zip")
	if err != nil {
		t.Fatalf("build --zip: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "moode_radio_backup.zip")); err != nil {
		t.Errorf("missing archive: %v", err)
	}
	if !strings.Contains(out, "intact") {
		t.Errorf("archive report missing from output:\n%s", out)
	}
}
