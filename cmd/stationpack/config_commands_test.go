package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("output missing target path:\n%s", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, key := range []string{"[paths]", "[directory]", "[budgets]", "[logos]", "[logging]"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("sample missing section %s", key)
		}
	}
}

func TestConfigInitRefusesExisting(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if strings.Contains(string(data), "# existing") {
		t.Error("overwrite kept the old contents")
	}
}

func TestConfigShowAndValidate(t *testing.T) {
	stub := newDirectoryStub(t)
	configPath, outputDir := writeTestConfig(t, stub.url())

	out, err := runCLI(t, "--config", configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, outputDir) {
		t.Errorf("show output missing output dir:\n%s", out)
	}

	out, err = runCLI(t, "--config", configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("validate output unexpected:\n%s", out)
	}
}

func TestRefsCommands(t *testing.T) {
	tests := []struct {
		sub  string
		want string
	}{
		{sub: "countries", want: "Netherlands"},
		{sub: "tags", want: "jazz"},
		{sub: "languages", want: "dutch"},
	}
	for _, tc := range tests {
		t.Run(tc.sub, func(t *testing.T) {
			out, err := runCLI(t, "refs", tc.sub)
			if err != nil {
				t.Fatalf("refs %s: %v", tc.sub, err)
			}
			if !strings.Contains(out, tc.want) {
				t.Errorf("refs %s output missing %q:\n%s", tc.sub, tc.want, out)
			}
			if !strings.Contains(out, "radio-browser.info") {
				t.Errorf("refs %s output missing reference URL", tc.sub)
			}
		})
	}
}

func TestHistoryEmptyLedger(t *testing.T) {
	stub := newDirectoryStub(t)
	configPath, _ := writeTestConfig(t, stub.url())

	out, err := runCLI(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No sessions recorded yet") {
		t.Errorf("unexpected history output:\n%s", out)
	}
}
