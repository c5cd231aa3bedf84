package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"stationpack/internal/testsupport"
)

// writeTestConfig renders a config file rooted in temp directories, with
// the directory service pointed at the given server.
func writeTestConfig(t *testing.T, server string) (string, string) {
	t.Helper()

	base := t.TempDir()
	outputDir := filepath.Join(base, "out")
	configPath := filepath.Join(base, "config.toml")
	contents := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q

[directory]
servers = [%q]
request_timeout = 5
limit = 10
request_delay_ms = 0

[budgets]
station_timeout = 5
logo_timeout = 2

[logos]
size = 64
thumb_size = 16

[logging]
level = "error"
`, outputDir, filepath.Join(base, "logs"), server)
	testsupport.WriteFile(t, configPath, []byte(contents))
	return configPath, outputDir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := runCLI(t, "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range []string{"build", "archive", "verify", "history", "refs", "config"} {
		if !bytes.Contains([]byte(out), []byte(name)) {
			t.Errorf("help output missing %q", name)
		}
	}
}
