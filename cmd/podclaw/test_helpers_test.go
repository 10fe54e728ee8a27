package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"podclaw/internal/config"
	"podclaw/internal/storage"
	"podclaw/internal/subscription"
	"podclaw/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	downloads  string
	server     *testsupport.FeedServer
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "podclaw.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		downloads:  filepath.Join(base, "downloads"),
		server:     testsupport.NewFeedServer(t, testsupport.ThreeEpisodes()),
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	code := run(context.Background(), append(flags, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	return runCLI(t, args, e.configPath)
}

// mustRun runs a command and fails the test on a non-zero exit.
func (e *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, code := e.run(t, args...)
	if code != 0 {
		t.Fatalf("podclaw %s exited %d\nstdout: %s\nstderr: %s", strings.Join(args, " "), code, stdout, stderr)
	}
	return stdout
}

// initStorage creates an empty storage file.
func (e *cliTestEnv) initStorage(t *testing.T) {
	t.Helper()
	e.mustRun(t, "repair", "--confirm")
}

// addFoo registers the test feed as "foo" with extra flags.
func (e *cliTestEnv) addFoo(t *testing.T, interval string, extra ...string) {
	t.Helper()
	args := append([]string{"add", "foo", e.server.FeedURL(), e.downloads, interval}, extra...)
	e.mustRun(t, args...)
}

func (e *cliTestEnv) load(t *testing.T) subscription.Collection {
	t.Helper()
	c, err := storage.NewStore(e.cfg.StoragePath(), nil).Load()
	if err != nil {
		t.Fatalf("load storage: %v", err)
	}
	return c
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// requireOrder asserts that the substrings appear in output in the given order.
func requireOrder(t *testing.T, output string, substrs ...string) {
	t.Helper()
	pos := 0
	for _, substr := range substrs {
		idx := strings.Index(output[pos:], substr)
		if idx < 0 {
			t.Fatalf("expected %q after offset %d in:\n%s", substr, pos, output)
		}
		pos += idx + len(substr)
	}
}
