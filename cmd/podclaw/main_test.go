package main

import (
	"os"
	"path/filepath"
	"testing"

	"podclaw/internal/testsupport"
)

func TestNoCommandPrintsGuidanceAndSucceeds(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, code := env.run(t)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	requireContains(t, stdout, "[#] No commands provided.")
	requireContains(t, stdout, "Usage:")
}

func TestUnknownCommandFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, stderr, code := env.run(t, "frobnicate")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "[!]")
}

func TestArgumentErrorsFail(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)

	for _, args := range [][]string{
		{"add", "foo"},
		{"get", "foo"},
		{"add", "foo", env.server.FeedURL(), env.downloads, "soon"},
		{"get", "foo", "-1"},
	} {
		if _, _, code := env.run(t, args...); code != 1 {
			t.Errorf("%v: expected exit 1, got %d", args, code)
		}
	}
}

func TestMissingStorageDirectsToRepair(t *testing.T) {
	env := setupCLITestEnv(t)

	_, stderr, code := env.run(t, "list")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "[!] Storage seems invalid. Try running the 'repair' command!")
}

func TestCorruptedStorageStopsEveryCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24")
	if err := os.WriteFile(env.cfg.StoragePath(), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("corrupt storage: %v", err)
	}

	for _, args := range [][]string{{"list"}, {"get", "foo", "0"}, {"lock", "foo"}, {"remove", "foo"}} {
		_, stderr, code := env.run(t, args...)
		if code != 1 {
			t.Errorf("%v: expected exit 1, got %d", args, code)
		}
		requireContains(t, stderr, "Try running the 'repair' command!")
	}
	if names := testsupport.ListDir(t, env.downloads); len(names) != 0 {
		t.Fatalf("expected no downloads, got %v", names)
	}
}

func TestRepairRequiresConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	storageDir := filepath.Dir(env.cfg.StoragePath())
	before := testsupport.ListDir(t, storageDir)

	_, stderr, code := env.run(t, "repair")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "No confirmation flag was set.")
	if _, err := os.Stat(env.cfg.StoragePath()); !os.IsNotExist(err) {
		t.Fatalf("repair without confirmation created storage: %v", err)
	}
	if after := testsupport.ListDir(t, storageDir); len(after) != len(before) {
		t.Fatalf("repair without confirmation changed the storage directory: %v -> %v", before, after)
	}

	stdout := env.mustRun(t, "repair", "--confirm")
	requireContains(t, stdout, "[✓] Done!")
	if got := env.load(t); got.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", got.Len())
	}
}

func TestRepairEmptiesPopulatedStorage(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24")

	env.mustRun(t, "repair", "-c")
	if got := env.load(t); got.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", got.Len())
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	stdout := env.mustRun(t, "config", "init", "--path", target)
	requireContains(t, stdout, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config: %v", err)
	}
	if _, _, code := env.run(t, "config", "init", "--path", target); code != 1 {
		t.Fatalf("expected init to refuse overwriting, got exit %d", code)
	}

	stdout = env.mustRun(t, "config", "show")
	requireContains(t, stdout, env.configPath)
	requireContains(t, stdout, env.cfg.StoragePath())
}

func TestConfigOverridesApplyToCommands(t *testing.T) {
	storageFile := filepath.Join(t.TempDir(), "custom", "subs.bin")
	env := setupCLITestEnv(t,
		testsupport.WithStorageFile(storageFile),
		testsupport.WithUserAgent("podclaw-test/2"))

	stdout := env.mustRun(t, "config", "show")
	requireContains(t, stdout, "Storage file: '"+storageFile+"'")
	requireContains(t, stdout, "User agent: 'podclaw-test/2'")

	env.initStorage(t)
	if _, err := os.Stat(storageFile); err != nil {
		t.Fatalf("expected repair to create the overridden storage file: %v", err)
	}
}
