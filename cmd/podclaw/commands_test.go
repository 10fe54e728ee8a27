package main

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"podclaw/internal/testsupport"
)

func TestAddReportsAndPersists(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)

	stdout := env.mustRun(t, "add", "Foo", env.server.FeedURL(), env.downloads, "12")
	requireContains(t, stdout, "[*] Registering new podcast with this alias: 'Foo'")
	requireContains(t, stdout, "'12'")
	requireContains(t, stdout, "[✓] Done!")

	c := env.load(t)
	if c.Len() != 1 {
		t.Fatalf("expected one subscription, got %d", c.Len())
	}
	sub := c.Subscriptions[0]
	if sub.Alias != "Foo" || sub.FeedURL != env.server.FeedURL() || sub.DownloadPath != env.downloads {
		t.Fatalf("unexpected subscription %+v", sub)
	}
	if sub.CacheContent != env.server.Body() {
		t.Fatal("expected the fetched document to be cached verbatim")
	}
}

func TestAddDuplicateAliasIsRejectedWithoutFetching(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24")
	before := env.server.FeedRequests()

	stdout, stderr, code := env.run(t, "add", "FOO", env.server.FeedURL(), env.downloads, "24")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "[!] Alias already in use.")
	if strings.Contains(stdout, "Registering") {
		t.Fatalf("conflicting add should not announce registration, got %q", stdout)
	}
	if env.server.FeedRequests() != before {
		t.Fatal("duplicate add should not fetch the feed")
	}
	if env.load(t).Len() != 1 {
		t.Fatal("duplicate add changed the collection")
	}
}

func TestAddFailuresLeaveStorageUntouched(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)

	_, stderr, code := env.run(t, "add", "junk", env.server.GarbageURL(), env.downloads, "24")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "Failed to parse RSS feed.")

	env.server.SetFeedStatus(http.StatusNotFound)
	_, stderr, code = env.run(t, "add", "missing", env.server.FeedURL(), env.downloads, "24")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "Failed to request feed from provided link.")

	if env.load(t).Len() != 0 {
		t.Fatal("failed adds must not persist anything")
	}
}

func TestAddRejectsOverflowingInterval(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)

	for _, interval := range []string{"2562048", "9223372036854775807"} {
		_, stderr, code := env.run(t, "add", "foo", env.server.FeedURL(), env.downloads, interval)
		if code != 1 {
			t.Fatalf("%s: expected exit 1, got %d", interval, code)
		}
		requireContains(t, stderr, "Invalid update interval.")
	}
	if env.server.FeedRequests() != 0 {
		t.Fatal("rejected intervals must not fetch the feed")
	}
}

func TestListEpisodesDefaultsToNewestFirst(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24")

	stdout := env.mustRun(t, "list", "foo")
	requireOrder(t, stdout, "#0: 'C'", "#1: 'B'", "#2: 'A'")

	stdout = env.mustRun(t, "list", "foo", "--reverse")
	requireOrder(t, stdout, "#0: 'A'", "#1: 'B'", "#2: 'C'")
}

func TestListSubscriptionsRendersTable(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)

	stdout := env.mustRun(t, "list")
	requireContains(t, stdout, "No podcasts registered yet.")

	env.addFoo(t, "24", "--lock")
	env.mustRun(t, "add", "bar", env.server.FeedURL(), env.downloads, "6")

	stdout = env.mustRun(t, "list")
	requireContains(t, stdout, "Listing all registered podcasts...")
	requireOrder(t, stdout, "ALIAS", "foo", "yes", "24h", "bar", "no", "6h")
}

func TestGetDownloadsEpisodeEvenWhenLocked(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24", "--lock")

	stdout := env.mustRun(t, "get", "foo", "0")
	requireContains(t, stdout, "[✓] Done!")
	got := testsupport.ReadFile(t, filepath.Join(env.downloads, "[foo - 0] C.mp3"))
	if !bytes.Equal(got, testsupport.AudioBody("C")) {
		t.Fatalf("unexpected audio %q", got)
	}

	env.mustRun(t, "get", "foo", "2")
	got = testsupport.ReadFile(t, filepath.Join(env.downloads, "[foo - 2] A.mp3"))
	if !bytes.Equal(got, testsupport.AudioBody("A")) {
		t.Fatalf("unexpected audio %q", got)
	}

	env.mustRun(t, "get", "foo", "0", "-r")
	if names := testsupport.ListDir(t, env.downloads); len(names) != 3 {
		t.Fatalf("expected three downloaded files, got %v", names)
	}
	got = testsupport.ReadFile(t, filepath.Join(env.downloads, "[foo - 0] A.mp3"))
	if !bytes.Equal(got, testsupport.AudioBody("A")) {
		t.Fatalf("unexpected audio %q", got)
	}
}

func TestGetReportsBoundsAndMissingAudio(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24")

	_, stderr, code := env.run(t, "get", "foo", "3")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "Episode index is out of bounds.")

	env.server.SetAudioStatus(http.StatusNotFound)
	_, stderr, code = env.run(t, "get", "foo", "0")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "Failed to get audio file from the internet.")
	if names := testsupport.ListDir(t, env.downloads); len(names) != 0 {
		t.Fatalf("expected no files after failed download, got %v", names)
	}
}

func TestInspectSeriesAndEpisode(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24", "--lock")

	stdout := env.mustRun(t, "inspect", "FOO")
	requireContains(t, stdout, "Name: 'Test Cast'")
	requireContains(t, stdout, "Creator(s): 'Test Author'")

	stdout = env.mustRun(t, "inspect", "foo", "1")
	requireContains(t, stdout, "Name: 'B'")
	requireContains(t, stdout, "Index: '1'")
	requireContains(t, stdout, "Description: 'second'")

	_, stderr, code := env.run(t, "inspect", "foo", "3")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "Episode index is out of bounds.")
}

func TestInspectRequiresAuthor(t *testing.T) {
	env := setupCLITestEnv(t)
	ch := testsupport.ThreeEpisodes()
	ch.Author = ""
	env.server.SetChannel(ch)
	env.initStorage(t)
	env.addFoo(t, "24")

	_, stderr, code := env.run(t, "inspect", "foo")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "missing required details")
}

func TestUnknownAliasIsReported(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)

	for _, args := range [][]string{{"remove", "nope"}, {"inspect", "nope"}, {"get", "nope", "0"}, {"edit", "nope", "-i", "2"}, {"update", "nope"}, {"lock", "nope"}, {"list", "nope"}} {
		_, stderr, code := env.run(t, args...)
		if code != 1 {
			t.Errorf("%v: expected exit 1, got %d", args, code)
		}
		requireContains(t, stderr, "There is no podcast with that alias.")
	}
}

func TestLockTogglesAndPersists(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24")

	stdout := env.mustRun(t, "lock", "foo")
	requireContains(t, stdout, "Successfully locked podcast!")
	if !env.load(t).Subscriptions[0].IsLocked {
		t.Fatal("expected foo to be locked")
	}

	stdout = env.mustRun(t, "lock", "FOO")
	requireContains(t, stdout, "Successfully unlocked podcast!")
	if env.load(t).Subscriptions[0].IsLocked {
		t.Fatal("expected foo to be unlocked")
	}
}

func TestLockGatesEditAndUpdateOnly(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24", "--lock")

	for _, args := range [][]string{{"edit", "foo", "-a", "bar"}, {"update", "foo"}} {
		_, stderr, code := env.run(t, args...)
		if code != 1 {
			t.Fatalf("%v: expected exit 1, got %d", args, code)
		}
		requireContains(t, stderr, "Podcast is locked.")
	}

	env.mustRun(t, "list", "foo")
	env.mustRun(t, "inspect", "foo")
	env.mustRun(t, "remove", "foo")
	if env.load(t).Len() != 0 {
		t.Fatal("expected locked podcast to be removable")
	}
}

func TestEditAppliesOnlySuppliedFields(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24")
	before := env.server.FeedRequests()

	stdout := env.mustRun(t, "edit", "foo")
	requireContains(t, stdout, "[#] No changes made.")

	stdout = env.mustRun(t, "edit", "foo", "--alias", "Bar", "-i", "48")
	requireContains(t, stdout, "Changed alias to 'Bar'!")
	requireContains(t, stdout, "Changed update interval to '48'!")
	requireContains(t, stdout, "Successfully edited podcast!")

	sub := env.load(t).Subscriptions[0]
	if sub.Alias != "Bar" || sub.UpdateInterval.Hours() != 48 || sub.FeedURL != env.server.FeedURL() {
		t.Fatalf("unexpected subscription after edit %+v", sub)
	}
	if env.server.FeedRequests() != before {
		t.Fatal("edit must not fetch the feed")
	}
}

func TestUpdateRefreshesCache(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "24")

	ch := testsupport.ThreeEpisodes()
	ch.Items = append(ch.Items, testsupport.Item{Title: "D", Description: "fourth"})
	env.server.SetChannel(ch)

	stdout := env.mustRun(t, "update", "foo")
	requireContains(t, stdout, "[✓] Cache updated!")
	stdout = env.mustRun(t, "list", "foo")
	requireOrder(t, stdout, "#0: 'D'", "#1: 'C'")
}

func TestRemovePreservesOrder(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	for _, alias := range []string{"a", "b", "c"} {
		env.mustRun(t, "add", alias, env.server.FeedURL(), env.downloads, "24")
	}

	env.mustRun(t, "remove", "A")
	c := env.load(t)
	if c.Len() != 2 || c.Subscriptions[0].Alias != "b" || c.Subscriptions[1].Alias != "c" {
		t.Fatalf("unexpected collection after remove %+v", c.Subscriptions)
	}
}

func TestAutocacheRefreshesStaleCache(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "0")
	before := env.server.FeedRequests()

	stdout := env.mustRun(t, "list", "foo")
	requireContains(t, stdout, "This podcast's cache is outdated, updating...")
	requireContains(t, stdout, "[✓] Cache updated!")
	if env.server.FeedRequests() != before+1 {
		t.Fatalf("expected one refresh, got %d", env.server.FeedRequests()-before)
	}

	env.mustRun(t, "lock", "foo")
	before = env.server.FeedRequests()
	env.mustRun(t, "list", "foo")
	env.mustRun(t, "get", "foo", "0")
	if env.server.FeedRequests() != before {
		t.Fatal("locked subscriptions must not be refreshed")
	}
}

func TestAutocacheFailureFallsBackToStaleCache(t *testing.T) {
	env := setupCLITestEnv(t)
	env.initStorage(t)
	env.addFoo(t, "0")
	cached := env.load(t).Subscriptions[0]

	env.server.SetFeedStatus(http.StatusInternalServerError)
	stdout := env.mustRun(t, "list", "foo")
	requireContains(t, stdout, "[#] Failed to update cache automatically")
	requireOrder(t, stdout, "#0: 'C'", "#1: 'B'", "#2: 'A'")

	after := env.load(t).Subscriptions[0]
	if !after.CacheTimestamp.Equal(cached.CacheTimestamp) || after.CacheContent != cached.CacheContent {
		t.Fatal("failed refresh must leave the cache untouched")
	}
}
