package main

import (
	"encoding/json"
	"testing"

	"spotlyric/internal/api"
	"spotlyric/internal/config"
	"spotlyric/internal/testsupport"
)

const cachedKey = "despacito_luis fonsi"

func seedLookup(t *testing.T, env *cliTestEnv) {
	t.Helper()
	if _, _, err := runCLI(t, env.configPath, "lookup", "Despacito", "Luis Fonsi"); err != nil {
		t.Fatalf("seed lookup: %v", err)
	}
}

func TestCacheListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "cache", "list")
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, "Cache is empty")

	seedLookup(t, env)

	out, _, err = runCLI(t, env.configPath, "cache", "list")
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, cachedKey)
	requireContains(t, out, "fresh")

	out, _, err = runCLI(t, env.configPath, "--json", "cache", "show", "Despacito_Luis Fonsi")
	if err != nil {
		t.Fatalf("cache show: %v", err)
	}
	var detail api.CacheEntryDetail
	if err := json.Unmarshal([]byte(out), &detail); err != nil {
		t.Fatalf("decode detail %q: %v", out, err)
	}
	if detail.Key != cachedKey || len(detail.Items) != 2 {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestCacheShowMissingKey(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env.configPath, "cache", "show", "nothing_here"); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestBookmarkToggle(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLookup(t, env)
	url := "https://genius.com/luis-fonsi-despacito-lyrics"

	out, _, err := runCLI(t, env.configPath, "bookmark", "Despacito", "Luis Fonsi", url)
	if err != nil {
		t.Fatalf("bookmark: %v", err)
	}
	requireContains(t, out, "Bookmarked "+url)

	out, _, err = runCLI(t, env.configPath, "--json", "lookup", "Despacito", "Luis Fonsi")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	var resp api.LookupResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode lookup %q: %v", out, err)
	}
	for _, source := range resp.Sources {
		if source.Bookmarked != (source.URL == url) {
			t.Fatalf("unexpected bookmark state %+v", source)
		}
	}

	out, _, err = runCLI(t, env.configPath, "bookmark", "Despacito", "Luis Fonsi", url)
	if err != nil {
		t.Fatalf("second bookmark: %v", err)
	}
	requireContains(t, out, "Removed bookmark "+url)
}

func TestCacheRemoveAndClear(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLookup(t, env)

	out, _, err := runCLI(t, env.configPath, "cache", "remove", cachedKey, "missing_key")
	if err != nil {
		t.Fatalf("cache remove: %v", err)
	}
	requireContains(t, out, "Removed "+cachedKey)
	requireContains(t, out, "No cache entry for missing_key")

	seedLookup(t, env)
	out, _, err = runCLI(t, env.configPath, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Cleared 1 cache entry")

	out, _, err = runCLI(t, env.configPath, "cache", "sweep")
	if err != nil {
		t.Fatalf("cache sweep: %v", err)
	}
	requireContains(t, out, "No expired cache entries")
}

func TestCacheSQLiteBackendPersistsAcrossRuns(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCacheBackend(config.CacheBackendSQLite))
	seedLookup(t, env)

	out, _, err := runCLI(t, env.configPath, "lookup", "Despacito", "Luis Fonsi")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	requireContains(t, out, "(cached)")

	out, _, err = runCLI(t, env.configPath, "cache", "list")
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, cachedKey)
}
