package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"moviefinder/internal/config"
	"moviefinder/internal/testsupport"
	"moviefinder/internal/tmdb"
)

type cliTestEnv struct {
	cfg        *config.Config
	fake       *testsupport.FakeTMDB
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TMDB_API_TOKEN", "")
	t.Setenv("TMDB_API_KEY", "")

	fake := testsupport.NewFakeTMDB(t, "test")
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithTMDBServer(fake)}, opts...)...)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, fake: fake, configPath: configPath}
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

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSearchCommandPrintsTable(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetTitle("Heat", tmdb.Movie{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.9})

	out, _, err := runCLI(t, []string{"search", "--query", "  Heat "}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, want := range []string{"Heat", "949", "December 15, 1995", "★ 7.9"} {
		if !strings.Contains(out, want) {
			t.Fatalf("search output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes when stdout is not a terminal: %q", out)
	}
}

func TestSearchCommandJSONReportsRoute(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetPeople("Tom Hanks", tmdb.Person{ID: 31, Name: "Tom Hanks"}, tmdb.Person{ID: 99, Name: "Tom Hanks Jr."})
	env.fake.SetDiscover(tmdb.Movie{ID: 13, Title: "Forrest Gump"})

	out, _, err := runCLI(t, []string{"search", "--actor", "Tom Hanks", "--genre", "28", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("search --json: %v", err)
	}
	var payload struct {
		Route   string       `json:"route"`
		Results []tmdb.Movie `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v (%q)", err, out)
	}
	if payload.Route != "actor" {
		t.Fatalf("expected actor route, got %q", payload.Route)
	}
	if len(payload.Results) != 1 || payload.Results[0].Title != "Forrest Gump" {
		t.Fatalf("unexpected results: %+v", payload.Results)
	}

	reqs := env.fake.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 catalog requests, got %d", len(reqs))
	}
	if got := reqs[1].Query().Get("with_cast"); got != "31" {
		t.Fatalf("expected first candidate id 31, got %q", got)
	}
}

func TestSearchCommandWithoutMatches(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"search", "--year", "1999"}, env.configPath)
	if err != nil {
		t.Fatalf("search --year: %v", err)
	}
	if !strings.Contains(out, "No movies found matching your criteria") {
		t.Fatalf("expected no matches message, got %q", out)
	}
}

func TestSearchCommandRequiresCriteria(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"search"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for empty criteria")
	}
	if err.Error() != "Please enter at least one search criteria" {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(env.fake.Requests()); n != 0 {
		t.Fatalf("expected no catalog requests, got %d", n)
	}
}

func TestSearchCommandRejectsMalformedYear(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"search", "--year", "nineteen"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for malformed year")
	}
	if n := len(env.fake.Requests()); n != 0 {
		t.Fatalf("expected no catalog requests, got %d", n)
	}
}

func TestSearchCommandSurfacesCatalogMessage(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithTMDBToken("wrong"))

	_, _, err := runCLI(t, []string{"search", "--query", "Heat"}, env.configPath)
	if err == nil {
		t.Fatal("expected catalog error")
	}
	if !strings.HasPrefix(err.Error(), "Invalid API key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenresCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetGenres(tmdb.Genre{ID: 28, Name: "Action"}, tmdb.Genre{ID: 35, Name: "Comedy"})

	out, _, err := runCLI(t, []string{"genres"}, env.configPath)
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	if !strings.Contains(out, "Action") || !strings.Contains(out, "35") {
		t.Fatalf("unexpected genres output: %q", out)
	}

	out, _, err = runCLI(t, []string{"genres", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("genres --json: %v", err)
	}
	var payload struct {
		Genres []tmdb.Genre `json:"genres"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(payload.Genres) != 2 || payload.Genres[1].Name != "Comedy" {
		t.Fatalf("unexpected genres: %+v", payload.Genres)
	}
}

func TestGenresCommandReportsFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.FailPath("/genre/movie/list", http.StatusInternalServerError)

	_, _, err := runCLI(t, []string{"genres"}, env.configPath)
	if err == nil || err.Error() != "Internal Server Error" {
		t.Fatalf("expected catalog message, got %v", err)
	}
}

func TestServeCommandStopsOnCancel(t *testing.T) {
	env := setupCLITestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := newRootCommand()
	stdout := &syncBuffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", env.configPath, "serve"})
	cmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Execute()
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(stdout.String(), "Serving on http://") {
		if time.Now().After(deadline) {
			t.Fatalf("serve did not report its address: %q", stdout.String())
		}
		time.Sleep(20 * time.Millisecond)
	}

	addr := strings.TrimSpace(strings.TrimPrefix(stdout.String(), "Serving on "))
	resp, err := http.Get(addr + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not exit")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TMDB_API_TOKEN", "")
	t.Setenv("TMDB_API_KEY", "")
	target := filepath.Join(home, "custom", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected init output: %q", out)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	for _, want := range []string{"Config path: " + target, "TMDB token set", "no", "Configuration valid"} {
		if !strings.Contains(out, want) {
			t.Fatalf("validate output missing %q: %q", want, out)
		}
	}
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err := runCLI(t, []string{"config", "validate"}, path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestRenderTableHandlesRaggedRows(t *testing.T) {
	if got := renderTable(tableView{}); got != "" {
		t.Fatalf("expected empty output without headers, got %q", got)
	}
	out := renderTable(tableView{
		Headers: []string{"ID", "Name"},
		Rows:    [][]string{{"1"}, {"2", "Two", "extra"}},
	})
	if !strings.Contains(out, "Two") || strings.Contains(out, "extra") {
		t.Fatalf("unexpected table: %q", out)
	}
	if shouldColorize(io.Discard) {
		t.Fatal("io.Discard must not be treated as a terminal")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
