package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"moviefinder/internal/tmdb"
)

// FakeTMDB is an in-process stand-in for the catalog API. It answers the
// endpoints the client uses from canned data and records every request.
type FakeTMDB struct {
	server *httptest.Server
	token  string

	mu       sync.Mutex
	requests []*url.URL
	genres   []tmdb.Genre
	people   map[string][]tmdb.Person
	discover []tmdb.Movie
	titles   map[string][]tmdb.Movie
	failures map[string]int
}

// NewFakeTMDB starts a fake catalog that accepts the given bearer token and
// registers shutdown with t.
func NewFakeTMDB(t testing.TB, token string) *FakeTMDB {
	t.Helper()
	fake := &FakeTMDB{
		token:    token,
		people:   map[string][]tmdb.Person{},
		titles:   map[string][]tmdb.Movie{},
		failures: map[string]int{},
	}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.server.Close)
	return fake
}

// URL returns the fake's base URL.
func (f *FakeTMDB) URL() string {
	return f.server.URL
}

// SetGenres sets the genre vocabulary.
func (f *FakeTMDB) SetGenres(genres ...tmdb.Genre) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genres = genres
}

// SetPeople sets the people search answer for an exact query.
func (f *FakeTMDB) SetPeople(query string, people ...tmdb.Person) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.people[query] = people
}

// SetDiscover sets the answer for every discover request.
func (f *FakeTMDB) SetDiscover(movies ...tmdb.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discover = movies
}

// SetTitle sets the title search answer for an exact query.
func (f *FakeTMDB) SetTitle(query string, movies ...tmdb.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles[query] = movies
}

// FailPath makes requests to path answer with status and a status_message body.
func (f *FakeTMDB) FailPath(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = status
}

// ClearFailures removes every failure set with FailPath.
func (f *FakeTMDB) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = map[string]int{}
}

// Requests returns the recorded request URLs in arrival order.
func (f *FakeTMDB) Requests() []*url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*url.URL, len(f.requests))
	copy(out, f.requests)
	return out
}

// Paths returns the recorded request paths in arrival order.
func (f *FakeTMDB) Paths() []string {
	reqs := f.Requests()
	paths := make([]string, 0, len(reqs))
	for _, u := range reqs {
		paths = append(paths, u.Path)
	}
	return paths
}

func (f *FakeTMDB) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := *r.URL
	f.requests = append(f.requests, &u)

	if strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") != f.token || f.token == "" {
		writeFakeJSON(w, http.StatusUnauthorized, map[string]any{
			"status_code":    7,
			"status_message": "Invalid API key: You must be granted a valid key.",
		})
		return
	}
	if status, ok := f.failures[r.URL.Path]; ok {
		writeFakeJSON(w, status, map[string]any{"status_message": http.StatusText(status)})
		return
	}

	query := r.URL.Query().Get("query")
	switch r.URL.Path {
	case "/genre/movie/list":
		writeFakeJSON(w, http.StatusOK, map[string]any{"genres": f.genres})
	case "/search/person":
		writeFakeJSON(w, http.StatusOK, map[string]any{"page": 1, "results": f.people[query]})
	case "/search/movie":
		writeFakeJSON(w, http.StatusOK, map[string]any{"page": 1, "results": f.titles[query]})
	case "/discover/movie":
		writeFakeJSON(w, http.StatusOK, map[string]any{"page": 1, "results": f.discover})
	default:
		writeFakeJSON(w, http.StatusNotFound, map[string]any{
			"status_code":    34,
			"status_message": "The resource you requested could not be found.",
		})
	}
}

func writeFakeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
