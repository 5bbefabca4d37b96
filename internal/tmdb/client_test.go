package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"moviefinder/internal/tmdb"
)

func newClient(t *testing.T, handler http.HandlerFunc, opts ...tmdb.Option) *tmdb.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := tmdb.New("token", server.URL, "en-US", opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := tmdb.New("token", "  ", "en-US"); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestNewAllowsMissingToken(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", ""); err != nil {
		t.Fatalf("expected empty token to be accepted, got %v", err)
	}
}

func TestSearchByTitleSendsHeadersAndParams(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get("accept"); got != "application/json" {
			t.Errorf("unexpected accept header %q", got)
		}
		q := r.URL.Query()
		for key, want := range map[string]string{
			"query":                "The Matrix",
			"primary_release_year": "1999",
			"include_adult":        "false",
			"page":                 "1",
			"language":             "en-US",
		} {
			if got := q.Get(key); got != want {
				t.Errorf("query %s = %q, want %q", key, got, want)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":603,"title":"The Matrix","release_date":"1999-03-30","poster_path":"/m.jpg","vote_average":8.2,"genre_ids":[28,878]}]}`))
	})

	movies, err := client.SearchByTitle(context.Background(), " The Matrix ", 1999)
	if err != nil {
		t.Fatalf("SearchByTitle returned error: %v", err)
	}
	if len(movies) != 1 || movies[0].ID != 603 || movies[0].PosterPath != "/m.jpg" {
		t.Fatalf("unexpected movies: %#v", movies)
	}
	if len(movies[0].GenreIDs) != 2 || movies[0].VoteAverage != 8.2 {
		t.Fatalf("unexpected movie fields: %#v", movies[0])
	}
}

func TestBlankQueriesSkipNetwork(t *testing.T) {
	var calls atomic.Int32
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	movies, err := client.SearchByTitle(context.Background(), "   ", 0)
	if err != nil || movies == nil || len(movies) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v (err=%v)", movies, err)
	}
	people, err := client.SearchPeople(context.Background(), "")
	if err != nil || people == nil || len(people) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v (err=%v)", people, err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no requests, got %d", calls.Load())
	}
}

func TestDiscoverOperations(t *testing.T) {
	tests := []struct {
		name   string
		call   func(*tmdb.Client) ([]tmdb.Movie, error)
		params map[string]string
	}{
		{
			name:   "actor",
			call:   func(c *tmdb.Client) ([]tmdb.Movie, error) { return c.MoviesByActor(context.Background(), 31) },
			params: map[string]string{"with_cast": "31"},
		},
		{
			name:   "genre with year",
			call:   func(c *tmdb.Client) ([]tmdb.Movie, error) { return c.MoviesByGenre(context.Background(), 28, 2001) },
			params: map[string]string{"with_genres": "28", "primary_release_year": "2001"},
		},
		{
			name:   "genre",
			call:   func(c *tmdb.Client) ([]tmdb.Movie, error) { return c.MoviesByGenre(context.Background(), 35, 0) },
			params: map[string]string{"with_genres": "35", "primary_release_year": ""},
		},
		{
			name:   "year",
			call:   func(c *tmdb.Client) ([]tmdb.Movie, error) { return c.MoviesByYear(context.Background(), 1999) },
			params: map[string]string{"primary_release_year": "1999"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/discover/movie" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("sort_by") != "popularity.desc" {
					t.Errorf("expected popularity sort, got %q", q.Get("sort_by"))
				}
				for key, want := range tt.params {
					if got := q.Get(key); got != want {
						t.Errorf("query %s = %q, want %q", key, got, want)
					}
				}
				_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Example"}]}`))
			})
			movies, err := tt.call(client)
			if err != nil {
				t.Fatalf("discover returned error: %v", err)
			}
			if len(movies) != 1 || movies[0].Title != "Example" {
				t.Fatalf("unexpected movies: %#v", movies)
			}
		})
	}
}

func TestMissingResultsDefaultToEmpty(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1}`))
	})
	movies, err := client.MoviesByYear(context.Background(), 1999)
	if err != nil {
		t.Fatalf("MoviesByYear returned error: %v", err)
	}
	if movies == nil || len(movies) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", movies)
	}
	genres, err := client.ListGenres(context.Background())
	if err != nil {
		t.Fatalf("ListGenres returned error: %v", err)
	}
	if genres == nil || len(genres) != 0 {
		t.Fatalf("expected empty non-nil genres, got %#v", genres)
	}
}

func TestListGenres(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre/movie/list" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`))
	})
	genres, err := client.ListGenres(context.Background())
	if err != nil {
		t.Fatalf("ListGenres returned error: %v", err)
	}
	if len(genres) != 2 || genres[1].Name != "Comedy" {
		t.Fatalf("unexpected genres: %#v", genres)
	}
}

func TestUnauthorizedUsesStatusMessage(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_message": "Invalid API key"}`))
	})

	_, err := client.SearchPeople(context.Background(), "Tom Hanks")
	var catalogErr *tmdb.RemoteCatalogError
	if !errors.As(err, &catalogErr) {
		t.Fatalf("expected RemoteCatalogError, got %T %v", err, err)
	}
	if catalogErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", catalogErr.StatusCode)
	}
	if err.Error() != "Invalid API key" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUnparseableErrorFallsBackToStatus(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.ListGenres(context.Background())
	if err == nil || err.Error() != "HTTP error! status: 502" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	_, err := client.MoviesByActor(context.Background(), 1)
	if err == nil {
		t.Fatal("expected decode error")
	}
	var catalogErr *tmdb.RemoteCatalogError
	if errors.As(err, &catalogErr) {
		t.Fatalf("decode failure should not be a catalog error: %v", err)
	}
}

func TestRequestsAreTracedAndCounted(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}, tmdb.WithTracerProvider(tp), tmdb.WithMeterProvider(mp), tmdb.WithRequestsPerSecond(100))

	if _, err := client.MoviesByYear(context.Background(), 2000); err != nil {
		t.Fatalf("MoviesByYear returned error: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "tmdb.movies_by_year" {
		t.Fatalf("unexpected spans: %v", spans)
	}

	var data metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &data); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}
	found := false
	for _, scope := range data.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "moviefinder.catalog.requests" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
				t.Fatalf("unexpected request counter data: %#v", m.Data)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("request counter not recorded")
	}
}
