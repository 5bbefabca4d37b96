package search_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"moviefinder/internal/search"
	"moviefinder/internal/tmdb"
)

type call struct {
	op   string
	args string
}

type fakeCatalog struct {
	calls  []call
	people []tmdb.Person
	movies []tmdb.Movie
	err    error
}

func (f *fakeCatalog) record(op string, args ...any) {
	f.calls = append(f.calls, call{op: op, args: fmt.Sprint(args...)})
}

func (f *fakeCatalog) SearchByTitle(_ context.Context, query string, year int) ([]tmdb.Movie, error) {
	f.record("SearchByTitle", query, " ", year)
	return f.movies, f.err
}

func (f *fakeCatalog) SearchPeople(_ context.Context, query string) ([]tmdb.Person, error) {
	f.record("SearchPeople", query)
	return f.people, f.err
}

func (f *fakeCatalog) MoviesByActor(_ context.Context, actorID int64) ([]tmdb.Movie, error) {
	f.record("MoviesByActor", actorID)
	return f.movies, f.err
}

func (f *fakeCatalog) MoviesByGenre(_ context.Context, genreID int64, year int) ([]tmdb.Movie, error) {
	f.record("MoviesByGenre", genreID, " ", year)
	return f.movies, f.err
}

func (f *fakeCatalog) MoviesByYear(_ context.Context, year int) ([]tmdb.Movie, error) {
	f.record("MoviesByYear", year)
	return f.movies, f.err
}

func (f *fakeCatalog) ops() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.op+"("+c.args+")")
	}
	return out
}

func assertCalls(t *testing.T, catalog *fakeCatalog, want ...string) {
	t.Helper()
	got := catalog.ops()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %v, want %v", got, want)
		}
	}
}

func TestDispatchEmptyCriteriaFailsWithoutCalls(t *testing.T) {
	for _, criteria := range []search.Criteria{
		{},
		search.NewCriteria("", "", "", ""),
	} {
		catalog := &fakeCatalog{}
		_, err := search.NewDispatcher(catalog).Dispatch(context.Background(), criteria)

		var validation *search.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if err.Error() != "Please enter at least one search criteria" {
			t.Fatalf("unexpected message %q", err.Error())
		}
		assertCalls(t, catalog)
	}
}

func TestDispatchWhitespaceFiltersKeepTheirBranch(t *testing.T) {
	tests := []struct {
		name     string
		criteria search.Criteria
		want     []string
	}{
		{"blank actor beats genre", search.Criteria{Actor: " ", Genre: "28"}, []string{"SearchPeople()"}},
		{"tab actor", search.NewCriteria("", "", "\t", ""), []string{"SearchPeople()"}},
		{"blank title", search.Criteria{Query: "  "}, []string{"SearchByTitle( 0)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{}
			movies, err := search.NewDispatcher(catalog).Dispatch(context.Background(), tt.criteria)
			if err != nil {
				t.Fatalf("Dispatch returned error: %v", err)
			}
			if len(movies) != 0 {
				t.Fatalf("expected no movies, got %#v", movies)
			}
			assertCalls(t, catalog, tt.want...)
		})
	}
}

func TestDispatchBlankYearBranchIsRejected(t *testing.T) {
	catalog := &fakeCatalog{}
	_, err := search.NewDispatcher(catalog).Dispatch(context.Background(), search.Criteria{Year: "  "})
	var validation *search.ValidationError
	if !errors.As(err, &validation) || validation.Field != "year" {
		t.Fatalf("expected year validation error, got %v", err)
	}
	assertCalls(t, catalog)
}

func TestDispatchActorUsesFirstCandidate(t *testing.T) {
	catalog := &fakeCatalog{
		people: []tmdb.Person{{ID: 31, Name: "Tom Hanks"}, {ID: 99, Name: "Tom Hanks Jr"}},
		movies: []tmdb.Movie{{ID: 13, Title: "Forrest Gump"}},
	}
	movies, err := search.NewDispatcher(catalog).Dispatch(context.Background(), search.Criteria{Actor: "Tom Hanks"})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if len(movies) != 1 || movies[0].ID != 13 {
		t.Fatalf("unexpected movies %#v", movies)
	}
	assertCalls(t, catalog, "SearchPeople(Tom Hanks)", "MoviesByActor(31)")
}

func TestDispatchActorWithoutMatchesSkipsDiscover(t *testing.T) {
	catalog := &fakeCatalog{people: []tmdb.Person{}}
	movies, err := search.NewDispatcher(catalog).Dispatch(context.Background(), search.Criteria{Actor: "Tom Hanks"})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if movies == nil || len(movies) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", movies)
	}
	assertCalls(t, catalog, "SearchPeople(Tom Hanks)")
}

func TestDispatchActorBeatsGenre(t *testing.T) {
	catalog := &fakeCatalog{people: []tmdb.Person{{ID: 31}}}
	criteria := search.Criteria{Genre: "28", Actor: "Tom Hanks", Year: "1994", Query: "Gump"}
	if _, err := search.NewDispatcher(catalog).Dispatch(context.Background(), criteria); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	assertCalls(t, catalog, "SearchPeople(Tom Hanks)", "MoviesByActor(31)")
}

func TestDispatchPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		criteria search.Criteria
		route    search.Route
		want     string
	}{
		{"genre with year", search.Criteria{Genre: "28", Year: "1999", Query: "Matrix"}, search.RouteGenre, "MoviesByGenre(28 1999)"},
		{"genre only", search.Criteria{Genre: "35"}, search.RouteGenre, "MoviesByGenre(35 0)"},
		{"year beats query", search.Criteria{Year: "1999", Query: "Matrix"}, search.RouteYear, "MoviesByYear(1999)"},
		{"title", search.Criteria{Query: " Matrix "}, search.RouteTitle, "SearchByTitle(Matrix 0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.criteria.Route(); got != tt.route {
				t.Fatalf("Route() = %q, want %q", got, tt.route)
			}
			catalog := &fakeCatalog{}
			if _, err := search.NewDispatcher(catalog).Dispatch(context.Background(), tt.criteria); err != nil {
				t.Fatalf("Dispatch returned error: %v", err)
			}
			assertCalls(t, catalog, tt.want)
		})
	}
}

func TestDispatchRejectsMalformedFilters(t *testing.T) {
	tests := []struct {
		name     string
		criteria search.Criteria
		field    string
	}{
		{"genre", search.Criteria{Genre: "action"}, "genre"},
		{"genre year", search.Criteria{Genre: "28", Year: "99"}, "year"},
		{"year", search.Criteria{Year: "next"}, "year"},
		{"title year", search.Criteria{Query: "Matrix", Year: "10000"}, "year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{}
			_, err := search.NewDispatcher(catalog).Dispatch(context.Background(), tt.criteria)
			var validation *search.ValidationError
			if !errors.As(err, &validation) || validation.Field != tt.field {
				t.Fatalf("expected %s validation error, got %v", tt.field, err)
			}
			assertCalls(t, catalog)
		})
	}
}

func TestDispatchIgnoresFiltersOutsideTheChosenBranch(t *testing.T) {
	catalog := &fakeCatalog{people: []tmdb.Person{}}
	criteria := search.Criteria{Actor: "Nobody", Genre: "not-a-number", Year: "soon"}
	if _, err := search.NewDispatcher(catalog).Dispatch(context.Background(), criteria); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	assertCalls(t, catalog, "SearchPeople(Nobody)")
}

func TestDispatchPropagatesCatalogErrors(t *testing.T) {
	catalogErr := &tmdb.RemoteCatalogError{StatusCode: 401, Message: "Invalid API key"}
	catalog := &fakeCatalog{err: catalogErr}
	_, err := search.NewDispatcher(catalog).Dispatch(context.Background(), search.Criteria{Actor: "Tom Hanks"})
	if !errors.Is(err, catalogErr) {
		t.Fatalf("expected catalog error, got %v", err)
	}
	assertCalls(t, catalog, "SearchPeople(Tom Hanks)")
}
