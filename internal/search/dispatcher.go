package search

import (
	"context"
	"log/slog"

	"moviefinder/internal/logging"
	"moviefinder/internal/tmdb"
)

// Catalog is the subset of catalog operations the dispatcher invokes.
type Catalog interface {
	SearchByTitle(ctx context.Context, query string, year int) ([]tmdb.Movie, error)
	SearchPeople(ctx context.Context, query string) ([]tmdb.Person, error)
	MoviesByActor(ctx context.Context, actorID int64) ([]tmdb.Movie, error)
	MoviesByGenre(ctx context.Context, genreID int64, year int) ([]tmdb.Movie, error)
	MoviesByYear(ctx context.Context, year int) ([]tmdb.Movie, error)
}

// Dispatcher turns criteria into exactly one catalog query.
type Dispatcher struct {
	catalog Catalog
	logger  *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher constructs a dispatcher over the supplied catalog.
func NewDispatcher(catalog Catalog, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{catalog: catalog, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "dispatcher")
	return d
}

// Dispatch runs the single catalog query selected by criteria. Precedence is
// fixed: actor, genre, year, title. Only the first person matching the actor
// name is used; when none match the result is an empty list. The branch is
// chosen from the raw values, so a whitespace-only actor or title still takes
// its branch and yields an empty list.
func (d *Dispatcher) Dispatch(ctx context.Context, criteria Criteria) ([]tmdb.Movie, error) {
	route := criteria.Route()
	criteria = criteria.Normalize()
	d.logger.DebugContext(ctx, "dispatching search",
		logging.Route(string(route)),
		logging.String("query", criteria.Query),
		logging.String("genre", criteria.Genre),
		logging.String("actor", criteria.Actor),
		logging.String("year", criteria.Year),
	)

	switch route {
	case RouteActor:
		return d.byActor(ctx, criteria.Actor)
	case RouteGenre:
		genreID, err := parseGenre(criteria.Genre)
		if err != nil {
			return nil, err
		}
		year, err := parseYear(criteria.Year)
		if err != nil {
			return nil, err
		}
		return d.catalog.MoviesByGenre(ctx, genreID, year)
	case RouteYear:
		year, err := requireYear(criteria.Year)
		if err != nil {
			return nil, err
		}
		return d.catalog.MoviesByYear(ctx, year)
	case RouteTitle:
		year, err := parseYear(criteria.Year)
		if err != nil {
			return nil, err
		}
		return d.catalog.SearchByTitle(ctx, criteria.Query, year)
	default:
		return nil, errMissingCriteria()
	}
}

func (d *Dispatcher) byActor(ctx context.Context, name string) ([]tmdb.Movie, error) {
	people, err := d.catalog.SearchPeople(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		d.logger.InfoContext(ctx, "no person matched actor name", logging.String("actor", name))
		return []tmdb.Movie{}, nil
	}
	actor := people[0]
	d.logger.DebugContext(ctx, "resolved actor",
		logging.PersonID(actor.ID),
		logging.String("person_name", actor.Name),
		logging.Int("candidates", len(people)),
	)
	return d.catalog.MoviesByActor(ctx, actor.ID)
}
