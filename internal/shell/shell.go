package shell

import (
	"context"
	"log/slog"
	"sync"

	"moviefinder/internal/logging"
	"moviefinder/internal/search"
	"moviefinder/internal/tmdb"
)

// GenreSource supplies the genre vocabulary.
type GenreSource interface {
	ListGenres(ctx context.Context) ([]tmdb.Genre, error)
}

// Searcher runs one search for a set of criteria.
type Searcher interface {
	Dispatch(ctx context.Context, criteria search.Criteria) ([]tmdb.Movie, error)
}

// Shell owns one browser session's state and drives its searches. All
// writes go through Reduce under the shell's lock.
type Shell struct {
	genres   GenreSource
	searcher Searcher
	logger   *slog.Logger

	mountMu sync.Mutex

	mu    sync.Mutex
	state State
	next  uint64
}

// New creates a shell. A nil logger discards output.
func New(genres GenreSource, searcher Searcher, logger *slog.Logger) *Shell {
	return &Shell{
		genres:   genres,
		searcher: searcher,
		logger:   logging.NewComponentLogger(logger, "shell"),
	}
}

// Mount loads the genre vocabulary until one load succeeds; after that it
// only returns the current state. The load is not cancelled with ctx, so an
// abandoned request still completes it for the next one.
func (s *Shell) Mount(ctx context.Context) State {
	s.mountMu.Lock()
	defer s.mountMu.Unlock()

	if s.Snapshot().GenresReady {
		return s.Snapshot()
	}
	loadCtx := context.WithoutCancel(ctx)
	genres, err := s.genres.ListGenres(loadCtx)
	if err != nil {
		s.logger.WarnContext(ctx, "genre load failed", logging.Error(err))
		s.apply(GenresFailed{Err: err})
		return s.Snapshot()
	}
	s.logger.DebugContext(ctx, "genres loaded", logging.Int("count", len(genres)))
	s.apply(GenresLoaded{Genres: genres})
	return s.Snapshot()
}

// Search runs criteria as the session's newest search and returns the state
// once it settles. A search overtaken by a newer one leaves state untouched.
func (s *Shell) Search(ctx context.Context, criteria search.Criteria) State {
	s.mu.Lock()
	s.next++
	generation := s.next
	s.state = Reduce(s.state, SearchStarted{Generation: generation, Criteria: criteria})
	s.mu.Unlock()

	movies, err := s.searcher.Dispatch(ctx, criteria)
	if err != nil {
		s.logger.InfoContext(ctx, "search failed",
			logging.Route(string(criteria.Route())),
			logging.Error(err),
		)
	} else {
		s.logger.InfoContext(ctx, "search settled",
			logging.Route(string(criteria.Route())),
			logging.Results(len(movies)),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.state.Generation {
		s.logger.DebugContext(ctx, "discarding stale search",
			logging.Generation("generation", generation),
			logging.Generation("current", s.state.Generation),
		)
	}
	s.state = Reduce(s.state, SearchSettled{Generation: generation, Movies: movies, Err: err})
	return s.state.clone()
}

// Snapshot returns a copy of the current state.
func (s *Shell) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Shell) apply(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	s.mu.Unlock()
}
