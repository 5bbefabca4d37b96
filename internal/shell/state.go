package shell

import (
	"moviefinder/internal/search"
	"moviefinder/internal/tmdb"
)

// State is one session's view of the genre vocabulary and its latest search.
// After a search settles exactly one of Results and Error is non-empty.
// Criteria holds the values of the latest submission so the form can be
// redrawn with them.
type State struct {
	Genres      []tmdb.Genre
	GenresReady bool
	Criteria    search.Criteria
	Results     []tmdb.Movie
	Loading     bool
	Error       string
	Generation  uint64

	// genresFailed marks Error as coming from the last genre load.
	genresFailed bool
}

// Action is a state transition understood by Reduce.
type Action interface {
	isAction()
}

// GenresLoaded records the genre vocabulary.
type GenresLoaded struct {
	Genres []tmdb.Genre
}

// GenresFailed records a failed genre load.
type GenresFailed struct {
	Err error
}

// SearchStarted begins the search identified by Generation.
type SearchStarted struct {
	Generation uint64
	Criteria   search.Criteria
}

// SearchSettled completes the search identified by Generation.
type SearchSettled struct {
	Generation uint64
	Movies     []tmdb.Movie
	Err        error
}

func (GenresLoaded) isAction() {}
func (GenresFailed) isAction() {}
func (SearchStarted) isAction() {}
func (SearchSettled) isAction() {}

// Reduce applies action to state and returns the new state. Settlements for
// any generation other than the current one are ignored.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case GenresLoaded:
		state.Genres = append([]tmdb.Genre(nil), a.Genres...)
		state.GenresReady = true
		if state.genresFailed {
			state.Error = ""
			state.genresFailed = false
		}
	case GenresFailed:
		state.Error = GenresMessage(a.Err)
		state.genresFailed = true
	case SearchStarted:
		if a.Generation <= state.Generation {
			return state
		}
		state.Generation = a.Generation
		state.Criteria = a.Criteria
		state.genresFailed = false
		state.Results = nil
		state.Error = ""
		state.Loading = true
	case SearchSettled:
		if a.Generation != state.Generation || !state.Loading {
			return state
		}
		state.Loading = false
		switch {
		case a.Err != nil:
			state.Results = nil
			state.Error = Message(a.Err)
		case len(a.Movies) == 0:
			state.Results = nil
			state.Error = Message(ErrNoMatches)
		default:
			state.Results = append([]tmdb.Movie(nil), a.Movies...)
			state.Error = ""
		}
	}
	return state
}

func (s State) clone() State {
	s.Genres = append([]tmdb.Genre(nil), s.Genres...)
	s.Results = append([]tmdb.Movie(nil), s.Results...)
	return s
}
