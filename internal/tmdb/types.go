package tmdb

// Movie is a single catalog entry returned by search and discover endpoints.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int64 `json:"genre_ids"`
}

// Genre pairs a catalog genre identifier with its display name.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Person is a cast or crew candidate returned by the people search.
type Person struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

type pagedMovies struct {
	Page    int     `json:"page"`
	Results []Movie `json:"results"`
}

type pagedPeople struct {
	Page    int      `json:"page"`
	Results []Person `json:"results"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}
