package shell

import (
	"errors"
	"strings"

	"moviefinder/internal/search"
	"moviefinder/internal/tmdb"
)

const (
	MessageNoMatches    = "No movies found matching your criteria. Try adjusting your search."
	MessageSearchFailed = "Failed to search movies"
	MessageGenresFailed = "Failed to load genres"
)

// ErrNoMatches marks a well-formed search that returned nothing.
var ErrNoMatches = errors.New(MessageNoMatches)

// Message converts any search error into the single string shown to the user.
func Message(err error) string {
	return messageOr(err, MessageSearchFailed)
}

// GenresMessage converts a genre load error into its display string.
func GenresMessage(err error) string {
	return messageOr(err, MessageGenresFailed)
}

func messageOr(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var validation *search.ValidationError
	if errors.As(err, &validation) && validation.Message != "" {
		return validation.Message
	}
	var catalogErr *tmdb.RemoteCatalogError
	if errors.As(err, &catalogErr) {
		return catalogErr.Error()
	}
	if errors.Is(err, ErrNoMatches) {
		return MessageNoMatches
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
