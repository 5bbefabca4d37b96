package search

import (
	"strconv"
	"strings"
)

// Route names the catalog query a set of criteria resolves to.
type Route string

const (
	RouteActor Route = "actor"
	RouteGenre Route = "genre"
	RouteYear  Route = "year"
	RouteTitle Route = "title"
	RouteNone  Route = "none"
)

const (
	minYear = 1800
	maxYear = 9999
)

// Criteria holds the four optional filters of one search submission.
// Genre carries the catalog genre id and Year a four-digit year, both as
// entered in the form.
type Criteria struct {
	Query string `form:"query" json:"query"`
	Genre string `form:"genre" json:"genre"`
	Actor string `form:"actor" json:"actor"`
	Year  string `form:"year" json:"year"`
}

// NewCriteria builds criteria from raw form values. Values are kept as
// entered: a whitespace-only field still selects its branch.
func NewCriteria(query, genre, actor, year string) Criteria {
	return Criteria{
		Query: query,
		Genre: genre,
		Actor: actor,
		Year:  year,
	}
}

// Normalize trims every field. Routing uses the raw values, so call it only
// for display or catalog arguments.
func (c Criteria) Normalize() Criteria {
	return Criteria{
		Query: strings.TrimSpace(c.Query),
		Genre: strings.TrimSpace(c.Genre),
		Actor: strings.TrimSpace(c.Actor),
		Year:  strings.TrimSpace(c.Year),
	}
}

// IsEmpty reports whether no filter is populated.
func (c Criteria) IsEmpty() bool {
	return c.Route() == RouteNone
}

// Route reports which branch Dispatch takes: actor, then genre, then year,
// then title. Any non-empty value counts, whitespace included.
func (c Criteria) Route() Route {
	switch {
	case c.Actor != "":
		return RouteActor
	case c.Genre != "":
		return RouteGenre
	case c.Year != "":
		return RouteYear
	case c.Query != "":
		return RouteTitle
	default:
		return RouteNone
	}
}

func parseGenre(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: "genre", Message: "Genre must be a catalog genre id"}
	}
	return id, nil
}

// parseYear returns 0 for an empty value. Callers that need a year use
// requireYear instead.
func parseYear(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(value)
	if err != nil || year < minYear || year > maxYear {
		return 0, &ValidationError{Field: "year", Message: "Year must be a four-digit year"}
	}
	return year, nil
}

func requireYear(value string) (int, error) {
	if value == "" {
		return 0, &ValidationError{Field: "year", Message: "Year must be a four-digit year"}
	}
	return parseYear(value)
}
