package render

import (
	"strconv"
	"time"

	"moviefinder/internal/search"
	"moviefinder/internal/tmdb"
)

// YearSpan is the number of selectable years, ending at the current year.
const YearSpan = 100

// Option is one entry of a select input.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// SearchForm is the view model for the four search inputs.
type SearchForm struct {
	Query  string
	Actor  string
	Genres []Option
	Years  []Option
}

// NewSearchForm builds select options from the genre vocabulary and the
// current year, keeping values as the previously submitted selection. Text
// inputs are redrawn exactly as entered.
func NewSearchForm(genres []tmdb.Genre, values search.Criteria, now time.Time) SearchForm {
	form := SearchForm{
		Query:  values.Query,
		Actor:  values.Actor,
		Genres: make([]Option, 0, len(genres)+1),
		Years:  make([]Option, 0, YearSpan+1),
	}
	values = values.Normalize()

	form.Genres = append(form.Genres, Option{Value: "", Label: "All Genres", Selected: values.Genre == ""})
	for _, genre := range genres {
		id := strconv.FormatInt(genre.ID, 10)
		form.Genres = append(form.Genres, Option{Value: id, Label: genre.Name, Selected: id == values.Genre})
	}

	form.Years = append(form.Years, Option{Value: "", Label: "All Years", Selected: values.Year == ""})
	for _, year := range YearRange(now) {
		value := strconv.Itoa(year)
		form.Years = append(form.Years, Option{Value: value, Label: value, Selected: value == values.Year})
	}
	return form
}

// YearRange returns the YearSpan years ending at now's year, newest first.
func YearRange(now time.Time) []int {
	current := now.Year()
	years := make([]int, YearSpan)
	for i := range years {
		years[i] = current - i
	}
	return years
}
