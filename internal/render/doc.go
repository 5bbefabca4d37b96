// Package render turns catalog data into HTML.
//
// Card helpers (ImageURL, FormatReleaseDate, FormatRating) are pure functions
// exposed to the embedded templates through a FuncMap. NewSearchForm builds
// the select options for the search inputs. Overviews are clamped in CSS, the
// text itself is never cut.
package render
