package render

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
)

const (
	// DefaultImageBaseURL is the TMDB image CDN root.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	// DefaultPlaceholderURL is shown for movies without a poster.
	DefaultPlaceholderURL = "https://via.placeholder.com/500x750?text=No+Image"
	// DefaultImageSize is the poster width variant used when none is requested.
	DefaultImageSize = "w500"

	// UnknownReleaseDate replaces absent or unreadable release dates.
	UnknownReleaseDate = "Release date unknown"

	releaseDateLayout = "2006-01-02"
	displayDateLayout = "January 2, 2006"
)

// Images composes poster URLs against a CDN base.
type Images struct {
	BaseURL     string
	Placeholder string
}

// DefaultImages returns the public TMDB CDN configuration.
func DefaultImages() Images {
	return Images{BaseURL: DefaultImageBaseURL, Placeholder: DefaultPlaceholderURL}
}

// URL returns the poster URL for path at the requested size, or the
// placeholder when path is empty.
func (i Images) URL(path, size string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		if i.Placeholder == "" {
			return DefaultPlaceholderURL
		}
		return i.Placeholder
	}
	size = strings.TrimSpace(size)
	if size == "" {
		size = DefaultImageSize
	}
	base := strings.TrimRight(i.BaseURL, "/")
	if base == "" {
		base = DefaultImageBaseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + "/" + size + path
}

// ImageURL builds a poster URL against the public TMDB CDN.
func ImageURL(path, size string) string {
	return DefaultImages().URL(path, size)
}

// FormatReleaseDate renders a YYYY-MM-DD date as "April 3, 2024".
func FormatReleaseDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return UnknownReleaseDate
	}
	parsed, err := time.Parse(releaseDateLayout, value)
	if err != nil {
		return UnknownReleaseDate
	}
	return parsed.Format(displayDateLayout)
}

// FormatRating renders an average vote with one decimal and a star prefix.
// Rounding works on the exact binary value and takes ties away from zero, so
// 7.25 shows as 7.3.
func FormatRating(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Sprintf("★ %.1f", value)
	}
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	scaled := new(big.Float).SetPrec(128).SetFloat64(value)
	scaled.Mul(scaled, big.NewFloat(10))
	scaled.Add(scaled, big.NewFloat(0.5))
	tenths, _ := scaled.Int(nil)
	whole, frac := new(big.Int).QuoRem(tenths, big.NewInt(10), new(big.Int))
	return fmt.Sprintf("★ %s%d.%d", sign, whole, frac)
}
