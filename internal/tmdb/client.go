package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"moviefinder/internal/logging"
)

const instrumentationName = "moviefinder/internal/tmdb"

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Catalog lists the catalog operations the rest of the application uses.
type Catalog interface {
	SearchByTitle(ctx context.Context, query string, year int) ([]Movie, error)
	ListGenres(ctx context.Context) ([]Genre, error)
	SearchPeople(ctx context.Context, query string) ([]Person, error)
	MoviesByActor(ctx context.Context, actorID int64) ([]Movie, error)
	MoviesByGenre(ctx context.Context, genreID int64, year int) ([]Movie, error)
	MoviesByYear(ctx context.Context, year int) ([]Movie, error)
}

// Client issues authenticated GET requests against the TMDB v3 API.
type Client struct {
	token      string
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	tracer         trace.Tracer
	requests       metric.Int64Counter
	duration       metric.Float64Histogram
}

var _ Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimiter paces outbound requests with the supplied limiter.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithRequestsPerSecond installs a token-bucket limiter; zero or less disables pacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracerProvider = tp
		}
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) {
		if mp != nil {
			c.meterProvider = mp
		}
	}
}

// New creates a TMDB client. An empty token is accepted; requests then fail
// with the catalog's own authentication error.
func New(token, baseURL, language string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse tmdb base url: %w", err)
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = "en-US"
	}
	client := &Client{
		token:          strings.TrimSpace(token),
		baseURL:        strings.TrimRight(baseURL, "/"),
		language:       language,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		logger:         logging.NewNop(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(client)
	}

	client.tracer = client.tracerProvider.Tracer(instrumentationName)
	meter := client.meterProvider.Meter(instrumentationName)
	var err error
	client.requests, err = meter.Int64Counter("moviefinder.catalog.requests",
		metric.WithDescription("Catalog requests by operation and outcome"))
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}
	client.duration, err = meter.Float64Histogram("moviefinder.catalog.duration",
		metric.WithDescription("Catalog request latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	return client, nil
}

// SearchByTitle searches movies by title, optionally restricted to a primary
// release year. A blank query returns an empty list without a request.
func (c *Client) SearchByTitle(ctx context.Context, query string, year int) ([]Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Movie{}, nil
	}
	params := url.Values{}
	params.Set("query", query)
	if year > 0 {
		params.Set("primary_release_year", strconv.Itoa(year))
	}
	var payload pagedMovies
	if err := c.get(ctx, "search_by_title", "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return movies(payload.Results), nil
}

// ListGenres returns the movie genre vocabulary.
func (c *Client) ListGenres(ctx context.Context) ([]Genre, error) {
	var payload genreList
	if err := c.get(ctx, "list_genres", "/genre/movie/list", url.Values{}, &payload); err != nil {
		return nil, err
	}
	if payload.Genres == nil {
		return []Genre{}, nil
	}
	return payload.Genres, nil
}

// SearchPeople returns people whose name matches query. A blank query
// returns an empty list without a request.
func (c *Client) SearchPeople(ctx context.Context, query string) ([]Person, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Person{}, nil
	}
	params := url.Values{}
	params.Set("query", query)
	var payload pagedPeople
	if err := c.get(ctx, "search_people", "/search/person", params, &payload); err != nil {
		return nil, err
	}
	if payload.Results == nil {
		return []Person{}, nil
	}
	return payload.Results, nil
}

// MoviesByActor discovers movies featuring the person, most popular first.
func (c *Client) MoviesByActor(ctx context.Context, actorID int64) ([]Movie, error) {
	params := discoverParams()
	params.Set("with_cast", strconv.FormatInt(actorID, 10))
	return c.discover(ctx, "movies_by_actor", params)
}

// MoviesByGenre discovers movies in the genre, optionally for one release
// year, most popular first.
func (c *Client) MoviesByGenre(ctx context.Context, genreID int64, year int) ([]Movie, error) {
	params := discoverParams()
	params.Set("with_genres", strconv.FormatInt(genreID, 10))
	if year > 0 {
		params.Set("primary_release_year", strconv.Itoa(year))
	}
	return c.discover(ctx, "movies_by_genre", params)
}

// MoviesByYear discovers movies released in year, most popular first.
func (c *Client) MoviesByYear(ctx context.Context, year int) ([]Movie, error) {
	params := discoverParams()
	params.Set("primary_release_year", strconv.Itoa(year))
	return c.discover(ctx, "movies_by_year", params)
}

func discoverParams() url.Values {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	return params
}

func (c *Client) discover(ctx context.Context, operation string, params url.Values) ([]Movie, error) {
	var payload pagedMovies
	if err := c.get(ctx, operation, "/discover/movie", params, &payload); err != nil {
		return nil, err
	}
	return movies(payload.Results), nil
}

func movies(results []Movie) []Movie {
	if results == nil {
		return []Movie{}
	}
	return results
}

// get performs one GET round trip and decodes a 2xx body into out.
func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "tmdb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("tmdb.path", path)))
	status := "error"
	requestStart := time.Now()
	defer func() {
		latency := time.Since(requestStart)
		attrs := metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		)
		c.requests.Add(ctx, 1, attrs)
		c.duration.Record(ctx, latency.Seconds(), attrs)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.logger.DebugContext(ctx, "tmdb request",
			logging.String(logging.FieldOperation, operation),
			logging.String("path", path),
			logging.String("status", status),
			logging.Duration("latency", latency),
		)
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for tmdb rate limiter: %w", err)
		}
	}

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("language", c.language)
	params.Set("include_adult", "false")
	params.Set("page", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", time.Since(requestStart), err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newRemoteCatalogError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}
