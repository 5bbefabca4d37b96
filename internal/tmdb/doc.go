// Package tmdb provides the catalog client used to search The Movie Database.
//
// Each operation is a single authenticated GET (bearer token, first page only,
// adult titles excluded) with no retries. Non-success responses become a
// *RemoteCatalogError carrying the catalog's status message. Requests are
// traced and counted through OpenTelemetry and may be paced by a token-bucket
// limiter supplied through options.
package tmdb
