// Package search maps one set of user-entered filters onto a single catalog
// query.
//
// Criteria hold the raw form values. Dispatcher applies a fixed precedence
// (actor, genre, year, title) and rejects criteria with no filter as a
// *ValidationError before any request is made.
package search
