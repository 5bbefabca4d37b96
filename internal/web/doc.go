// Package web exposes moviefinder over HTTP with gin.
//
// GET / renders the search page for the caller's session, POST /search runs a
// search for that session and returns the results fragment tagged with its
// generation, and /api offers stateless JSON search and genre endpoints. The
// server holds a file lock while running so only one instance serves a given
// state directory.
package web
