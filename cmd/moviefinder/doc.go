// Package main hosts the moviefinder CLI.
//
// The Cobra command tree runs the web front end (serve), performs one-off
// catalog searches and genre listings from the terminal, and scaffolds or
// checks the configuration file. Search and genre output is a table by
// default and JSON with --json.
package main
