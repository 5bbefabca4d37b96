// Package shell holds per-session application state and is the single place
// where search and genre errors become user-facing messages.
//
// State changes only through Reduce. Each search is tagged with a generation
// number; a settlement for an older generation is dropped so overlapping
// submissions cannot overwrite a newer result. Sessions maps browser session
// ids to shells and forgets idle ones.
package shell
