// Package cli is the interactive terminal client for the contact book API.
//
// It keeps one session in memory, watches server reachability in the
// background and dispatches REPL commands to the HTTP client in
// internal/client/api. The REPL is started with App.Run and blocks until
// the user exits or input ends.
package cli
