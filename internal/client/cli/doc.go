// Package cli provides the interactive GophAuth command-line client.
//
// The screen the user sees is driven by Controller, a small state machine
// with three states: the login form, the registration form, and the
// signed-in view. Service results are turned into events; the controller
// decides the next state and the notice to show.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
