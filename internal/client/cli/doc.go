// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration and a transport (HTTP or gRPC) into a small REPL:
//   - register: create an account and keep its token
//   - login / logout
//   - me: show the account the token belongs to
//   - token: print the current token for use with other tools
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
