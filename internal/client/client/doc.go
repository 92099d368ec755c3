// Package client talks to the gophauth server on behalf of the CLI.
//
// Client is the transport-agnostic contract: Register, Login and Me. Two
// implementations exist: HTTPClient for the JSON API and GRPCClient for the
// gRPC endpoint. Both keep the token from the last successful Register or
// Login and present it as a Bearer credential on Me.
//
// Server rejections are mapped onto sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrForbidden, ErrConflict
// and ErrRejected.
package client
