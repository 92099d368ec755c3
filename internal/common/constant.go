// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

const (
	// AuthCookieName is the http-only cookie carrying the identity token.
	AuthCookieName = "auth_token"

	// AuthorizationHeader carries "Bearer <token>" on HTTP requests and the
	// same value as gRPC metadata (lower-cased by grpc).
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "
)
