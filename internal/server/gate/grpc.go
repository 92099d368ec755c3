package gate

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
)

// Policy maps a full gRPC method name to the permissions it requires.
// A method mapped to an empty list needs only a valid token; methods absent
// from the policy are public.
type Policy map[string][]string

// metadataKey carries "Bearer <token>", mirroring the HTTP header.
const metadataKey = "authorization"

// UnaryInterceptor enforces policy on unary calls.
func (g *Gate) UnaryInterceptor(policy Policy) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		perms, protected := policy[info.FullMethod]
		if !protected {
			return handler(ctx, req)
		}

		raw, present := tokenFromMetadata(ctx)
		claims, err := g.Authorize(ctx, raw, present, perms...)
		g.metrics.GateDecision("grpc", outcomeOf(err))
		if err != nil {
			return nil, g.errors.Status(err)
		}

		return handler(auth.WithClaims(ctx, claims), req)
	}
}

func tokenFromMetadata(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	for _, v := range md.Get(metadataKey) {
		if tok, ok := auth.FromAuthorization(v); ok {
			return tok, true
		}
	}
	for _, v := range md.Get(common.AuthCookieName) {
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}
