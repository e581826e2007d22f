package auth

import "context"

// Principal identifies the authenticated caller of an operation. Services
// take it as an explicit parameter so authorization decisions are visible at
// the call site.
type Principal struct {
	UserID string
	Role   Role
}

type principalContextKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
