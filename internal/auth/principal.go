package auth

import (
	"context"
	"strings"
)

// Principal is the authenticated actor bound to a request or realtime
// session. It is derived from a validated token plus the account record and
// is never persisted.
type Principal struct {
	ID     string
	Email  string
	Role   string
	Active bool
}

func (p Principal) Authenticated() bool {
	return strings.TrimSpace(p.Email) != "" && p.Active
}

type principalKey struct{}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || !p.Authenticated() {
		return Principal{}, false
	}
	return p, true
}
