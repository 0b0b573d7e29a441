// Package auth verifies Firebase ID tokens and exposes the caller identity
// to handlers.
package auth

import (
	"context"
	"strings"
)

// Roles recognised by the API. Customers get RoleCustomer when the token
// carries no role claim; staff and admin come from custom claims set by the
// back office.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Identity is the authenticated principal attached to the request context.
type Identity struct {
	UID   string
	Email string
	Role  string
}

// Is reports whether the identity holds the given role. Admins satisfy every
// role check.
func (i *Identity) Is(role string) bool {
	if i == nil {
		return false
	}
	if strings.EqualFold(i.Role, RoleAdmin) {
		return true
	}
	return strings.EqualFold(i.Role, role)
}

type identityKey struct{}

// WithIdentity stores the identity on the context.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// FromContext returns the identity set by the middleware, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
