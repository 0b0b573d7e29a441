package auth

import (
	"net/http"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"

	"github.com/madkurv/api/internal/platform/httpx"
)

const roleClaim = "role"

// Middleware authenticates requests with a Firebase bearer token.
type Middleware struct {
	verifier TokenVerifier
}

// NewMiddleware builds the auth middleware around a token verifier.
func NewMiddleware(verifier TokenVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Require rejects requests without a valid bearer token. When roles are
// given the caller must hold one of them; admins always pass.
func (m *Middleware) Require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				httpx.WriteError(ctx, w, httpx.Unauthorized("missing bearer token"))
				return
			}
			if m == nil || m.verifier == nil {
				httpx.WriteError(ctx, w, httpx.Unauthorized("authentication unavailable"))
				return
			}

			token, err := m.verifier.VerifyIDToken(ctx, raw)
			if err != nil {
				httpx.WriteError(ctx, w, httpx.Unauthorized("invalid or expired token"))
				return
			}

			identity := identityFromToken(token)
			if len(roles) > 0 && !holdsAny(identity, roles) {
				httpx.WriteError(ctx, w, httpx.Forbidden("insufficient role"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
		})
	}
}

func identityFromToken(token *firebaseauth.Token) *Identity {
	identity := &Identity{UID: token.UID, Role: RoleCustomer}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if role, ok := token.Claims[roleClaim].(string); ok {
		if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
			identity.Role = role
		}
	}
	return identity
}

func holdsAny(identity *Identity, roles []string) bool {
	for _, role := range roles {
		if identity.Is(role) {
			return true
		}
	}
	return false
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
