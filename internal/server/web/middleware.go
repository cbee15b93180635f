package web

import (
	"context"
	"net/http"

	"github.com/dmartins/askgate/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// authenticate resolves the Authorization header into an Identity and stores
// it in the request context. Every protected request goes through a fresh
// account lookup, so deactivation is enforced immediately.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.auth.Authorize(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			writeFailure(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the authenticated identity stored by the
// authenticate middleware.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*auth.Identity)
	return identity, ok
}
