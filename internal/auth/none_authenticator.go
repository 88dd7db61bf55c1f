package auth

import (
	"net/http"

	"github.com/ecuworks/tunehub/internal/store"
)

const identityHeader = "x-tunehub-user"

// NoneAuthenticator trusts the identity header. Used in dev and tests only;
// the user row is still resolved from the store so role handling matches the
// real authenticator.
type NoneAuthenticator struct {
	store store.Store
}

func NewNoneAuthenticator(s store.Store) *NoneAuthenticator {
	return &NoneAuthenticator{store: s}
}

func (n *NoneAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := r.Header.Get(identityHeader)
		if username == "" {
			username = "operator"
		}

		user, err := n.store.User().GetByUsername(r.Context(), username)
		if err != nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		ctx := NewUserContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
