package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ecuworks/tunehub/internal/store"
)

// LocalAuthenticator validates HS256 bearer tokens minted by the login
// surface. The token carries only the user id; the user row, including the
// current role, is fetched fresh on every request.
type LocalAuthenticator struct {
	signingKey []byte
	store      store.Store
}

func NewLocalAuthenticator(signingKey []byte, s store.Store) *LocalAuthenticator {
	return &LocalAuthenticator{signingKey: signingKey, store: s}
}

func (a *LocalAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.parseToken(r)
		if err != nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		user, err := a.store.User().Get(r.Context(), userID)
		if err != nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		ctx := NewUserContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *LocalAuthenticator) parseToken(r *http.Request) (uuid.UUID, error) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return uuid.Nil, errors.New("missing bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.signingKey, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(sub)
}

// MintToken signs a token for the given user id. Used by the login surface
// and by tests.
func (a *LocalAuthenticator) MintToken(userID uuid.UUID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
	})
	return token.SignedString(a.signingKey)
}
