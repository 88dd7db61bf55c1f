package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ecuworks/tunehub/internal/config"
	"github.com/ecuworks/tunehub/internal/store"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

const (
	LocalAuthentication string = "local"
	NoneAuthentication  string = "none"
)

// NewAuthenticator builds the authenticator selected by configuration. Every
// authenticator resolves the acting user from the store on each request, so
// role changes take effect on the next authorization check rather than being
// pinned for the session.
func NewAuthenticator(authConfig config.Auth, s store.Store) (Authenticator, error) {
	zap.S().Named("auth").Infof("authentication: '%s'", authConfig.AuthenticationType)

	switch authConfig.AuthenticationType {
	case LocalAuthentication:
		if authConfig.LocalSigningKey == "" {
			return nil, errors.New("local authentication requires a signing key")
		}
		return NewLocalAuthenticator([]byte(authConfig.LocalSigningKey), s), nil
	case NoneAuthentication:
		return NewNoneAuthenticator(s), nil
	default:
		return nil, errors.New("unknown authentication type: " + authConfig.AuthenticationType)
	}
}
