package auth

import (
	"errors"
	"net/http"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/config"
	"github.com/forecast-ops/job-tracker/pkg/requestid"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

const (
	LocalAuthentication string = "local"
	SSOAuthentication   string = "sso"
	NoneAuthentication  string = "none"
)

var (
	ErrMissingSigningKey = errors.New("local authentication requires a signing key")
	ErrMissingJwkURL     = errors.New("sso authentication requires a jwk url")
)

func NewAuthenticator(authConfig config.Auth) (Authenticator, error) {
	zap.S().Named("auth").Infof("authentication: '%s'", authConfig.AuthenticationType)

	switch authConfig.AuthenticationType {
	case LocalAuthentication:
		return NewLocalAuthenticator([]byte(authConfig.SigningKey))
	case SSOAuthentication:
		return NewSSOAuthenticator(authConfig.JwkURL)
	default:
		return NewNoneAuthenticator()
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, api.Error{Message: msg, RequestId: requestid.FromContextPtr(r.Context())})
}
