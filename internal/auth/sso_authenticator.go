package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const jwkFetchTimeout = 5 * time.Second

// SSOAuthenticator accepts RS256 tokens issued by an external identity
// provider publishing its keys as a JWK set.
type SSOAuthenticator struct {
	keyFn jwt.Keyfunc
}

func NewSSOAuthenticatorWithKeyFn(keyFn jwt.Keyfunc) (*SSOAuthenticator, error) {
	return &SSOAuthenticator{keyFn: keyFn}, nil
}

func NewSSOAuthenticator(jwkURL string) (*SSOAuthenticator, error) {
	if jwkURL == "" {
		return nil, ErrMissingJwkURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), jwkFetchTimeout)
	defer cancel()

	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwkURL})
	if err != nil {
		return nil, fmt.Errorf("failed to get sso public keys: %w", err)
	}

	return &SSOAuthenticator{keyFn: k.Keyfunc}, nil
}

func (s *SSOAuthenticator) Authenticate(token string) (User, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}), jwt.WithIssuedAt(), jwt.WithExpirationRequired())
	t, err := parser.Parse(token, s.keyFn)
	if err != nil {
		return User{}, fmt.Errorf("failed to authenticate token: %w", err)
	}
	if !t.Valid {
		return User{}, errors.New("failed to parse or validate token")
	}

	return s.parseToken(t)
}

// parseToken prefers preferred_username and falls back to the subject.
func (s *SSOAuthenticator) parseToken(userToken *jwt.Token) (User, error) {
	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, errors.New("failed to parse jwt token claims")
	}

	username, _ := claims["preferred_username"].(string)
	if username == "" {
		username, _ = claims.GetSubject()
	}
	if username == "" {
		return User{}, errors.New("token carries no username")
	}

	return User{Username: username, Token: userToken}, nil
}

func (s *SSOAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || accessToken == "" {
			unauthorized(w, r, "No token provided")
			return
		}

		user, err := s.Authenticate(accessToken)
		if err != nil {
			zap.S().Named("auth").Debugw("sso authentication failed", "error", err)
			unauthorized(w, r, "authentication failed")
			return
		}

		next.ServeHTTP(w, r.WithContext(NewUserContext(r.Context(), user)))
	})
}
