package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenIssuer            = "forecast-job-tracker"
	DefaultTokenExpiration = 30 * 24 * time.Hour
)

// LocalAuthenticator accepts bearer tokens signed with a shared HMAC key.
type LocalAuthenticator struct {
	signingKey []byte
}

func NewLocalAuthenticator(signingKey []byte) (*LocalAuthenticator, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &LocalAuthenticator{signingKey: signingKey}, nil
}

// GenerateToken issues a token for subject valid for ttl.
func (la *LocalAuthenticator) GenerateToken(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is empty")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(la.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (la *LocalAuthenticator) Authenticate(token string) (User, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)

	claims := &jwt.RegisteredClaims{}
	t, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return la.signingKey, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("failed to authenticate token: %w", err)
	}
	if !t.Valid || claims.Subject == "" {
		return User{}, errors.New("failed to parse or validate token")
	}

	return User{Username: claims.Subject, Token: t}, nil
}

func (la *LocalAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || accessToken == "" {
			unauthorized(w, r, "No token provided")
			return
		}

		user, err := la.Authenticate(accessToken)
		if err != nil {
			zap.S().Named("auth").Debugw("authentication failed", "error", err)
			unauthorized(w, r, "authentication failed")
			return
		}

		next.ServeHTTP(w, r.WithContext(NewUserContext(r.Context(), user)))
	})
}
