package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

const anonymousUser = "anonymous"

type NoneAuthenticator struct{}

func NewNoneAuthenticator() (*NoneAuthenticator, error) {
	return &NoneAuthenticator{}, nil
}

func (n *NoneAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: anonymousUser})
		user := User{Username: anonymousUser, Token: token}

		next.ServeHTTP(w, r.WithContext(NewUserContext(r.Context(), user)))
	})
}
