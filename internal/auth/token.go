package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "docquiz-web"

// IdentityTTL is how long an identity cookie stays valid. The cookie is
// written once, when the id is created.
const IdentityTTL = 365 * 24 * time.Hour

var ErrBadToken = errors.New("auth: invalid identity token")

// Signer issues and checks the HS256 tokens carried by the identity cookie.
type Signer struct{ hmac []byte }

func NewSigner(secret string) *Signer { return &Signer{hmac: []byte(secret)} }

func (a *Signer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(IdentityTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

// Parse returns the user id in a valid token.
func (a *Signer) Parse(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrBadToken
	}
	return claims.Subject, nil
}
