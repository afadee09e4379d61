package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid identity token")

// Identity is the verified owner identity attached to every portal call.
// Tokens are issued upstream; the core only resolves them.
type Identity string

type Resolver interface {
	ResolveIdentity(token string) (Identity, error)
}

// JWTResolver verifies HMAC-signed bearer tokens and uses the subject claim
// as the owner identity.
type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret string) (*JWTResolver, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: jwt secret is required")
	}
	return &JWTResolver{secret: []byte(secret)}, nil
}

func (r *JWTResolver) ResolveIdentity(tokenString string) (Identity, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return r.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject claim", ErrInvalidToken)
	}
	return Identity(claims.Subject), nil
}

// SignIdentity mints an HMAC token for the given identity. Used by the
// simulator and by tests; production tokens come from the identity provider.
func SignIdentity(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
