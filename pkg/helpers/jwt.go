package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers expired, tampered, and malformed tokens alike;
// callers should not distinguish between them.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager issues and verifies bearer tokens. Tokens are stateless:
// verification is a pure function of the token, the secret, and the clock.
// There is no rotation and no server-side session lookup.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl}
}

// Claims carried in every bearer token. Name and Email are optional
// convenience fields; UserID is the identity.
type Claims struct {
	UserID string `json:"uid"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Generate signs a token for the given user with the configured TTL.
func (m *JWTManager) Generate(userID, name, email string) (string, time.Time, error) {
	exp := time.Now().Add(m.TTL)
	claims := &Claims{
		UserID: userID,
		Name:   name,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Parse validates the signature and expiry and returns the claims.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
