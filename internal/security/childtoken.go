package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidChildToken is returned when a child session token fails
// signature or claims validation.
var ErrInvalidChildToken = errors.New("invalid child token")

// ChildTokenIssuer issues and verifies short-lived signed tokens for child
// profile sessions. Children have no account credentials; after a PIN check
// the player UI holds one of these instead of a server-side session.
type ChildTokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

type childClaims struct {
	ProfileID int64 `json:"pid"`
	jwt.RegisteredClaims
}

// NewChildTokenIssuer creates a token issuer. The secret must be non-empty.
func NewChildTokenIssuer(secret string, ttl time.Duration) (*ChildTokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("child token secret is required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &ChildTokenIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed token for a child profile
func (i *ChildTokenIssuer) Issue(profileID int64) (string, error) {
	now := time.Now()
	claims := childClaims{
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", profileID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify validates a token and returns the profile id it was issued for
func (i *ChildTokenIssuer) Verify(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &childClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return 0, ErrInvalidChildToken
	}

	claims, ok := token.Claims.(*childClaims)
	if !ok || !token.Valid || claims.ProfileID == 0 {
		return 0, ErrInvalidChildToken
	}

	return claims.ProfileID, nil
}
