// Package auth decodes bearer credentials and resolves them into effective
// access scopes. Decoding is a pure function of (credential, secret, clock);
// interpretation of the decoded claims is left to the resolver policies.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidCredential covers absent, malformed, expired and badly
	// signed credentials. Surfaced as 401.
	ErrInvalidCredential = errors.New("auth: invalid credential")
	// ErrForbidden means the credential decoded but carries an
	// insufficient role. Surfaced as 403, distinct from the former.
	ErrForbidden = errors.New("auth: insufficient role")
)

// Claims is the decoded credential payload. The two credential kinds, an
// admin/creator token and an entry token, are distinguished only by which
// claims are present, never by a type tag.
type Claims struct {
	SubjectID string `json:"userId,omitempty"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
	IsCreator bool   `json:"isCreator,omitempty"`
	jwt.RegisteredClaims
}

// DecodeToken verifies an HS256 token against the shared secret and returns
// its claims. Expiry is checked against now. No side effects.
func DecodeToken(raw string, secret []byte, now func() time.Time) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: no token provided", ErrInvalidCredential)
	}
	if now == nil {
		now = time.Now
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidCredential
	}
	return claims, nil
}

// IssueAdminToken signs a long-lived administrative token.
func IssueAdminToken(secret []byte, ttl time.Duration, now func() time.Time) (string, error) {
	return sign(secret, &Claims{IsAdmin: true, RegisteredClaims: registered(ttl, now)})
}

// IssueCreatorToken signs a long-lived token for the owner of an identity.
func IssueCreatorToken(secret []byte, subjectID string, ttl time.Duration, now func() time.Time) (string, error) {
	if subjectID == "" {
		return "", errors.New("auth: subject id is required")
	}
	return sign(secret, &Claims{SubjectID: subjectID, IsCreator: true, RegisteredClaims: registered(ttl, now)})
}

// IssueEntryToken signs a short-lived feature-access token. An empty
// subjectID produces a legacy single-user token.
func IssueEntryToken(secret []byte, subjectID string, ttl time.Duration, now func() time.Time) (string, error) {
	return sign(secret, &Claims{SubjectID: subjectID, RegisteredClaims: registered(ttl, now)})
}

func registered(ttl time.Duration, now func() time.Time) jwt.RegisteredClaims {
	if now == nil {
		now = time.Now
	}
	t := now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(t),
		ExpiresAt: jwt.NewNumericDate(t.Add(ttl)),
	}
}

func sign(secret []byte, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
