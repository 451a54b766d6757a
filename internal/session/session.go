// Package session mints and verifies the signed session credential a
// client holds after a successful PIN login.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed validity window of a session credential.
const TTL = 24 * time.Hour

// ErrInvalidSession is the single result for every verification failure:
// malformed, tampered, wrong secret, expired. Callers must not learn which.
var ErrInvalidSession = errors.New("invalid session")

// Claims is the typed payload of a session credential.
type Claims struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session credentials with an HMAC secret.
// Stateless; safe for concurrent use.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: TTL, now: time.Now}
}

// Issue signs the claims with an expiration TTL out. Integrity only; the
// claims are visible to the holder.
func (i *Issuer) Issue(c Claims) (string, error) {
	now := i.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(i.secret)
}

// Verify returns the claims only if the signature is valid and the
// credential has not expired. Every other condition is ErrInvalidSession.
func (i *Issuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

type ctxKey struct{}

// NewContext returns a context carrying verified session claims.
func NewContext(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext extracts the session claims placed by the auth middleware.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}
