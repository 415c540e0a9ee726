package jwt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token has expired")
)

// Claims are the fields the practice API puts in its access tokens.
// The signature is verified by the API itself; the portal only reads them.
type Claims struct {
	UserID   string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Inspector reads access tokens issued by the practice API without verifying
// them, so that obviously expired or malformed tokens are rejected before any
// upstream call is made.
type Inspector struct {
	parser *jwt.Parser
	leeway time.Duration
	now    func() time.Time
}

func NewInspector(leeway time.Duration) *Inspector {
	return &Inspector{
		parser: jwt.NewParser(),
		leeway: leeway,
		now:    time.Now,
	}
}

func (i *Inspector) Inspect(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := i.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrMalformedToken
	}

	if claims.ExpiresAt != nil && i.now().After(claims.ExpiresAt.Add(i.leeway)) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// SessionKey identifies the caller's session by a digest of the raw token.
// Claims are read without the signing secret, so they cannot name a session:
// a token that merely claims another user's subject gets its own session.
func SessionKey(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return "tok:" + hex.EncodeToString(sum[:])
}

type contextKey string

const tokenKey contextKey = "access_token"

// ContextWithToken stores the caller's bearer token for forwarding upstream
func ContextWithToken(ctx context.Context, tokenString string) context.Context {
	return context.WithValue(ctx, tokenKey, tokenString)
}

// TokenFromContext extracts the bearer token from context
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}
