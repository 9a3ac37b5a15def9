// Package jwt decodes bearer token payloads for scheduling purposes.
//
// Tokens are parsed WITHOUT signature verification. The decoded expiry only
// decides when to refresh proactively; it is never used to decide whether a
// token is trustworthy. The backend verifies every token it receives.
package jwt

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
)

// Ensure Codec implements the interface.
var _ driven.TokenCodec = (*Codec)(nil)

// Codec is an unverified JWT payload decoder.
type Codec struct {
	parser *jwt.Parser
}

// NewCodec creates a codec.
func NewCodec() *Codec {
	return &Codec{parser: jwt.NewParser()}
}

// Decode returns the payload claims of a compact token, or false when the
// payload segment is not base64url JSON. Only the middle segment is read: the
// header and signature are never inspected, so an unknown or missing alg does
// not hide a usable exp. It never panics.
func (c *Codec) Decode(token string) (claims *domain.Claims, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			claims, ok = nil, false
		}
	}()

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, false
	}
	payload, err := c.parser.DecodeSegment(segments[1])
	if err != nil {
		return nil, false
	}

	var mapClaims jwt.MapClaims
	if err := json.Unmarshal(payload, &mapClaims); err != nil || mapClaims == nil {
		return nil, false
	}

	claims = &domain.Claims{Raw: map[string]any(mapClaims)}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, true
}

// ExpirationInstant returns the exp claim, or false when it is absent or malformed.
func (c *Codec) ExpirationInstant(token string) (time.Time, bool) {
	claims, ok := c.Decode(token)
	if !ok || !claims.HasExpiry() {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}
