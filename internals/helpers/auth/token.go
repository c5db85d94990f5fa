package helper

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type Claims struct {
	Kind     PrincipalKind `json:"kind"`
	Role     string        `json:"role"`
	TenantID string        `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 access token for p.
func IssueToken(secret string, p Principal, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	exp := now.Add(ttl)
	claims := Claims{
		Kind: p.Kind,
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	if p.TenantID != nil {
		claims.TenantID = p.TenantID.String()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken verifies the signature and expiry and returns the principal it carries.
func ParseToken(secret, raw string, now time.Time) (Principal, time.Time, error) {
	claims := &Claims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Principal{}, time.Time{}, ErrTokenInvalid
	}
	if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) {
		return Principal{}, time.Time{}, ErrTokenExpired
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, time.Time{}, ErrTokenInvalid
	}
	if claims.Kind != KindStaff && claims.Kind != KindStudent {
		return Principal{}, time.Time{}, ErrTokenInvalid
	}

	p := Principal{Kind: claims.Kind, UserID: uid, Role: claims.Role}
	if claims.TenantID != "" {
		tid, err := uuid.Parse(claims.TenantID)
		if err != nil {
			return Principal{}, time.Time{}, ErrTokenInvalid
		}
		p.TenantID = &tid
	}
	return p, claims.ExpiresAt.Time, nil
}

// GetRawAccessToken reads "Authorization: Bearer" first, then the access_token cookie.
func GetRawAccessToken(c *fiber.Ctx, allowCookie bool) string {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if allowCookie {
		return strings.TrimSpace(c.Cookies("access_token"))
	}
	return ""
}

// TokenFingerprint is what gets stored in the blacklist instead of the raw token.
func TokenFingerprint(raw, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(raw))
	return hex.EncodeToString(m.Sum(nil))
}
