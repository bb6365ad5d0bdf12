package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

// Tokens are issued by the university identity service; this engine only
// verifies them. Signature scheme and claim layout follow that service's
// contract: HS256, shared secret, role claim.

// JWTConfig defines token verification settings.
type JWTConfig struct {
	SecretKey   string
	TokenIssuer string
}

// JWTService verifies bearer tokens.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT verification service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// Claims defines the token content the engine relies on.
type Claims struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	RoleType string `json:"roleType"`
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrTokenInvalid
		}
		return []byte(s.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	if s.config.TokenIssuer != "" && claims.Issuer != s.config.TokenIssuer {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// ExtractBearerToken strips the "Bearer " prefix from an Authorization
// header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.ErrTokenInvalid
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1]), nil
	}
	// Some clients send the raw token without a scheme.
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "", apperrors.ErrTokenInvalid
}
