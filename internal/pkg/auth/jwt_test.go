package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func testClaims(issuer string, expiresIn time.Duration) Claims {
	return Claims{
		UserID:   42,
		Email:    "moderator@tvu.edu.vn",
		RoleType: "MODERATOR",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
}

func TestValidateToken(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: testSecret, TokenIssuer: "tvu-identity"})

	t.Run("valid token", func(t *testing.T) {
		claims, err := svc.ValidateToken(signToken(t, testSecret, testClaims("tvu-identity", time.Hour)))
		require.NoError(t, err)
		require.Equal(t, int64(42), claims.UserID)
		require.Equal(t, "MODERATOR", claims.RoleType)
	})

	t.Run("expired token", func(t *testing.T) {
		_, err := svc.ValidateToken(signToken(t, testSecret, testClaims("tvu-identity", -time.Hour)))
		require.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := svc.ValidateToken(signToken(t, "other-secret", testClaims("tvu-identity", time.Hour)))
		require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := svc.ValidateToken(signToken(t, testSecret, testClaims("someone-else", time.Hour)))
		require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
