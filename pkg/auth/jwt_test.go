package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *model.User {
	return &model.User{ID: "001", Name: "Dr. Kim", Role: model.RoleDoctor, Department: "Endoscopy"}
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	_, err := NewJWTService(Config{Secret: "short"})
	assert.ErrorIs(t, err, ErrSecretShort)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService(Config{Secret: testSecret, Issuer: "scheduler", Expiry: time.Hour})
	require.NoError(t, err)

	token, issued, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "001", claims.Subject)
	assert.Equal(t, model.RoleDoctor, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)

	id := claims.Identity()
	assert.Equal(t, "001", id.UserID)
	assert.Equal(t, "Dr. Kim", id.Name)
}

func TestJWTService_RejectsTampering(t *testing.T) {
	svc, err := NewJWTService(Config{Secret: testSecret, Expiry: time.Hour})
	require.NoError(t, err)
	token, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"raw user id", "001"},
		{"truncated signature", token[:len(token)-4]},
		{"garbage", strings.Repeat("a", 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTService_RejectsOtherSecret(t *testing.T) {
	a, err := NewJWTService(Config{Secret: testSecret, Expiry: time.Hour})
	require.NoError(t, err)
	b, err := NewJWTService(Config{Secret: strings.Repeat("z", 32), Expiry: time.Hour})
	require.NoError(t, err)

	token, _, err := a.GenerateAccessToken(testUser())
	require.NoError(t, err)
	_, err = b.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc, err := NewJWTService(Config{Secret: testSecret, Expiry: time.Minute})
	require.NoError(t, err)
	s := svc.(*jwtService)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := s.GenerateAccessToken(testUser())
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	svc, err := NewJWTService(Config{Secret: testSecret, Expiry: time.Hour})
	require.NoError(t, err)

	claims := &model.TokenClaims{
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuedAt_MillisecondPrecision(t *testing.T) {
	svc, err := NewJWTService(Config{Secret: testSecret, Expiry: time.Hour})
	require.NoError(t, err)
	s := svc.(*jwtService)
	at := time.Date(2024, 3, 1, 9, 0, 0, 123_000_000, time.UTC)
	s.now = func() time.Time { return at }

	_, claims, err := s.GenerateAccessToken(testUser())
	require.NoError(t, err)
	assert.True(t, at.Equal(IssuedAt(claims)))
	assert.True(t, IssuedAt(&model.TokenClaims{}).IsZero())
}
