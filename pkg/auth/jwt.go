package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrSecretShort  = errors.New("jwt secret must be at least 16 bytes")
)

// MinSecretLen is the shortest HMAC secret accepted.
const MinSecretLen = 16

type JWTService interface {
	// GenerateAccessToken signs a session token for user and returns it with
	// its claims.
	GenerateAccessToken(user *model.User) (string, *model.TokenClaims, error)
	// ValidateToken checks signature, algorithm, issuer and expiry.
	ValidateToken(token string) (*model.TokenClaims, error)
}

type Config struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

type jwtService struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

func NewJWTService(cfg Config) (JWTService, error) {
	if len(cfg.Secret) < MinSecretLen {
		return nil, ErrSecretShort
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = 12 * time.Hour
	}
	return &jwtService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		expiry: cfg.Expiry,
		now:    time.Now,
	}, nil
}

func (s *jwtService) GenerateAccessToken(user *model.User) (string, *model.TokenClaims, error) {
	now := s.now()
	claims := &model.TokenClaims{
		Name:       user.Name,
		Role:       user.Role,
		Department: user.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*model.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &model.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if _, err := ulid.ParseStrict(claims.ID); err != nil {
		return nil, fmt.Errorf("%w: bad token id", ErrInvalidToken)
	}
	return claims, nil
}

// IssuedAt returns the millisecond issue time carried in a token id. Token
// ids are ULIDs, which keeps sub-second ordering that the iat claim drops.
func IssuedAt(claims *model.TokenClaims) time.Time {
	id, err := ulid.ParseStrict(claims.ID)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(id.Time())
}
