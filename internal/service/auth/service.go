package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/activity"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/auth"
	apperrors "github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/metrics"
)

const (
	defaultMaxLoginAttempts = 5
	defaultLockoutWindow    = 15 * time.Minute
)

type Config struct {
	MaxLoginAttempts int
	LockoutWindow    time.Duration
}

type Service struct {
	userRepo  repository.UserRepository
	jwtSvc    auth.JWTService
	tokenRepo repository.TokenRepository
	activity  *activity.Service
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	maxAttempts int
	window      time.Duration
	attemptsMu  sync.Mutex
	attempts    *cache.Cache

	now func() time.Time
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, tokenRepo repository.TokenRepository,
	activitySvc *activity.Service, m *metrics.Metrics, logger zerolog.Logger, cfg Config) *Service {
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = defaultMaxLoginAttempts
	}
	if cfg.LockoutWindow <= 0 {
		cfg.LockoutWindow = defaultLockoutWindow
	}
	return &Service{
		userRepo:    userRepo,
		jwtSvc:      jwtSvc,
		tokenRepo:   tokenRepo,
		activity:    activitySvc,
		metrics:     m,
		logger:      logger.With().Str("component", "auth").Logger(),
		maxAttempts: cfg.MaxLoginAttempts,
		window:      cfg.LockoutWindow,
		attempts:    cache.New(cfg.LockoutWindow, cfg.LockoutWindow),
		now:         time.Now,
	}
}

// Login verifies employee credentials and issues a session token. After
// MaxLoginAttempts consecutive failures for one employee id, further attempts
// are refused until LockoutWindow passes.
func (s *Service) Login(ctx context.Context, employeeID, password string) (*model.LoginResult, error) {
	if s.lockedOut(employeeID) {
		s.metrics.LoginAttempts.WithLabelValues("locked").Inc()
		s.logger.Warn().Str("employee_id", employeeID).Msg("login refused, too many failed attempts")
		return nil, apperrors.TooManyAttempts()
	}

	user, err := s.userRepo.FindByCredentials(ctx, employeeID, password)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInvalidCredential {
			s.recordFailure(employeeID)
			s.metrics.LoginAttempts.WithLabelValues("failure").Inc()
			s.logger.Info().Str("employee_id", employeeID).Msg("login failed")
			return nil, apperrors.InvalidCredential(nil)
		}
		return nil, err
	}
	s.attempts.Delete(employeeID)

	token, claims, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}

	s.metrics.LoginAttempts.WithLabelValues("success").Inc()
	if err := s.activity.Record(ctx, model.ActivityLogin, activity.IconLogin,
		fmt.Sprintf("%s logged in.", user.Name)); err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user.Profile(),
	}, nil
}

func (s *Service) lockedOut(employeeID string) bool {
	n, found := s.attempts.Get(employeeID)
	return found && n.(int) >= s.maxAttempts
}

func (s *Service) recordFailure(employeeID string) {
	s.attemptsMu.Lock()
	defer s.attemptsMu.Unlock()

	if _, err := s.attempts.IncrementInt(employeeID, 1); err != nil {
		s.attempts.Set(employeeID, 1, s.window)
	}
}

// Resolve turns a presented credential into verified claims. It never reads
// the user table: a valid signature, an unexpired token and the absence of a
// revocation mark are sufficient.
func (s *Service) Resolve(ctx context.Context, credential string) (*model.TokenClaims, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, apperrors.MissingCredential()
	}

	claims, err := s.jwtSvc.ValidateToken(credential)
	if err != nil {
		return nil, apperrors.InvalidCredential(err)
	}

	revoked, err := s.tokenRepo.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if revoked {
		return nil, apperrors.InvalidCredential(fmt.Errorf("token %s revoked", claims.ID))
	}

	revokedAt, found, err := s.tokenRepo.UserRevokedAt(ctx, claims.Subject)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if found && !auth.IssuedAt(claims).After(revokedAt.Truncate(time.Millisecond)) {
		return nil, apperrors.InvalidCredential(fmt.Errorf("tokens for %s revoked", claims.Subject))
	}
	return claims, nil
}

// RequireRole fails with Forbidden unless identity holds role.
func RequireRole(identity *model.Identity, role model.Role) error {
	if identity == nil || identity.Role != role {
		return apperrors.Forbidden("")
	}
	return nil
}

// Logout revokes the presented token until it would have expired.
func (s *Service) Logout(ctx context.Context, claims *model.TokenClaims) error {
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.tokenRepo.RevokeToken(ctx, claims.ID, expiresAt); err != nil {
		return apperrors.Internal(err)
	}
	s.metrics.TokenRevocations.WithLabelValues("token").Inc()
	s.logger.Info().Str("user_id", claims.Subject).Msg("logged out")
	return nil
}

// RevokeUser invalidates every token issued to userID so far.
func (s *Service) RevokeUser(ctx context.Context, userID string) error {
	if err := s.tokenRepo.RevokeUser(ctx, userID, s.now()); err != nil {
		return apperrors.Internal(err)
	}
	s.metrics.TokenRevocations.WithLabelValues("user").Inc()
	s.logger.Info().Str("user_id", userID).Msg("revoked all sessions")
	return nil
}
