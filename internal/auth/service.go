package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/deliverypro/deliverypro-backend/pkg/config"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/redis"
)

// Claims is the JWT payload for dashboard sessions.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionInfo is what login and register hand back to the client.
type SessionInfo struct {
	Token     string    `json:"token"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service implements the demo authentication flow. Credentials are never
// verified against anything: any non-blank email and password log in after a
// simulated network delay, which is exactly what the storefront demo expects.
// The minted tokens are real signed JWTs tracked in the session store, so the
// dashboard middleware behaves like a production deployment.
type Service interface {
	Login(ctx context.Context, email, password string) (*SessionInfo, error)
	Register(ctx context.Context, name, email, password string) (*SessionInfo, error)
	ForgotPassword(ctx context.Context, email string) error
	Validate(ctx context.Context, token string) (*Claims, error)
	Logout(ctx context.Context, token string) error
}

type service struct {
	cfg     config.JWTConfig
	store   *redis.Client
	logger  *logger.Logger
	latency time.Duration

	now func() time.Time
}

// NewService wires the mocked auth service.
func NewService(cfg config.JWTConfig, store *redis.Client, logg *logger.Logger, latency time.Duration) (Service, error) {
	if store == nil {
		return nil, errors.New("session store required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret required")
	}

	return &service{
		cfg:     cfg,
		store:   store,
		logger:  logg,
		latency: latency,
		now:     time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*SessionInfo, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	return s.mintSession(ctx, "", email)
}

func (s *service) Register(ctx context.Context, name, email, password string) (*SessionInfo, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	return s.mintSession(ctx, name, email)
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := s.simulateLatency(ctx); err != nil {
		return err
	}

	// No mail is ever sent; the flow just confirms.
	s.logger.Info(s.logger.WithField(ctx, "email", email), "password reset requested")
	return nil
}

func (s *service) Validate(ctx context.Context, token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithIssuer(s.cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	if _, err := s.store.Get(ctx, s.store.DashboardSessionKey(claims.ID)); err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or revoked")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
	}
	return claims, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	claims, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.store.Del(ctx, s.store.DashboardSessionKey(claims.ID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) mintSession(ctx context.Context, name, email string) (*SessionInfo, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.Expiration())
	jti := uuid.NewString()

	claims := Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.cfg.Issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign token")
	}
	if err := s.store.Set(ctx, s.store.DashboardSessionKey(jti), email, s.cfg.Expiration()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session")
	}

	s.logger.Info(s.logger.WithField(ctx, "email", email), "dashboard session created")
	return &SessionInfo{
		Token:     token,
		Name:      name,
		Email:     email,
		ExpiresAt: expiresAt,
	}, nil
}

// simulateLatency sleeps for the configured demo delay, honoring cancellation.
func (s *service) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
