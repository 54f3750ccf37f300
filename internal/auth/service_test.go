package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/deliverypro/deliverypro-backend/pkg/config"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/redis"
)

func newTestService(t *testing.T, latency time.Duration) Service {
	t.Helper()
	store, err := redis.New(context.Background(), config.RedisConfig{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	svc, err := NewService(config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "deliverypro",
		ExpirationMinutes: 60,
	}, store, logg, latency)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestLoginAcceptsAnyCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)
	session, err := svc.Login(context.Background(), "anyone@example.com", "whatever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a signed token")
	}
	if session.Email != "anyone@example.com" {
		t.Fatalf("unexpected email %q", session.Email)
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)
	_, err := svc.Login(context.Background(), "", "pw")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)
	session, err := svc.Register(context.Background(), "Maria", "maria@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.Validate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Email != "maria@example.com" || claims.Name != "Maria" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)
	_, err := svc.Validate(context.Background(), "not-a-jwt")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)
	session, err := svc.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Logout(context.Background(), session.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Validate(context.Background(), session.Token)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

func TestSimulatedLatencyHonorsCancellation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := svc.Login(ctx, "a@b.com", "pw")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected immediate return, took %s", elapsed)
	}
}

func TestForgotPasswordAlwaysSucceeds(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)
	if err := svc.ForgotPassword(context.Background(), "lost@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.ForgotPassword(context.Background(), ""); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for blank email")
	}
}
