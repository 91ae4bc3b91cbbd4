package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/testutil"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/config"
)

func setupAuthTest(t *testing.T) (*repository.Repositories, *AuthService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:             testutil.JWTSecret,
			AccessTokenExpire:  time.Hour,
			RefreshTokenExpire: 24 * time.Hour,
			Issuer:             "acm",
		},
	}
	// nil Redis client: refresh falls back to the token's own claims.
	return repos, NewAuthService(repos.User, nil, cfg)
}

func TestAuthLogin(t *testing.T) {
	_, svc := setupAuthTest(t)
	ctx := context.Background()

	if err := svc.EnsureUser(ctx, "operator", "operator-pass-1", entity.RoleUser); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	// Idempotent: a second ensure leaves the account alone.
	if err := svc.EnsureUser(ctx, "operator", "something-else", entity.RoleDeveloper); err != nil {
		t.Fatalf("second EnsureUser: %v", err)
	}

	user, pair, err := svc.Login(ctx, &LoginRequest{Username: "operator", Password: "operator-pass-1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Role != entity.RoleUser {
		t.Errorf("role = %q, want the original account untouched", user.Role)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.ExpiresIn != 3600 {
		t.Errorf("token pair = %+v", pair)
	}

	var ve *ValidationError
	if _, _, err := svc.Login(ctx, &LoginRequest{Username: "operator", Password: "wrong"}); !errors.As(err, &ve) {
		t.Errorf("wrong password should fail validation, got %v", err)
	}
	if _, _, err := svc.Login(ctx, &LoginRequest{Username: "nobody", Password: "whatever"}); !errors.As(err, &ve) {
		t.Errorf("unknown user should fail the same way, got %v", err)
	}
}

func TestAuthRefresh(t *testing.T) {
	_, svc := setupAuthTest(t)
	ctx := context.Background()

	if err := svc.EnsureUser(ctx, "operator", "operator-pass-1", entity.RoleUser); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	_, pair, err := svc.Login(ctx, &LoginRequest{Username: "operator", Password: "operator-pass-1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if fresh.AccessToken == "" || fresh.RefreshToken == "" {
		t.Error("refresh should issue a full pair")
	}

	var ve *ValidationError
	if _, err := svc.Refresh(ctx, "not-a-token"); !errors.As(err, &ve) {
		t.Errorf("garbage token should fail validation, got %v", err)
	}
	// An access token is not a refresh token.
	if _, err := svc.Refresh(ctx, pair.AccessToken); !errors.As(err, &ve) {
		t.Errorf("access token should be rejected, got %v", err)
	}
}

func TestAuthResetPassword(t *testing.T) {
	_, svc := setupAuthTest(t)
	ctx := context.Background()

	if err := svc.EnsureUser(ctx, "operator", "operator-pass-1", entity.RoleUser); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	if err := svc.ResetPassword(ctx, &ResetPasswordRequest{
		Username: "operator", NewPassword: "operator-pass-2",
	}); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, _, err := svc.Login(ctx, &LoginRequest{Username: "operator", Password: "operator-pass-2"}); err != nil {
		t.Errorf("new password should log in, got %v", err)
	}
	var ve *ValidationError
	if _, _, err := svc.Login(ctx, &LoginRequest{Username: "operator", Password: "operator-pass-1"}); !errors.As(err, &ve) {
		t.Errorf("old password should no longer work, got %v", err)
	}

	var ne *NotFoundError
	if err := svc.ResetPassword(ctx, &ResetPasswordRequest{
		Username: "nobody", NewPassword: "irrelevant1",
	}); !errors.As(err, &ne) {
		t.Errorf("unknown account should be not found, got %v", err)
	}
}
