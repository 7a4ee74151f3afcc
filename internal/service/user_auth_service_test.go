package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/hostara-next/internal/config"
	"github.com/hostara-next/internal/models"
	"github.com/hostara-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:user_auth_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret"
	cfg.UserJWT.ExpireHours = 24

	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterBindsReferrer(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	referrer, err := svc.Register(RegisterInput{
		Email:    "referrer@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register referrer failed: %v", err)
	}
	if referrer.ReferralCode == "" {
		t.Fatal("expected generated referral code")
	}
	if referrer.ReferredByID != nil {
		t.Fatal("unexpected referrer binding")
	}

	invited, err := svc.Register(RegisterInput{
		Email:        "invited@example.com",
		Password:     "password123",
		ReferralCode: referrer.ReferralCode,
	})
	if err != nil {
		t.Fatalf("register invited failed: %v", err)
	}
	if invited.ReferredByID == nil || *invited.ReferredByID != referrer.ID {
		t.Fatalf("referral binding wrong: %+v", invited.ReferredByID)
	}
}

func TestRegisterRejectsInvalidReferralCode(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	_, err := svc.Register(RegisterInput{
		Email:        "user@example.com",
		Password:     "password123",
		ReferralCode: "NOSUCH",
	})
	if err != ErrReferralCodeInvalid {
		t.Fatalf("expected ErrReferralCodeInvalid, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	if _, err := svc.Register(RegisterInput{Email: "dup@example.com", Password: "password123"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(RegisterInput{Email: "DUP@example.com", Password: "password123"}); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	registered, err := svc.Register(RegisterInput{Email: "login@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, _, err := svc.Login("login@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user: %d", user.ID)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != registered.ID {
		t.Fatalf("unexpected token subject: %d", claims.UserID)
	}

	if _, _, _, err := svc.Login("login@example.com", "wrongpass"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
