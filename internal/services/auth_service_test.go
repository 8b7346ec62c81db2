package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vishall333/Smartlottery/internal/config"
	"github.com/Vishall333/Smartlottery/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type mockAdminRepo struct {
	Admins map[string]*models.AdminUser // keyed by email
}

func (r *mockAdminRepo) Create(ctx context.Context, admin *models.AdminUser) error {
	admin.ID = primitive.NewObjectID()
	r.Admins[admin.Email] = admin
	return nil
}

func (r *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	admin, ok := r.Admins[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return admin, nil
}

func newAuthFixture(t *testing.T, password string) (*AuthServiceImpl, *config.Config) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	adminRepo := &mockAdminRepo{Admins: map[string]*models.AdminUser{
		"admin@example.com": {
			ID:           primitive.NewObjectID(),
			Email:        "admin@example.com",
			PasswordHash: string(hash),
		},
	}}
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600},
	}
	return NewAuthService(adminRepo, cfg), cfg
}

func TestLogin(t *testing.T) {
	t.Run("Given valid credentials When logging in Then a signed admin token is issued", func(t *testing.T) {
		service, cfg := newAuthFixture(t, "s3cret")

		signed, err := service.Login(context.Background(), &models.LoginRequest{
			Email:    "admin@example.com",
			Password: "s3cret",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			t.Fatalf("token failed verification: %v", err)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			t.Fatal("unexpected claims type")
		}
		if claims["role"] != "admin" {
			t.Errorf("role claim = %v, want admin", claims["role"])
		}
		if claims["email"] != "admin@example.com" {
			t.Errorf("email claim = %v", claims["email"])
		}
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil {
			t.Fatalf("missing expiry claim: %v", err)
		}
		if !exp.After(time.Now()) {
			t.Error("token already expired")
		}
	})

	t.Run("Given a wrong password When logging in Then it is refused", func(t *testing.T) {
		service, _ := newAuthFixture(t, "s3cret")

		_, err := service.Login(context.Background(), &models.LoginRequest{
			Email:    "admin@example.com",
			Password: "wrong",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("Given an unknown email When logging in Then it is refused without leaking existence", func(t *testing.T) {
		service, _ := newAuthFixture(t, "s3cret")

		_, err := service.Login(context.Background(), &models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "s3cret",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
