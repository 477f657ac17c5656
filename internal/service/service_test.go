package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/promiseee/pizza-delivery-api/internal/hash"
	"github.com/promiseee/pizza-delivery-api/internal/models"
	"github.com/promiseee/pizza-delivery-api/internal/mykafka"
	"github.com/promiseee/pizza-delivery-api/internal/repo"
	"github.com/promiseee/pizza-delivery-api/internal/tokens"
)

type testEnv struct {
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Policy *AuthPolicy
	Tokens *tokens.Service
	Auth   *AuthService
	Orders *OrderService
	Users  *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.RevokedToken{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}
	policy := &AuthPolicy{Repo: gormRepo, SuperAdminUsername: "promiseee"}
	tokenSvc := &tokens.Service{
		Secret:     []byte("test-jwt-secret"),
		Blocklist:  gormRepo,
		AdminClaim: policy.ComputeAdminClaim,
	}
	producer := mykafka.NewProducer(nil)

	return &testEnv{
		DB:     db,
		Repo:   gormRepo,
		Policy: policy,
		Tokens: tokenSvc,
		Auth:   &AuthService{Repo: gormRepo, Tokens: tokenSvc, Producer: producer},
		Orders: &OrderService{Repo: gormRepo, Policy: policy, Producer: producer},
		Users:  &UserService{Repo: gormRepo, Policy: policy},
	}
}

func (env *testEnv) createUser(t *testing.T, username, email string, staff bool) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		IsStaff:      staff,
		IsActive:     true,
	}
	require.NoError(t, env.DB.Create(user).Error)
	return user
}

func (env *testEnv) placeOrder(t *testing.T, username string) *models.Order {
	t.Helper()

	order, err := env.Orders.PlaceOrder(context.Background(), username, "bacon")
	require.NoError(t, err)
	return order
}
