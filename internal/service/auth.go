package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/promiseee/pizza-delivery-api/internal/hash"
	"github.com/promiseee/pizza-delivery-api/internal/logging"
	"github.com/promiseee/pizza-delivery-api/internal/models"
	"github.com/promiseee/pizza-delivery-api/internal/mykafka"
	"github.com/promiseee/pizza-delivery-api/internal/repo"
	"github.com/promiseee/pizza-delivery-api/internal/tokens"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *tokens.Service
	Producer *mykafka.Producer
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("signup_error", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		IsActive:     true,
	}

	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("signup_rejected", "status", 409, "reason", "duplicate username or email")
			return nil, fmt.Errorf("%w: username or email taken", ErrUserExists)
		}
		l.Error("signup_error", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return user, nil
}

// Login issues a fresh access token and a refresh token. Both carry the
// app_admin claim computed at this moment.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.Tokens.IssueAccessToken(user.Username, true)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Tokens.IssueRefreshToken(user.Username)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a new access token for the refresh-token holder. The result
// is never fresh.
func (s *AuthService) Refresh(ctx context.Context, claims *tokens.Claims) (string, error) {
	return s.Tokens.IssueAccessToken(claims.Subject, false)
}

// Logout puts the presented token's jti on the blocklist.
func (s *AuthService) Logout(ctx context.Context, claims *tokens.Claims) error {
	return s.Repo.Revoke(ctx, claims.ID, time.Now().UTC())
}

func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]interface{}) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Producer.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "error", err)
	}
}
