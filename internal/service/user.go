package service

import (
	"context"
	"fmt"

	"github.com/promiseee/pizza-delivery-api/internal/logging"
	"github.com/promiseee/pizza-delivery-api/internal/models"
	"github.com/promiseee/pizza-delivery-api/internal/repo"
	"github.com/promiseee/pizza-delivery-api/internal/tokens"
)

type UserService struct {
	Repo   *repo.GormRepo
	Policy *AuthPolicy
}

// GetUser returns another user's details, staff only (live flag).
func (s *UserService) GetUser(ctx context.Context, identity string, userID uint) (*models.User, error) {
	staff, err := s.Policy.LiveStaffCheck(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !staff {
		return nil, fmt.Errorf("%w: staff only", ErrForbidden)
	}

	user, err := s.Repo.UserWithOrders(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user and the orders they own, staff only (live flag).
// The route additionally requires a fresh token, enforced at the boundary.
func (s *UserService) DeleteUser(ctx context.Context, identity string, userID uint) error {
	l := logging.FromContext(ctx).With("svc", "user.delete")

	staff, err := s.Policy.LiveStaffCheck(ctx, identity)
	if err != nil {
		return err
	}
	if !staff {
		return fmt.Errorf("%w: staff only", ErrForbidden)
	}

	if err := s.Repo.DeleteUser(ctx, userID); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		l.Error("delete_user_error", "user_id", userID, "error", err)
		return err
	}

	l.Info("user_deleted", "user_id", userID, "by", identity)
	return nil
}

// GrantStaff flips is_staff on the target user. Unlike the other admin routes
// this one is gated on the caller token's frozen app_admin claim, not the live
// database flag.
func (s *UserService) GrantStaff(ctx context.Context, claims *tokens.Claims, userID uint) (*models.User, error) {
	if !s.Policy.TokenAdminClaimCheck(claims) {
		return nil, fmt.Errorf("%w: admin privilege only", ErrForbidden)
	}

	user, err := s.Repo.GrantStaff(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}
