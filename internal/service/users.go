package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/game_shop/internal/events"
	"github.com/Skotchmaster/game_shop/internal/hash"
	"github.com/Skotchmaster/game_shop/internal/logging"
	"github.com/Skotchmaster/game_shop/internal/models"
	"github.com/Skotchmaster/game_shop/internal/repo"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// AccountUpdate is a change to the current user's own account. Password
// fields are optional; a new password needs the current one.
type AccountUpdate struct {
	Email           string
	CurrentPassword string
	NewPassword     string
}

func (s *UserService) UpdateAccount(ctx context.Context, user *models.User, upd AccountUpdate) error {
	l := logging.FromContext(ctx).With("svc", "users.update_account", "user_id", user.ID)

	email := normalizeEmail(upd.Email)
	if email == "" {
		return fmt.Errorf("%w: email required", ErrValidation)
	}
	if email != user.Email {
		taken, err := s.Repo.EmailTaken(ctx, email, user.ID)
		if err != nil {
			return err
		}
		if taken {
			l.Warn("update_account_error", "status", 409, "reason", "email already registered")
			return ErrEmailTaken
		}
	}

	changed := *user
	changed.Email = email
	if upd.NewPassword != "" {
		if !hash.CheckPassword(user.PasswordHash, upd.CurrentPassword) {
			l.Warn("update_account_error", "status", 400, "reason", "wrong current password")
			return ErrWrongPassword
		}
		pwHash, err := hash.HashPassword(upd.NewPassword)
		if err != nil {
			return err
		}
		changed.PasswordHash = pwHash
	}

	if err := s.Repo.UpdateUser(ctx, &changed); err != nil {
		l.Error("update_account_error", "status", 500, "error", err)
		return err
	}
	*user = changed

	publish(ctx, s.Events, events.TopicUser, user.ID, map[string]any{
		"type":             "account_updated",
		"user_id":          user.ID,
		"password_changed": upd.NewPassword != "",
	})
	return nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

// Delete removes target on behalf of actorID. Admins cannot delete their own
// account.
func (s *UserService) Delete(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return ErrSelfDelete
	}
	if err := s.Repo.DeleteUser(ctx, targetID); err != nil {
		return err
	}
	publish(ctx, s.Events, events.TopicUser, targetID, map[string]any{
		"type":       "user_deleted",
		"user_id":    targetID,
		"deleted_by": actorID,
	})
	return nil
}

func (s *UserService) Promote(ctx context.Context, actorID, targetID uint) (*models.User, error) {
	if err := s.Repo.SetAdmin(ctx, targetID, true); err != nil {
		return nil, err
	}
	u, err := s.Repo.UserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	publish(ctx, s.Events, events.TopicUser, targetID, map[string]any{
		"type":        "user_promoted",
		"user_id":     targetID,
		"promoted_by": actorID,
	})
	return u, nil
}
