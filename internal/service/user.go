package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/hash"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/util"
	"github.com/Skotchmaster/catalog/internal/validation"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *UserService) FindAll(ctx context.Context, pr util.PageRequest) ([]models.User, int64, error) {
	items, total, err := s.Repo.FindUsers(ctx, pr)
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	return items, total, nil
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return u, nil
}

func (s *UserService) Roles(ctx context.Context) ([]models.Role, error) {
	return s.Repo.FindRoles(ctx)
}

func (s *UserService) CheckInsert(ctx context.Context, email string) error {
	return validation.UserInsert(ctx, s.Repo, email)
}

func (s *UserService) CheckUpdate(ctx context.Context, id int64, email string) error {
	return validation.UserUpdate(ctx, s.Repo, id, email)
}

func (s *UserService) Insert(ctx context.Context, u models.User, password string, roleIDs []int64) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.insert")

	if password == "" {
		return nil, fmt.Errorf("%w: password required", ErrValidation)
	}
	pwHash, err := hash.HashPassword(password)
	if errors.Is(err, hash.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err != nil {
		l.Error("insert_failed", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	u.ID = 0
	u.Password = pwHash
	var created *models.User
	err = s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		roles, err := resolveRoles(ctx, tx, roleIDs)
		if err != nil {
			return err
		}
		u.Roles = roles
		if err := tx.CreateUser(ctx, &u); err != nil {
			return err
		}
		created, err = tx.GetUser(ctx, u.ID)
		return err
	})
	if err != nil {
		l.Warn("insert_failed", "error", err)
		return nil, mapRepoErr(err)
	}

	publish(ctx, s.Events, events.TopicUsers, events.New(events.UserCreated, created.ID, created.Email))
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id int64, u models.User, roleIDs []int64) (*models.User, error) {
	u.ID = id
	var updated *models.User
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		roles, err := resolveRoles(ctx, tx, roleIDs)
		if err != nil {
			return err
		}
		u.Roles = roles
		if err := tx.UpdateUser(ctx, &u); err != nil {
			return err
		}
		updated, err = tx.GetUser(ctx, id)
		return err
	})
	if err != nil {
		logging.FromContext(ctx).Warn("update_failed", "svc", "user.update", "id", id, "error", err)
		return nil, mapRepoErr(err)
	}

	publish(ctx, s.Events, events.TopicUsers, events.New(events.UserUpdated, updated.ID, updated.Email))
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		return tx.DeleteUser(ctx, id)
	})
	if err != nil {
		return mapRepoErr(err)
	}

	publish(ctx, s.Events, events.TopicUsers, events.New(events.UserDeleted, id, ""))
	return nil
}

func resolveRoles(ctx context.Context, tx *repo.GormRepo, ids []int64) ([]models.Role, error) {
	ids = uniqueIDs(ids)
	roles, err := tx.GetRolesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(ids) {
		return nil, fmt.Errorf("%w: role id in %v", ErrNotFound, ids)
	}
	return roles, nil
}
