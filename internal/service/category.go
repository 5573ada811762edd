package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/util"
)

type CategoryService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CategoryService) FindAll(ctx context.Context, pr util.PageRequest) ([]models.Category, int64, error) {
	items, total, err := s.Repo.FindCategories(ctx, pr)
	if err != nil {
		return nil, 0, fmt.Errorf("find categories: %w", err)
	}
	return items, total, nil
}

func (s *CategoryService) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return c, nil
}

func (s *CategoryService) Insert(ctx context.Context, c models.Category) (*models.Category, error) {
	c.ID = 0
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		return tx.CreateCategory(ctx, &c)
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	publish(ctx, s.Events, events.TopicCategories, events.New(events.CategoryCreated, c.ID, c.Name))
	return &c, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, c models.Category) (*models.Category, error) {
	c.ID = id
	var updated *models.Category
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		if err := tx.UpdateCategory(ctx, &c); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetCategory(ctx, id)
		return err
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	publish(ctx, s.Events, events.TopicCategories, events.New(events.CategoryUpdated, updated.ID, updated.Name))
	return updated, nil
}

// Delete reports ErrDatabase while products still reference the category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		return tx.DeleteCategory(ctx, id)
	})
	if err != nil {
		logging.FromContext(ctx).Warn("delete_failed", "svc", "category.delete", "id", id, "error", err)
		return mapRepoErr(err)
	}

	publish(ctx, s.Events, events.TopicCategories, events.New(events.CategoryDeleted, id, ""))
	return nil
}
