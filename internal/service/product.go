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

type ProductService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *ProductService) FindAll(ctx context.Context, categoryID int64, name string, pr util.PageRequest) ([]models.Product, int64, error) {
	items, total, err := s.Repo.FindProducts(ctx, categoryID, name, pr)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	return items, total, nil
}

func (s *ProductService) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return p, nil
}

func (s *ProductService) Insert(ctx context.Context, p models.Product, categoryIDs []int64) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.insert")

	p.ID = 0
	var created *models.Product
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		cats, err := resolveCategories(ctx, tx, categoryIDs)
		if err != nil {
			return err
		}
		p.Categories = cats
		if err := tx.CreateProduct(ctx, &p); err != nil {
			return err
		}
		created, err = tx.GetProduct(ctx, p.ID)
		return err
	})
	if err != nil {
		l.Warn("insert_failed", "error", err)
		return nil, mapRepoErr(err)
	}

	publish(ctx, s.Events, events.TopicProducts, events.New(events.ProductCreated, created.ID, created.Name))
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, p models.Product, categoryIDs []int64) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.update", "id", id)

	p.ID = id
	var updated *models.Product
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		cats, err := resolveCategories(ctx, tx, categoryIDs)
		if err != nil {
			return err
		}
		p.Categories = cats
		if err := tx.UpdateProduct(ctx, &p); err != nil {
			return err
		}
		updated, err = tx.GetProduct(ctx, id)
		return err
	})
	if err != nil {
		l.Warn("update_failed", "error", err)
		return nil, mapRepoErr(err)
	}

	publish(ctx, s.Events, events.TopicProducts, events.New(events.ProductUpdated, updated.ID, updated.Name))
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		logging.FromContext(ctx).Warn("delete_failed", "svc", "product.delete", "id", id, "error", err)
		return mapRepoErr(err)
	}

	publish(ctx, s.Events, events.TopicProducts, events.New(events.ProductDeleted, id, ""))
	return nil
}

func resolveCategories(ctx context.Context, tx *repo.GormRepo, ids []int64) ([]models.Category, error) {
	ids = uniqueIDs(ids)
	cats, err := tx.GetCategoriesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(cats) != len(ids) {
		return nil, fmt.Errorf("%w: category id in %v", ErrNotFound, ids)
	}
	return cats, nil
}
