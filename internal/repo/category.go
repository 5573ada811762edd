package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/util"
)

var CategorySortColumns = map[string]string{
	"id":   "categories.id",
	"name": "categories.name",
}

func (r *GormRepo) FindCategories(ctx context.Context, pr util.PageRequest) ([]models.Category, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.Category, 0, pr.Size)
	if err := r.DB.WithContext(ctx).
		Order(pr.OrderBy("categories.id ASC")).
		Offset(pr.Offset()).
		Limit(pr.Size).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) GetCategoriesByIDs(ctx context.Context, ids []int64) ([]models.Category, error) {
	items := make([]models.Category, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return translate(r.DB.WithContext(ctx).Create(category).Error)
}

func (r *GormRepo) UpdateCategory(ctx context.Context, category *models.Category) error {
	res := r.DB.WithContext(ctx).Model(&models.Category{ID: category.ID}).Updates(map[string]any{
		"name": category.Name,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCategory fails with ErrIntegrity while any product still references the category.
func (r *GormRepo) DeleteCategory(ctx context.Context, id int64) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
