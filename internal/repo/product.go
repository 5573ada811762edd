package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/util"
)

var ProductSortColumns = map[string]string{
	"id":    "products.id",
	"name":  "products.name",
	"price": "products.price",
	"date":  "products.date",
}

// FindProducts filters by category (0 means any) and by a name substring.
func (r *GormRepo) FindProducts(ctx context.Context, categoryID int64, name string, pr util.PageRequest) ([]models.Product, int64, error) {
	filtered := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Product{})
		if categoryID != 0 {
			q = q.Where("products.id IN (SELECT pc.product_id FROM product_categories pc WHERE pc.category_id = ?)", categoryID)
		}
		if name != "" {
			q = q.Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, likePattern(name))
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.Product, 0, pr.Size)
	if total == 0 {
		return items, 0, nil
	}
	if err := filtered().
		Preload("Categories").
		Order(pr.OrderBy("products.id ASC")).
		Offset(pr.Offset()).
		Limit(pr.Size).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Categories").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(r.DB.WithContext(ctx).Omit("Categories.*").Create(product).Error)
}

// UpdateProduct copies the scalar fields by id and replaces the category set.
func (r *GormRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{ID: product.ID}).Updates(map[string]any{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"img_url":     product.ImgURL,
		"date":        product.Date,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	assoc := r.DB.WithContext(ctx).Model(&models.Product{ID: product.ID}).Association("Categories")
	if len(product.Categories) == 0 {
		return translate(assoc.Clear())
	}
	return translate(assoc.Replace(product.Categories))
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id int64) error {
	if err := r.DB.WithContext(ctx).Model(&models.Product{ID: id}).Association("Categories").Clear(); err != nil {
		return translate(err)
	}

	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
