package repo

import (
	"context"

	"github.com/Skotchmaster/catalog/internal/models"
)

func (r *GormRepo) FindRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRepo) GetRolesByIDs(ctx context.Context, ids []int64) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(ids))
	if len(ids) == 0 {
		return roles, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// EnsureRoles creates the missing authorities and returns all of them in argument order.
func (r *GormRepo) EnsureRoles(ctx context.Context, authorities ...string) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(authorities))
	for _, a := range authorities {
		role := models.Role{Authority: a}
		if err := r.DB.WithContext(ctx).Where(models.Role{Authority: a}).FirstOrCreate(&role).Error; err != nil {
			return nil, translate(err)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
