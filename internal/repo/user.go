package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/util"
)

var UserSortColumns = map[string]string{
	"id":        "users.id",
	"firstName": "users.first_name",
	"lastName":  "users.last_name",
	"email":     "users.email",
}

func (r *GormRepo) FindUsers(ctx context.Context, pr util.PageRequest) ([]models.User, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.User, 0, pr.Size)
	if err := r.DB.WithContext(ctx).
		Preload("Roles").
		Order(pr.OrderBy("users.id ASC")).
		Offset(pr.Offset()).
		Limit(pr.Size).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Roles").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.DB.WithContext(ctx).Omit("Roles.*").Create(user).Error)
}

// UpdateUser copies names and email by id; the password is left untouched.
func (r *GormRepo) UpdateUser(ctx context.Context, user *models.User) error {
	res := r.DB.WithContext(ctx).Model(&models.User{ID: user.ID}).Updates(map[string]any{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	assoc := r.DB.WithContext(ctx).Model(&models.User{ID: user.ID}).Association("Roles")
	if len(user.Roles) == 0 {
		return translate(assoc.Clear())
	}
	return translate(assoc.Replace(user.Roles))
}

func (r *GormRepo) DeleteUser(ctx context.Context, id int64) error {
	if err := r.DB.WithContext(ctx).Model(&models.User{ID: id}).Association("Roles").Clear(); err != nil {
		return translate(err)
	}

	res := r.DB.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
