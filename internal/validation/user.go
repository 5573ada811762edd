package validation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/models"
)

type EmailLookup interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

func UserInsert(ctx context.Context, users EmailLookup, email string) error {
	_, err := users.FindUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &Errors{Fields: []FieldMessage{{FieldName: "email", Message: "Email already exists"}}}
}

// UserUpdate accepts an email that is free or already owned by user id.
func UserUpdate(ctx context.Context, users EmailLookup, id int64, email string) error {
	u, err := users.FindUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if u.ID != id {
		return &Errors{Fields: []FieldMessage{{FieldName: "email", Message: "Email already exists for another user"}}}
	}
	return nil
}
