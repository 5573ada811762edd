package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrIntegrity marks a write rejected by a foreign-key or unique constraint.
var ErrIntegrity = errors.New("integrity violation")

type GormRepo struct {
	DB *gorm.DB
}

// Tx runs fn inside a single transaction; fn must only use the repo it is given.
func (r *GormRepo) Tx(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "constraint failed") {
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return err
}

// likePattern builds a case-insensitive substring pattern, escaping wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
