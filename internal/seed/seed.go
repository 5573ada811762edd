// Package seed loads the roles, the two back-office accounts and a small demo catalog.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/hash"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/repo"
)

type Account struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Admin     bool
}

type Options struct {
	Accounts []Account
	Demo     bool
}

func DefaultOptions() Options {
	return Options{
		Accounts: []Account{
			{FirstName: "Alex", LastName: "Brown", Email: "alex@gmail.com", Password: "123456"},
			{FirstName: "Maria", LastName: "Green", Email: "maria@gmail.com", Password: "123456", Admin: true},
		},
		Demo: true,
	}
}

// Run is idempotent: existing accounts and a non-empty catalog are left alone.
func Run(ctx context.Context, r *repo.GormRepo, opts Options) error {
	l := logging.FromContext(ctx).With("component", "seed")

	return r.Tx(ctx, func(tx *repo.GormRepo) error {
		roles, err := tx.EnsureRoles(ctx, models.RoleOperator, models.RoleAdmin)
		if err != nil {
			return fmt.Errorf("roles: %w", err)
		}
		operator, admin := roles[0], roles[1]

		for _, a := range opts.Accounts {
			_, err := tx.FindUserByEmail(ctx, a.Email)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			pw, err := hash.HashPassword(a.Password)
			if err != nil {
				return err
			}
			u := models.User{FirstName: a.FirstName, LastName: a.LastName, Email: a.Email, Password: pw, Roles: []models.Role{operator}}
			if a.Admin {
				u.Roles = append(u.Roles, admin)
			}
			if err := tx.CreateUser(ctx, &u); err != nil {
				return fmt.Errorf("user %s: %w", a.Email, err)
			}
			l.Info("seed_user_created", "email", a.Email)
		}

		if !opts.Demo {
			return nil
		}
		return demoCatalog(ctx, tx, l)
	})
}

func demoCatalog(ctx context.Context, tx *repo.GormRepo, l *slog.Logger) error {
	var existing int64
	if err := tx.DB.WithContext(ctx).Model(&models.Category{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	books := models.Category{Name: "Livros"}
	electronics := models.Category{Name: "Eletrônicos"}
	computers := models.Category{Name: "Computadores"}
	for _, c := range []*models.Category{&books, &electronics, &computers} {
		if err := tx.CreateCategory(ctx, c); err != nil {
			return fmt.Errorf("category %s: %w", c.Name, err)
		}
	}

	date := time.Date(2020, 7, 13, 20, 50, 7, 0, time.UTC)
	products := []models.Product{
		{Name: "The Lord of the Rings", Description: "Lorem ipsum dolor sit amet, consectetur adipiscing elit.", Price: 90.5, ImgURL: "https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/1-big.jpg", Date: date, Categories: []models.Category{books}},
		{Name: "Smart TV", Description: "Lorem ipsum dolor sit amet, consectetur adipiscing elit.", Price: 2190.0, ImgURL: "https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/2-big.jpg", Date: date, Categories: []models.Category{electronics, computers}},
		{Name: "Macbook Pro", Description: "Lorem ipsum dolor sit amet, consectetur adipiscing elit.", Price: 1250.0, ImgURL: "https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/3-big.jpg", Date: date, Categories: []models.Category{computers}},
		{Name: "PC Gamer", Description: "Lorem ipsum dolor sit amet, consectetur adipiscing elit.", Price: 1200.0, ImgURL: "https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/4-big.jpg", Date: date, Categories: []models.Category{computers}},
		{Name: "PC Gamer Alfa", Description: "Lorem ipsum dolor sit amet, consectetur adipiscing elit.", Price: 1850.0, ImgURL: "https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/5-big.jpg", Date: date, Categories: []models.Category{computers}},
	}
	for i := range products {
		if err := tx.CreateProduct(ctx, &products[i]); err != nil {
			return fmt.Errorf("product %s: %w", products[i].Name, err)
		}
	}

	l.Info("seed_catalog_created", "categories", 3, "products", len(products))
	return nil
}
