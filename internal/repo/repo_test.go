package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/db/dbtest"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/util"
)

type fixture struct {
	repo       *GormRepo
	books      models.Category
	electronic models.Category
	computers  models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	r := &GormRepo{DB: dbtest.Open(t)}

	f := &fixture{
		repo:       r,
		books:      models.Category{Name: "Livros"},
		electronic: models.Category{Name: "Eletrônicos"},
		computers:  models.Category{Name: "Computadores"},
	}
	for _, c := range []*models.Category{&f.books, &f.electronic, &f.computers} {
		require.NoError(t, r.CreateCategory(ctx, c))
	}

	date := time.Date(2020, 7, 14, 10, 0, 0, 0, time.UTC)
	products := []models.Product{
		{Name: "The Lord of the Rings", Description: "Fantasy", Price: 90.5, Date: date, Categories: []models.Category{f.books}},
		{Name: "Smart TV", Description: "TV", Price: 2190, Date: date, Categories: []models.Category{f.electronic, f.computers}},
		{Name: "Macbook Pro", Description: "Laptop", Price: 1250, Date: date, Categories: []models.Category{f.computers}},
		{Name: "PC Gamer", Description: "Desktop", Price: 1200, Date: date, Categories: []models.Category{f.computers}},
		{Name: "PC Gamer Alfa", Description: "Desktop", Price: 1850, Date: date, Categories: []models.Category{f.computers}},
	}
	for i := range products {
		require.NoError(t, r.CreateProduct(ctx, &products[i]))
	}
	return f
}

func page(size int, sort ...util.SortOrder) util.PageRequest {
	return util.PageRequest{Page: 0, Size: size, Sort: sort}
}

func TestFindProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("no filters returns everything", func(t *testing.T) {
		items, total, err := f.repo.FindProducts(ctx, 0, "", page(20))
		require.NoError(t, err)
		require.EqualValues(t, 5, total)
		require.Len(t, items, 5)
	})

	t.Run("product in two categories appears once", func(t *testing.T) {
		items, total, err := f.repo.FindProducts(ctx, f.computers.ID, "", page(20))
		require.NoError(t, err)
		require.EqualValues(t, 4, total)
		require.Len(t, items, 4)
		for _, p := range items {
			require.NotEmpty(t, p.Categories)
		}
	})

	t.Run("name is a case-insensitive substring", func(t *testing.T) {
		items, total, err := f.repo.FindProducts(ctx, 0, "pc gAMER", page(20))
		require.NoError(t, err)
		require.EqualValues(t, 2, total)
		require.Len(t, items, 2)
	})

	t.Run("wildcards in the name are literal", func(t *testing.T) {
		_, total, err := f.repo.FindProducts(ctx, 0, "%", page(20))
		require.NoError(t, err)
		require.EqualValues(t, 0, total)
	})

	t.Run("sorted by name", func(t *testing.T) {
		items, _, err := f.repo.FindProducts(ctx, f.computers.ID, "", page(3, util.SortOrder{Column: "products.name"}))
		require.NoError(t, err)
		require.Len(t, items, 3)
		require.Equal(t, "Macbook Pro", items[0].Name)
		require.Equal(t, "PC Gamer", items[1].Name)
		require.Equal(t, "PC Gamer Alfa", items[2].Name)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		items, total, err := f.repo.FindProducts(ctx, 0, "", util.PageRequest{Page: 3, Size: 2})
		require.NoError(t, err)
		require.EqualValues(t, 5, total)
		require.Empty(t, items)
	})
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.repo.GetProduct(ctx, 2)
	require.NoError(t, err)
	require.Len(t, p.Categories, 2)

	p.Name = "Smart TV 4K"
	p.Categories = []models.Category{f.books}
	require.NoError(t, f.repo.UpdateProduct(ctx, p))

	got, err := f.repo.GetProduct(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Smart TV 4K", got.Name)
	require.Len(t, got.Categories, 1)
	require.Equal(t, f.books.ID, got.Categories[0].ID)

	err = f.repo.UpdateProduct(ctx, &models.Product{ID: 1000, Name: "ghost"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.DeleteProduct(ctx, 2))
	_, err := f.repo.GetProduct(ctx, 2)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var links int64
	require.NoError(t, f.repo.DB.Table("product_categories").Where("product_id = ?", 2).Count(&links).Error)
	require.Zero(t, links)

	require.ErrorIs(t, f.repo.DeleteProduct(ctx, 1000), gorm.ErrRecordNotFound)
}

func TestDeleteCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repo.DeleteCategory(ctx, f.computers.ID)
	require.ErrorIs(t, err, ErrIntegrity)

	unused := models.Category{Name: "Unused"}
	require.NoError(t, f.repo.CreateCategory(ctx, &unused))
	require.NoError(t, f.repo.DeleteCategory(ctx, unused.ID))
	require.ErrorIs(t, f.repo.DeleteCategory(ctx, unused.ID), gorm.ErrRecordNotFound)
}

func TestTxRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repo.Tx(ctx, func(tx *GormRepo) error {
		if err := tx.CreateCategory(ctx, &models.Category{Name: "Temporary"}); err != nil {
			return err
		}
		return tx.DeleteCategory(ctx, f.computers.ID)
	})
	require.ErrorIs(t, err, ErrIntegrity)

	_, total, err := f.repo.FindCategories(ctx, page(20))
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
}

func TestUsersAndRoles(t *testing.T) {
	ctx := context.Background()
	r := &GormRepo{DB: dbtest.Open(t)}

	roles, err := r.EnsureRoles(ctx, models.RoleOperator, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	again, err := r.EnsureRoles(ctx, models.RoleOperator, models.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, roles, again)

	u := models.User{FirstName: "Maria", LastName: "Green", Email: "maria@gmail.com", Password: "hash", Roles: roles}
	require.NoError(t, r.CreateUser(ctx, &u))

	got, err := r.FindUserByEmail(ctx, "maria@gmail.com")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{models.RoleOperator, models.RoleAdmin}, got.Authorities())

	dup := models.User{FirstName: "Other", Email: "maria@gmail.com", Password: "hash"}
	require.ErrorIs(t, r.CreateUser(ctx, &dup), ErrIntegrity)

	got.FirstName = "Mary"
	got.Roles = roles[:1]
	require.NoError(t, r.UpdateUser(ctx, got))

	reloaded, err := r.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Mary", reloaded.FirstName)
	require.Equal(t, "hash", reloaded.Password)
	require.Equal(t, []string{models.RoleOperator}, reloaded.Authorities())

	require.NoError(t, r.DeleteUser(ctx, u.ID))
	_, err = r.GetUser(ctx, u.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
