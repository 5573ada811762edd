package transport

import (
	"time"

	"github.com/Skotchmaster/catalog/internal/models"
)

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
}

type ProductDTO struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name" validate:"required,min=5,max=60"`
	Description string        `json:"description" validate:"required"`
	Price       float64       `json:"price" validate:"gt=0"`
	ImgURL      string        `json:"imgUrl"`
	Date        time.Time     `json:"date" validate:"pastorpresent"`
	Categories  []CategoryDTO `json:"categories"`
}

type RoleDTO struct {
	ID        int64  `json:"id"`
	Authority string `json:"authority"`
}

type UserDTO struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName" validate:"required"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email" validate:"required,email"`
	Roles     []RoleDTO `json:"roles"`
}

type UserInsertDTO struct {
	UserDTO
	Password string `json:"password" validate:"required,min=6"`
}

type UserUpdateDTO struct {
	UserDTO
}

func NewCategoryDTO(c *models.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

func NewProductDTO(p *models.Product) ProductDTO {
	cats := make([]CategoryDTO, 0, len(p.Categories))
	for i := range p.Categories {
		cats = append(cats, NewCategoryDTO(&p.Categories[i]))
	}
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImgURL:      p.ImgURL,
		Date:        p.Date.UTC(),
		Categories:  cats,
	}
}

func NewRoleDTO(r *models.Role) RoleDTO {
	return RoleDTO{ID: r.ID, Authority: r.Authority}
}

// NewUserDTO drops the password hash.
func NewUserDTO(u *models.User) UserDTO {
	roles := make([]RoleDTO, 0, len(u.Roles))
	for i := range u.Roles {
		roles = append(roles, NewRoleDTO(&u.Roles[i]))
	}
	return UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Roles:     roles,
	}
}

// Entity conversions for writes. Association ids are resolved by the service.

func (d *ProductDTO) Model() models.Product {
	return models.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImgURL:      d.ImgURL,
		Date:        d.Date.UTC(),
	}
}

func (d *ProductDTO) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(d.Categories))
	for _, c := range d.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func (d *UserDTO) Model() models.User {
	return models.User{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
	}
}

func (d *UserDTO) RoleIDs() []int64 {
	ids := make([]int64, 0, len(d.Roles))
	for _, r := range d.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}
