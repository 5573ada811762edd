package models

import (
	"time"
)

const (
	RoleOperator = "ROLE_OPERATOR"
	RoleAdmin    = "ROLE_ADMIN"
)

type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"not null;index"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"not null"`
	ImgURL      string  `gorm:"column:img_url"`
	Date        time.Time

	Categories []Category `gorm:"many2many:product_categories;"`
}

type Role struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Authority string `gorm:"uniqueIndex;not null"`
}

type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	FirstName string `gorm:"not null"`
	LastName  string
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`

	Roles []Role `gorm:"many2many:user_roles;"`
}

func (u *User) Authorities() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Authority)
	}
	return out
}
