package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/models"
)

type stubUsers map[string]int64

func (s stubUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	if email == "boom@gmail.com" {
		return nil, errors.New("connection reset")
	}
	id, ok := s[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.User{ID: id, Email: email}, nil
}

var users = stubUsers{"maria@gmail.com": 2, "alex@gmail.com": 1}

func TestUserInsert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	require.NoError(t, UserInsert(ctx, users, "new@gmail.com"))

	err := UserInsert(ctx, users, "maria@gmail.com")
	var ve *Errors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []FieldMessage{{FieldName: "email", Message: "Email already exists"}}, ve.Fields)

	err = UserInsert(ctx, users, "boom@gmail.com")
	require.Error(t, err)
	assert.False(t, errors.As(err, &ve))
}

func TestUserUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name  string
		id    int64
		email string
		fails bool
	}{
		{"own unchanged email", 2, "maria@gmail.com", false},
		{"free email", 2, "maria.new@gmail.com", false},
		{"another user's email", 2, "alex@gmail.com", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := UserUpdate(ctx, users, tt.id, tt.email)
			if !tt.fails {
				require.NoError(t, err)
				return
			}
			var ve *Errors
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "Email already exists for another user", ve.Fields[0].Message)
		})
	}
}

type productInput struct {
	Name  string    `json:"name" validate:"required,min=5,max=60"`
	Price float64   `json:"price" validate:"gt=0"`
	Date  time.Time `json:"date" validate:"pastorpresent"`
	Email string    `json:"email" validate:"omitempty,email"`
}

func TestValidator(t *testing.T) {
	t.Parallel()
	v := New()

	require.NoError(t, v.Validate(productInput{Name: "Smart TV", Price: 10, Date: time.Now().Add(-time.Hour)}))

	err := v.Validate(productInput{Name: "TV", Price: 0, Date: time.Now().Add(time.Hour), Email: "nope"})
	var ve *Errors
	require.ErrorAs(t, err, &ve)

	got := map[string]string{}
	for _, f := range ve.Fields {
		got[f.FieldName] = f.Message
	}
	assert.Equal(t, map[string]string{
		"name":  "Must have at least 5 characters",
		"price": "Must be a positive value",
		"date":  "Date cannot be in the future",
		"email": "Please enter a valid email",
	}, got)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	require.NoError(t, Merge(nil, nil))

	a := &Errors{Fields: []FieldMessage{{FieldName: "name", Message: "Required field"}}}
	b := &Errors{Fields: []FieldMessage{{FieldName: "email", Message: "Email already exists"}}}
	err := Merge(a, nil, b)
	var ve *Errors
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 2)

	boom := errors.New("boom")
	assert.Equal(t, boom, Merge(a, boom))
}
