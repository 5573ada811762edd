package tokens

import (
	"slices"

	"github.com/Skotchmaster/catalog/internal/models"
)

// Principal is the authenticated caller as seen by the web layer.
type Principal struct {
	UserID      int64
	Username    string
	FirstName   string
	Authorities []string
}

func PrincipalFromUser(u *models.User) Principal {
	return Principal{
		UserID:      u.ID,
		Username:    u.Email,
		FirstName:   u.FirstName,
		Authorities: u.Authorities(),
	}
}

func PrincipalFromClaims(c *AccessClaims) Principal {
	return Principal{
		UserID:      c.UserID,
		Username:    c.UserName,
		FirstName:   c.FirstName,
		Authorities: slices.Clone(c.Authorities),
	}
}

func (p Principal) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(p.Authorities, r) {
			return true
		}
	}
	return false
}
