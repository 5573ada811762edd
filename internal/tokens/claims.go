package tokens

import (
	"github.com/golang-jwt/jwt/v5"
)

type AccessClaims struct {
	UserName    string   `json:"user_name"`
	Authorities []string `json:"authorities"`
	ClientID    string   `json:"client_id,omitempty"`
	Scope       []string `json:"scope,omitempty"`
	FirstName   string   `json:"userFirstName,omitempty"`
	UserID      int64    `json:"userId,omitempty"`
	jwt.RegisteredClaims
}
