package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/hash"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Signer *tokens.Signer
}

type LoginResult struct {
	AccessToken string
	Claims      *tokens.AccessClaims
	Principal   tokens.Principal
}

// Login performs the password grant: username is the user's email.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.FindUserByEmail(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown user")
			return nil, ErrInvalidGrant
		}
		l.Error("login_failed", "reason", "cannot load user", "error", err)
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !hash.CheckPassword(user.Password, password) {
		l.Warn("login_failed", "reason", "password mismatch")
		return nil, ErrInvalidGrant
	}

	principal := tokens.PrincipalFromUser(user)
	token, claims, err := s.Signer.Sign(principal)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign token", "error", err)
		return nil, fmt.Errorf("sign token: %w", err)
	}

	l.Info("login_success")
	return &LoginResult{AccessToken: token, Claims: claims, Principal: principal}, nil
}
