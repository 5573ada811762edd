package httpserver

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/metrics"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/transport"
)

const grantPassword = "password"

type OAuthHTTP struct {
	Svc          *service.AuthService
	ClientID     string
	ClientSecret string
}

// ClientAuth checks the HTTP Basic client credentials of the token endpoint.
func (h *OAuthHTTP) ClientAuth() echo.MiddlewareFunc {
	return echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: "oauth2/client",
		Validator: func(id, secret string, c echo.Context) (bool, error) {
			okID := subtle.ConstantTimeCompare([]byte(id), []byte(h.ClientID)) == 1
			okSecret := subtle.ConstantTimeCompare([]byte(secret), []byte(h.ClientSecret)) == 1
			if !okID || !okSecret {
				logging.FromContext(c.Request().Context()).Warn("token_error", "status", 401, "reason", "bad client credentials")
				metrics.RecordTokenRequest("bad_client")
			}
			return okID && okSecret, nil
		},
	})
}

// Token implements the password grant.
func (h *OAuthHTTP) Token(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "oauth.token")

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	c.Response().Header().Set("Pragma", "no-cache")

	grant := c.FormValue("grant_type")
	if grant != grantPassword {
		l.Warn("token_error", "status", 400, "reason", "unsupported grant type", "grant_type", grant)
		metrics.RecordTokenRequest("unsupported_grant")
		return c.JSON(http.StatusBadRequest, transport.OAuthError{
			Error:       "unsupported_grant_type",
			Description: "Unsupported grant type: " + grant,
		})
	}

	username, password := c.FormValue("username"), c.FormValue("password")
	if username == "" || password == "" {
		l.Warn("token_error", "status", 400, "reason", "missing credentials")
		metrics.RecordTokenRequest("invalid_grant")
		return c.JSON(http.StatusBadRequest, transport.OAuthError{Error: "invalid_grant", Description: "Bad credentials"})
	}

	res, err := h.Svc.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGrant) {
			l.Warn("token_error", "status", 400, "reason", "bad credentials")
			metrics.RecordTokenRequest("invalid_grant")
			return c.JSON(http.StatusBadRequest, transport.OAuthError{Error: "invalid_grant", Description: "Bad credentials"})
		}
		l.Error("token_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}

	claims := res.Claims
	metrics.RecordTokenRequest("granted")
	l.Info("token_success", "user_id", res.Principal.UserID)
	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken:   res.AccessToken,
		TokenType:     "bearer",
		ExpiresIn:     claims.ExpiresAt.Unix() - claims.IssuedAt.Unix(),
		Scope:         strings.Join(claims.Scope, " "),
		UserFirstName: res.Principal.FirstName,
		UserID:        res.Principal.UserID,
		JTI:           claims.ID,
	})
}
