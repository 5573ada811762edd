package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

const (
	CtxToken     = "user"
	CtxPrincipal = "principal"
)

// Bearer verifies an Authorization: Bearer token when one is sent.
// Requests without a bearer header pass through anonymously; a bad token is 401.
func Bearer(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    secret,
		SigningMethod: "HS256",
		ContextKey:    CtxToken,
		TokenLookup:   "header:Authorization:Bearer ",
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(tokens.AccessClaims)
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
				return nil
			}
			logging.FromContext(c.Request().Context()).Warn("bearer_rejected", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token").SetInternal(err)
		},
		SuccessHandler: func(c echo.Context) {
			tkn, ok := c.Get(CtxToken).(*jwt.Token)
			if !ok {
				return
			}
			if claims, ok := tkn.Claims.(*tokens.AccessClaims); ok {
				c.Set(CtxPrincipal, tokens.PrincipalFromClaims(claims))
			}
		},
	})
}

func PrincipalFrom(c echo.Context) (tokens.Principal, bool) {
	p, ok := c.Get(CtxPrincipal).(tokens.Principal)
	return p, ok
}
