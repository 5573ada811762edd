package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/metrics"
	"github.com/Skotchmaster/catalog/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/catalog/internal/middleware/logging"
	"github.com/Skotchmaster/catalog/internal/middleware/ratelimit"
	"github.com/Skotchmaster/catalog/internal/validation"
)

type Deps struct {
	Products   *ProductHTTP
	Categories *CategoryHTTP
	Users      *UserHTTP
	OAuth      *OAuthHTTP
	Search     *SearchHTTP

	DB           *gorm.DB
	Logger       *slog.Logger
	JWTSecret    []byte
	CORSOrigins  []string
	TokenLimiter *ratelimit.RateLimiter
}

// New builds the echo instance with the full middleware stack and routes.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(metrics.Middleware())
	e.Use(loggingmw.RequestLogger(d.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{http.MethodPost, http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))
	e.Use(echomw.Secure())
	e.Use(auth.Bearer(d.JWTSecret))
	e.Use(auth.Authorize(auth.DefaultRules()))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	tokenMW := []echo.MiddlewareFunc{d.OAuth.ClientAuth()}
	if d.TokenLimiter != nil {
		tokenMW = append([]echo.MiddlewareFunc{d.TokenLimiter.Middleware()}, tokenMW...)
	}
	e.POST("/oauth/token", d.OAuth.Token, tokenMW...)

	products := e.Group("/products")
	if d.Search != nil {
		products.GET("/search", d.Search.Search)
	}
	products.GET("", d.Products.FindAll)
	products.GET("/:id", d.Products.FindByID)
	products.POST("", d.Products.Insert)
	products.PUT("/:id", d.Products.Update)
	products.DELETE("/:id", d.Products.Delete)

	categories := e.Group("/categories")
	categories.GET("", d.Categories.FindAll)
	categories.GET("/:id", d.Categories.FindByID)
	categories.POST("", d.Categories.Insert)
	categories.PUT("/:id", d.Categories.Update)
	categories.DELETE("/:id", d.Categories.Delete)

	users := e.Group("/users")
	users.GET("", d.Users.FindAll)
	users.GET("/:id", d.Users.FindByID)
	users.POST("", d.Users.Insert)
	users.PUT("/:id", d.Users.Update)
	users.DELETE("/:id", d.Users.Delete)

	e.GET("/roles", d.Users.Roles)
}
