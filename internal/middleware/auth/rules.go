package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/models"
)

type Access int

const (
	PermitAll Access = iota
	Authenticated
	AnyRole
)

// Rule matches when the method is listed (or none are) and a pattern matches.
// A pattern ending in "/**" covers the prefix itself and everything below it.
type Rule struct {
	Methods  []string
	Patterns []string
	Access   Access
	Roles    []string
}

func DefaultRules() []Rule {
	return []Rule{
		{Patterns: []string{"/oauth/token", "/health/**", "/metrics"}, Access: PermitAll},
		{Methods: []string{http.MethodGet}, Patterns: []string{"/products/**", "/categories/**"}, Access: PermitAll},
		{Patterns: []string{"/products/**", "/categories/**"}, Access: AnyRole, Roles: []string{models.RoleOperator, models.RoleAdmin}},
		{Patterns: []string{"/users/**"}, Access: AnyRole, Roles: []string{models.RoleAdmin}},
		{Patterns: []string{"/**"}, Access: Authenticated},
	}
}

func (r Rule) matches(method, path string) bool {
	if len(r.Methods) > 0 && !slices.Contains(r.Methods, method) {
		return false
	}
	for _, p := range r.Patterns {
		if matchPattern(p, path) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, path string) bool {
	prefix, ok := strings.CutSuffix(pattern, "/**")
	if !ok {
		return path == pattern
	}
	if prefix == "" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Authorize applies the first matching rule. Unmatched requests need a principal.
func Authorize(rules []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			access, roles := Authenticated, []string(nil)
			for _, r := range rules {
				if r.matches(req.Method, req.URL.Path) {
					access, roles = r.Access, r.Roles
					break
				}
			}
			if access == PermitAll {
				return next(c)
			}

			l := logging.FromContext(req.Context())
			p, ok := PrincipalFrom(c)
			if !ok {
				l.Warn("access_denied", "status", 401, "reason", "no principal")
				return echo.NewHTTPError(http.StatusUnauthorized, "Full authentication is required to access this resource")
			}
			if access == AnyRole && !p.HasAnyRole(roles...) {
				l.Warn("access_denied", "status", 403, "reason", "missing role", "user", p.Username)
				return echo.NewHTTPError(http.StatusForbidden, "Access is denied")
			}
			return next(c)
		}
	}
}
