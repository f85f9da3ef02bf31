package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// MaxQueryValueSize bounds any single query parameter value.
const MaxQueryValueSize = 1024

var sqlPatterns = regexp.MustCompile(`(?i)('+\s*;\s*DROP\b|UNION\s+SELECT\b|'\s+OR\s+1\s*=\s*1)`)

// SanitizeQuery rejects query strings carrying control characters or
// oversized values. Values that look like SQL injection are only logged;
// filters are always bound as parameters.
func SanitizeQuery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for key, values := range c.QueryParams() {
				if hasControl(key) {
					return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameter name")
				}
				for _, v := range values {
					if len(v) > MaxQueryValueSize {
						return echo.NewHTTPError(http.StatusBadRequest, "query parameter too long: "+key)
					}
					if hasControl(v) {
						return echo.NewHTTPError(http.StatusBadRequest, "invalid characters in query parameter: "+key)
					}
					if sqlPatterns.MatchString(v) {
						logger.Warn().
							Str("param", key).
							Str("path", c.Request().URL.Path).
							Str("remote_ip", c.RealIP()).
							Msg("suspicious query parameter")
					}
				}
			}
			return next(c)
		}
	}
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}
