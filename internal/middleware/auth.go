package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

const (
	claimsKey         = "claims"
	AccessTokenCookie = "access_token"
)

type AccessTokenParser interface {
	ParseAccess(token string) (*domain.Claims, error)
}

// UserChecker reports whether the account behind a token still exists.
type UserChecker interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
}

func accessToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if auth != "" {
		// Token usually comes as "Bearer <token>"
		scheme, token, found := strings.Cut(auth, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// Authenticate stores the claims of a valid access token in the context.
// Requests without a token pass through anonymously. A bad token in the
// Authorization header is rejected, while a bad access_token cookie is ignored
// so that a client holding a stale cookie can still sign in or refresh.
// Tokens of deleted accounts are treated as bad when users is not nil.
func Authenticate(jwtAuth AccessTokenParser, users UserChecker, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hasHeader := c.Request().Header.Get(echo.HeaderAuthorization) != ""
			reject := func(message string) error {
				if hasHeader {
					return c.JSON(http.StatusUnauthorized, map[string]string{"message": message})
				}
				return next(c)
			}
			token := accessToken(c)
			if token == "" {
				return reject("missing or malformed token")
			}
			claims, err := jwtAuth.ParseAccess(token)
			if err != nil {
				logger.Debug("failed to validate token", slog.Any("err", err))
				return reject("invalid or expired token")
			}
			if users != nil {
				exists, err := users.UserExists(c.Request().Context(), claims.UserID)
				if err != nil {
					logger.Error("failed to look up token user", slog.Int64("user_id", claims.UserID), slog.Any("err", err))
					return c.JSON(http.StatusInternalServerError, map[string]string{"message": "server error try again later"})
				}
				if !exists {
					logger.Debug("token of deleted user", slog.Int64("user_id", claims.UserID))
					return reject("invalid or expired token")
				}
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the identity stored by Authenticate, if any.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}

func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := ClaimsFrom(c); !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "authentication required"})
		}
		return next(c)
	}
}

func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "authentication required"})
			}
			if claims.Role != role {
				return c.JSON(http.StatusForbidden, map[string]string{"message": "insufficient permissions"})
			}
			return next(c)
		}
	}
}
