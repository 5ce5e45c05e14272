package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/ports"
)

const claimsKey = "claims"

type ctxKey struct{}

// Auth verifies the bearer token and injects its claims into the Echo context
// and the request context. A missing or non-bearer header is answered with a
// bare 401; a token that fails verification with a bare 403.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.NoContent(http.StatusUnauthorized)
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				return c.NoContent(http.StatusForbidden)
			}

			c.Set(claimsKey, claims)
			req := c.Request()
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), ctxKey{}, claims)))

			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Auth, if it ran.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*domain.Claims)
	return claims, ok
}

// ClaimsFromContext is ClaimsFrom for code that only holds a context.Context.
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*domain.Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
