// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"locale-tracker/commons"
	"locale-tracker/crypto"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// VerifyTokenMiddleware requires a bearer token matching the argon2id
// tokenHash. An empty tokenHash disables the check; a malformed one is an
// error.
func VerifyTokenMiddleware(tokenHash string, c *crypto.Crypto) (echo.MiddlewareFunc, error) {
	if tokenHash == "" {
		commons.Logger.Warn("API_TOKEN_HASH is not set, mutating routes are unauthenticated")
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}, nil
	}
	if err := c.CheckTokenHash(tokenHash); err != nil {
		commons.Logger.Errorf("API_TOKEN_HASH is not usable: %v", err)
		return nil, err
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			logger := ctx.Logger()

			authHeader := ctx.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.Error("Authorization header missing or invalid.")
				return &echo.HTTPError{
					Code:    http.StatusUnauthorized,
					Message: "Bearer token is required",
				}
			}

			if err := c.VerifyToken(token, tokenHash); err != nil {
				logger.Error("Authentication failed: ", err)
				return &echo.HTTPError{
					Code:    http.StatusUnauthorized,
					Message: "Invalid authentication token",
				}
			}

			return next(ctx)
		}
	}, nil
}
