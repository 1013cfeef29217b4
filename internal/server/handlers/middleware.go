package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smolnikov/readhub/internal/common"
	"github.com/smolnikov/readhub/internal/server/auth"
)

// userIDContextKey is the echo context key holding the authenticated user id.
const userIDContextKey = "auth.user_id"

// requireAuth validates the bearer token and stores its user id in the
// context. Expired tokens answer with the token-expired error body so
// clients know a refresh would help.
func (h *Handlers) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(common.AccessTokenHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: common.ErrorUnauthorized.Error()})
		}

		userID, err := auth.GetUserIDFromToken(token, h.secretKey)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: common.ErrTokenExpired.Error()})
			}
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: common.ErrInvalidToken.Error()})
		}

		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

func authUserID(c echo.Context) string {
	id, _ := c.Get(userIDContextKey).(string)
	return id
}
