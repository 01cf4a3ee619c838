package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// UserContextKey is where the Auth middleware stores the authenticated user.
const UserContextKey = "user"

// currentUser returns the user injected by the Auth middleware. A missing
// user means the route was registered without the middleware.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(UserContextKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
