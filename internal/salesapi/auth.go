package salesapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vendora/salesdesk/internal/auth"
	"github.com/vendora/salesdesk/internal/webserver"
)

func registerAuthRoutes() {
	webserver.PubPOST("/register", registerSeller)
	webserver.PubPOST("/login", loginSeller)
	webserver.ApiGET("/me", currentSeller)
}

type registerPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func registerSeller(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration", nil)
	}
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required", nil)
	}
	seller, err := authService.Register(c.Request().Context(), auth.RegisterInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, seller)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginSeller(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	token, err := authService.Authenticate(c.Request().Context(), payload.Email, payload.Password)
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, map[string]string{"token": token})
}

// currentSeller returns the identity behind the bearer token.
func currentSeller(c echo.Context) error {
	seller, err := authService.GetSeller(c.Request().Context(), currentSellerID(c))
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, seller)
}
