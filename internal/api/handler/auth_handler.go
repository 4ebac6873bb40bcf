package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/accounts-api/internal/api/metrics"
	"github.com/99minutos/accounts-api/internal/core/domain"
	"github.com/99minutos/accounts-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  resultResponse
// @Failure      400   {object}  resultResponse
// @Failure      404   {object}  resultResponse
// @Failure      429   {object}  resultResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Login(c.Request().Context(), domain.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues(loginOutcome(res)).Inc()
	return render(c, res)
}

func loginOutcome(res *domain.Result) string {
	switch res.StatusCode {
	case http.StatusOK:
		return "success"
	case http.StatusBadRequest:
		return "invalid"
	case http.StatusTooManyRequests:
		return "throttled"
	default:
		return "rejected"
	}
}
