package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/accounts-api/internal/api/metrics"
	"github.com/99minutos/accounts-api/internal/core/domain"
	"github.com/99minutos/accounts-api/internal/core/ports"
)

// UserHandler handles HTTP requests for the user lifecycle.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// --- Request types ---

type createUserRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	ConfirmEmail    string `json:"confirmEmail"`
	RoleID          int64  `json:"roleId"`
}

type updateUserRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	ConfirmEmail    string `json:"confirmEmail"`
}

// Create registers a new user.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  resultResponse
// @Failure      400   {object}  resultResponse
// @Failure      409   {object}  resultResponse
// @Failure      500   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.service.Create(c.Request().Context(), domain.UserDraft{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		ConfirmEmail:    req.ConfirmEmail,
		RoleID:          req.RoleID,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	metrics.ObserveUserOperation("create", res.StatusCode)
	if res.StatusCode == http.StatusCreated {
		metrics.UsersCreatedTotal.Inc()
	}
	return render(c, res)
}

// List returns every live user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	res, err := h.service.Find(c.Request().Context())
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	metrics.ObserveUserOperation("find", res.StatusCode)
	return render(c, res)
}

// Get returns one user by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  resultResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  resultResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	res, err := h.service.FindOneByID(c.Request().Context(), id)
	if err != nil {
		return fmt.Errorf("get user %d: %w", id, err)
	}
	metrics.ObserveUserOperation("find_one", res.StatusCode)
	return render(c, res)
}

// Update changes the supplied fields of a user. The username is never changed.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  resultResponse
// @Failure      400   {object}  resultResponse
// @Failure      404   {object}  resultResponse
// @Failure      409   {object}  resultResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.service.Update(c.Request().Context(), id, domain.UserPatch{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		ConfirmEmail:    req.ConfirmEmail,
	})
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	metrics.ObserveUserOperation("update", res.StatusCode)
	return render(c, res)
}

// ChangeState flips a user between active and inactive.
//
// @Summary      Toggle user state
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  resultResponse
// @Failure      404  {object}  resultResponse
// @Router       /users/state/{id} [patch]
func (h *UserHandler) ChangeState(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	res, err := h.service.ChangeUserState(c.Request().Context(), id)
	if err != nil {
		return fmt.Errorf("change state of user %d: %w", id, err)
	}
	metrics.ObserveUserOperation("change_state", res.StatusCode)
	return render(c, res)
}

// Delete soft-deletes a user.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  resultResponse
// @Failure      404  {object}  resultResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	res, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	metrics.ObserveUserOperation("delete", res.StatusCode)
	return render(c, res)
}
