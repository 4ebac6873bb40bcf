package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// RoleReader is the read side of ports.RoleRepository.
type RoleReader interface {
	FindAll(ctx context.Context) ([]domain.Role, error)
	FindByID(ctx context.Context, id int64) (*domain.Role, error)
}

type RoleHandler struct {
	roles RoleReader
}

func NewRoleHandler(roles RoleReader) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type rolesResponse struct {
	Message  string        `json:"message"`
	Entities []domain.Role `json:"entities"`
}

type roleResponse struct {
	Message    string       `json:"message"`
	Entity     *domain.Role `json:"entity"`
	ResultKeys []string     `json:"resultKeys,omitempty"`
}

// List returns the seeded roles, so clients can pick a roleId.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200  {object}  rolesResponse
// @Failure      500  {object}  map[string]string
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roles.FindAll(c.Request().Context())
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	if roles == nil {
		roles = []domain.Role{}
	}
	return c.JSON(http.StatusOK, rolesResponse{Message: "Roles found", Entities: roles})
}

// Get returns one role by id.
//
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Param        id   path      int  true  "Role id"
// @Success      200  {object}  roleResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  roleResponse
// @Router       /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	role, err := h.roles.FindByID(c.Request().Context(), id)
	if errors.Is(err, domain.ErrRoleNotFound) {
		return c.JSON(http.StatusNotFound, roleResponse{
			Message:    "Role not found",
			ResultKeys: []string{domain.KeyRoleNotFound},
		})
	}
	if err != nil {
		return fmt.Errorf("get role %d: %w", id, err)
	}
	return c.JSON(http.StatusOK, roleResponse{
		Message:    "Role found",
		Entity:     role,
		ResultKeys: []string{domain.ResultOK},
	})
}
