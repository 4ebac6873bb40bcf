package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// resultResponse is the JSON body of every single-entity outcome.
type resultResponse struct {
	Message    string       `json:"message"`
	Entity     *domain.User `json:"entity"`
	Token      string       `json:"token,omitempty"`
	ResultKeys []string     `json:"resultKeys,omitempty"`
}

// listResponse is the JSON body of GET /users.
type listResponse struct {
	Message    string         `json:"message"`
	Entities   []*domain.User `json:"entities"`
	ResultKeys []string       `json:"resultKeys,omitempty"`
}

// render writes a service Result with its own status code.
func render(c echo.Context, res *domain.Result) error {
	if res.Entities != nil {
		return c.JSON(res.StatusCode, listResponse{
			Message:    res.Message,
			Entities:   res.Entities,
			ResultKeys: res.ResultKeys,
		})
	}
	return c.JSON(res.StatusCode, resultResponse{
		Message:    res.Message,
		Entity:     res.Entity,
		Token:      res.Token,
		ResultKeys: res.ResultKeys,
	})
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}
