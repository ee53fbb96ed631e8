package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/changecomm/admin-system/internal/api/metrics"
	"github.com/changecomm/admin-system/internal/core/domain"
	"github.com/changecomm/admin-system/internal/core/ports"
)

// TrainerHandler handles the admin trainer-management endpoints.
type TrainerHandler struct {
	service ports.TrainerService
}

func NewTrainerHandler(service ports.TrainerService) *TrainerHandler {
	return &TrainerHandler{service: service}
}

// List handles GET /admin/users.
//
// @Summary      List trainer accounts
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "1-based page"    default(1)
// @Param        limit  query     int  false  "items per page"  default(8)
// @Success      200    {object}  envelope
// @Failure      401    {object}  envelope
// @Failure      403    {object}  envelope
// @Router       /admin/users [get]
func (h *TrainerHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListTrainersInput{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return err
	}

	items := make([]trainerResponse, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, toTrainerResponse(t))
	}

	pagination := result.Pagination
	return c.JSON(http.StatusOK, envelope{
		Status:  true,
		Message: "Trainers fetched successfully",
		Data: listData{
			Items:      items,
			Pagination: &pagination,
		},
	})
}

// Create handles POST /admin/trainer.
//
// @Summary      Create a trainer account
// @Tags         trainers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTrainerRequest  true  "Trainer details"
// @Success      201   {object}  envelope
// @Failure      409   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /admin/trainer [post]
func (h *TrainerHandler) Create(c echo.Context) error {
	var req createTrainerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateTrainerInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	metrics.TrainerMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, envelope{
		Status:  true,
		Message: "Trainer created successfully",
		Data:    toTrainerResponse(created),
	})
}

// Update handles PATCH /admin/users/:id. Absent fields are left untouched;
// a blank password is dropped from the patch before it reaches the service.
//
// @Summary      Partially update a trainer account
// @Tags         trainers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Trainer id"
// @Param        body  body      updateTrainerRequest  true  "Fields to update"
// @Success      200   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /admin/users/{id} [patch]
func (h *TrainerHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req updateTrainerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Password != nil && *req.Password == "" {
		req.Password = nil
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), id, ports.UpdateTrainerInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.TrainerMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, envelope{
		Status:  true,
		Message: "Trainer updated successfully",
		Data:    toTrainerResponse(updated),
	})
}

// Delete handles DELETE /admin/users/:id.
//
// @Summary      Delete a trainer account
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Trainer id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /admin/users/{id} [delete]
func (h *TrainerHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.TrainerMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, envelope{Status: true, Message: "Trainer deleted successfully"})
}
