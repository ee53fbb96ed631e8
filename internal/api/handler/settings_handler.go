package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/changecomm/admin-system/internal/api/metrics"
	"github.com/changecomm/admin-system/internal/core/domain"
	"github.com/changecomm/admin-system/internal/core/ports"
)

// SettingsHandler handles the system-settings singleton endpoints.
type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /system-setting. The singleton is returned as a
// one-element items collection; an uninitialized tenant gets an empty list,
// not a 404, so the dashboard can offer the initialization action.
//
// @Summary      Fetch the system settings singleton
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /system-setting [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	settings, err := h.service.Get(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			return c.JSON(http.StatusOK, envelope{
				Status:  true,
				Message: "System settings fetched successfully",
				Data:    listData{Items: []settingsResponse{}},
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, envelope{
		Status:  true,
		Message: "System settings fetched successfully",
		Data:    listData{Items: []settingsResponse{toSettingsResponse(settings)}},
	})
}

// Initialize handles POST /system-setting.
//
// @Summary      Initialize the system settings singleton with seed values
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  envelope
// @Failure      409  {object}  envelope
// @Router       /system-setting [post]
func (h *SettingsHandler) Initialize(c echo.Context) error {
	created, err := h.service.Initialize(c.Request().Context())
	if err != nil {
		return err
	}

	metrics.SettingsUpdatesTotal.WithLabelValues("init").Inc()
	return c.JSON(http.StatusCreated, envelope{
		Status:  true,
		Message: "System settings initialized",
		Data:    toSettingsResponse(created),
	})
}

// Update handles PUT /system-setting/:id. Only the array fields present in
// the payload are replaced.
//
// @Summary      Update one or more settings arrays
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Settings id"
// @Param        body  body      updateSettingsRequest  true  "Array fields to replace"
// @Success      200   {object}  envelope
// @Failure      404   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /system-setting/{id} [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patch := toSettingsPatch(req)
	updated, err := h.service.Patch(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}

	countSettingsUpdates(patch)
	return c.JSON(http.StatusOK, envelope{
		Status:  true,
		Message: "System settings updated successfully",
		Data:    toSettingsResponse(updated),
	})
}

func toSettingsPatch(req updateSettingsRequest) ports.SettingsPatch {
	patch := ports.SettingsPatch{Version: req.Version}

	if req.HelpTexts != nil {
		items := make([]domain.HelpText, 0, len(*req.HelpTexts))
		for _, ht := range *req.HelpTexts {
			items = append(items, domain.HelpText{
				Name:   ht.Name,
				Values: domain.LocalizedText{DE: ht.Values.DE, EN: ht.Values.EN},
			})
		}
		patch.HelpTexts = &items
	}
	if req.RoleTypes != nil {
		items := make([]domain.TypeItem, 0, len(*req.RoleTypes))
		for _, ti := range *req.RoleTypes {
			items = append(items, domain.TypeItem{Name: ti.Name})
		}
		patch.RoleTypes = &items
	}
	if req.CategoryTypes != nil {
		items := make([]domain.TypeItem, 0, len(*req.CategoryTypes))
		for _, ti := range *req.CategoryTypes {
			items = append(items, domain.TypeItem{Name: ti.Name})
		}
		patch.CategoryTypes = &items
	}
	if req.MeasureTypes != nil {
		items := make([]domain.MeasureType, 0, len(*req.MeasureTypes))
		for _, mt := range *req.MeasureTypes {
			items = append(items, domain.MeasureType{
				Name:   mt.Name,
				Values: domain.LocalizedText{DE: mt.Values.DE, EN: mt.Values.EN},
			})
		}
		patch.MeasureTypes = &items
	}
	return patch
}

func countSettingsUpdates(patch ports.SettingsPatch) {
	if patch.HelpTexts != nil {
		metrics.SettingsUpdatesTotal.WithLabelValues("helpTexts").Inc()
	}
	if patch.RoleTypes != nil {
		metrics.SettingsUpdatesTotal.WithLabelValues("roleTypes").Inc()
	}
	if patch.CategoryTypes != nil {
		metrics.SettingsUpdatesTotal.WithLabelValues("categoryTypes").Inc()
	}
	if patch.MeasureTypes != nil {
		metrics.SettingsUpdatesTotal.WithLabelValues("measureTypes").Inc()
	}
}
