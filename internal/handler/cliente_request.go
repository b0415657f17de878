package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/model"
	"github.com/avelarde/taller-agenda/internal/repository"
)

// ListRequests handles GET /v1/cliente/requests.
func (h *ClienteHandler) ListRequests(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Requests.ListByClient(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toRequestViews(items)})
}

// CreateRequest handles POST /v1/cliente/requests. The vehicle must belong
// to the caller; the request starts open.
func (h *ClienteHandler) CreateRequest(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		VehicleID   uint64  `json:"vehicle_id"`
		Description string  `json:"description"`
		ExternalRef *string `json:"external_ref"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.VehicleID == 0 || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id and description required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Vehicles.GetByIDForOwner(ctx, req.VehicleID, userID); err != nil {
		return vehicleError(c, err)
	}

	r := model.Request{VehicleID: req.VehicleID, ClientID: userID, Description: req.Description, ExternalRef: req.ExternalRef}
	if err := h.Requests.Create(ctx, &r); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	return c.JSON(http.StatusCreated, toRequestView(r))
}

// GetRequest handles GET /v1/cliente/requests/:id.
func (h *ClienteHandler) GetRequest(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	r, err := h.Requests.GetByIDForClient(c.Request().Context(), id, userID)
	if err != nil {
		switch err {
		case repository.ErrRequestNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toRequestView(r))
}
