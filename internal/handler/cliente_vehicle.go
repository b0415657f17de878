package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/model"
	"github.com/avelarde/taller-agenda/internal/repository"
)

type vehicleReq struct {
	Plate   string  `json:"plate"`
	ModelID *uint64 `json:"model_id"`
	Year    *int    `json:"year"`
	Color   *string `json:"color"`
}

// ListVehicles handles GET /v1/cliente/vehicles.
func (h *ClienteHandler) ListVehicles(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Vehicles.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load vehicles"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toVehicleViews(items)})
}

// CreateVehicle handles POST /v1/cliente/vehicles.
func (h *ClienteHandler) CreateVehicle(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Plate = strings.TrimSpace(req.Plate)
	if req.Plate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate required"})
	}

	v := model.Vehicle{Plate: req.Plate, ModelID: req.ModelID, OwnerID: userID, Year: req.Year, Color: req.Color}
	if err := h.Vehicles.Create(c.Request().Context(), &v); err != nil {
		if err == repository.ErrPlateExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "plate already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create vehicle failed"})
	}
	return c.JSON(http.StatusCreated, toVehicleView(v))
}

// GetVehicle handles GET /v1/cliente/vehicles/:id.
func (h *ClienteHandler) GetVehicle(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	v, err := h.Vehicles.GetByIDForOwner(c.Request().Context(), id, userID)
	if err != nil {
		return vehicleError(c, err)
	}
	return c.JSON(http.StatusOK, toVehicleView(v))
}

// UpdateVehicle handles PUT /v1/cliente/vehicles/:id.
func (h *ClienteHandler) UpdateVehicle(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Plate = strings.TrimSpace(req.Plate)
	if req.Plate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate required"})
	}

	ctx := c.Request().Context()
	v := model.Vehicle{ID: id, Plate: req.Plate, ModelID: req.ModelID, OwnerID: userID, Year: req.Year, Color: req.Color}
	if err := h.Vehicles.Update(ctx, v); err != nil {
		if err == repository.ErrPlateExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "plate already registered"})
		}
		return vehicleError(c, err)
	}
	updated, err := h.Vehicles.GetByIDForOwner(ctx, id, userID)
	if err != nil {
		return vehicleError(c, err)
	}
	return c.JSON(http.StatusOK, toVehicleView(updated))
}

// DeleteVehicle handles DELETE /v1/cliente/vehicles/:id. A vehicle with
// requests on file cannot be deleted.
func (h *ClienteHandler) DeleteVehicle(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	if err := h.Vehicles.Delete(c.Request().Context(), id, userID); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle has service requests"})
		}
		return vehicleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func vehicleError(c echo.Context, err error) error {
	switch err {
	case repository.ErrVehicleNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
