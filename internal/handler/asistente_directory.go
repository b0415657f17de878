package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/model"
)

// ListClients handles GET /v1/asistente/clients.
func (h *AsistenteHandler) ListClients(c echo.Context) error {
	users, err := h.Users.ListByRole(c.Request().Context(), model.RoleCliente)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load clients"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toUserViews(users)})
}

// ListTechnicians handles GET /v1/asistente/technicians.
func (h *AsistenteHandler) ListTechnicians(c echo.Context) error {
	users, err := h.Users.ListByRole(c.Request().Context(), model.RoleTaller)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load technicians"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toUserViews(users)})
}

// ListVehicles handles GET /v1/asistente/vehicles: the full vehicle
// directory, not scoped to an owner.
func (h *AsistenteHandler) ListVehicles(c echo.Context) error {
	vehicles, err := h.Vehicles.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load vehicles"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toVehicleViews(vehicles)})
}
