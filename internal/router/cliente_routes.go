package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/handler"
	"github.com/avelarde/taller-agenda/internal/middleware"
	"github.com/avelarde/taller-agenda/internal/model"
)

// RegisterCliente registers the client-facing endpoints under /v1/cliente.
// Every route requires a valid JWT with the CLIENTE role (ADMIN passes
// everywhere); handlers additionally enforce ownership row by row.
func RegisterCliente(e *echo.Echo, h *handler.ClienteHandler, jwtSecret string) {
	g := e.Group(
		"/v1/cliente",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCliente, model.RoleAdmin),
	)

	// ---- Vehicles ----
	g.GET("/vehicles", h.ListVehicles)
	g.POST("/vehicles", h.CreateVehicle)
	g.GET("/vehicles/:id", h.GetVehicle)
	g.PUT("/vehicles/:id", h.UpdateVehicle)
	g.DELETE("/vehicles/:id", h.DeleteVehicle)

	// ---- Service requests ----
	g.GET("/requests", h.ListRequests)
	g.POST("/requests", h.CreateRequest)
	g.GET("/requests/:id", h.GetRequest)

	// ---- Appointments ----
	g.GET("/appointments", h.ListAppointments)
	g.GET("/appointments/:id", h.GetAppointment)
	g.PUT("/appointments/:id/cancel", h.CancelAppointment)
	g.GET("/appointments/:id/assignments", h.ListAppointmentAssignments)
	g.GET("/assignments/:id/progress", h.ListAssignmentProgress)

	// ---- Calendar ----
	g.GET("/slots/available", h.AvailableSlots)
}
