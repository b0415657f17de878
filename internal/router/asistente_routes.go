package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/handler"
	"github.com/avelarde/taller-agenda/internal/middleware"
	"github.com/avelarde/taller-agenda/internal/model"
)

// RegisterAsistente registers the front-desk endpoints under /v1/asistente.
// Requires the ASISTENTE role (or ADMIN).
func RegisterAsistente(e *echo.Echo, h *handler.AsistenteHandler, jwtSecret string) {
	g := e.Group(
		"/v1/asistente",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAsistente, model.RoleAdmin),
	)

	// ---- Request queue ----
	g.GET("/requests", h.ListRequests)
	g.GET("/requests/:id", h.GetRequest)
	g.PATCH("/requests/:id/status", h.UpdateRequestStatus)
	g.POST("/requests/:id/details", h.CreateRequestDetail)
	g.GET("/requests/:id/details", h.ListRequestDetails)

	// ---- Slot calendar ----
	g.GET("/slots", h.ListSlots)
	g.POST("/slots", h.CreateSlot)
	g.POST("/slots/bulk", h.BulkSlots)
	g.PUT("/slots/:id/block", h.BlockSlot)
	g.PUT("/slots/:id/unblock", h.UnblockSlot)
	g.DELETE("/slots/:id", h.DeleteSlot)

	// ---- Appointments ----
	g.GET("/appointments", h.ListAppointments)
	g.POST("/appointments", h.CreateAppointment)
	g.GET("/appointments/:id", h.GetAppointment)
	g.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
	g.PUT("/appointments/:id/cancel", h.CancelAppointment)

	// ---- Service assignments ----
	g.POST("/appointments/:id/services", h.AssignServices)
	g.GET("/appointments/:id/assignments", h.ListAppointmentAssignments)
	g.PUT("/assignments/:id/technician", h.ReassignTechnician)

	// ---- Directories ----
	g.GET("/clients", h.ListClients)
	g.GET("/technicians", h.ListTechnicians)
	g.GET("/vehicles", h.ListVehicles)
}
