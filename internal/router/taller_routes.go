package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/handler"
	"github.com/avelarde/taller-agenda/internal/middleware"
	"github.com/avelarde/taller-agenda/internal/model"
)

// RegisterTaller registers the technician endpoints under /v1/taller.
// Requires the TALLER role (or ADMIN); every handler checks that the
// assignment belongs to the caller.
func RegisterTaller(e *echo.Echo, h *handler.TallerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/taller",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTaller, model.RoleAdmin),
	)

	g.GET("/my-assignments", h.MyAssignments)
	g.GET("/my-assignments/:id", h.GetMyAssignment)
	g.GET("/my-assignments/:id/appointment", h.GetMyAssignmentAppointment)
	g.POST("/assignments/:id/progress", h.PostProgress)
	g.GET("/assignments/:id/progress", h.ListProgress)
}
