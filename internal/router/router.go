package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/handler"
	"github.com/avelarde/taller-agenda/internal/middleware"
	"github.com/avelarde/taller-agenda/internal/model"
)

// RegisterRoutes registers the routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the session endpoints. Register, login, refresh and
// logout live under /v1/auth and carry no JWT middleware; /v1/me requires
// a valid access token from any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog wires the read-only catalogs. Any authenticated role may
// browse them; the role middleware only rejects tokens with no known role.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCliente, model.RoleAsistente, model.RoleTaller, model.RoleAdmin),
	)
	g.GET("/brands", h.ListBrands)
	g.GET("/brands/:id/models", h.ListModels)
	g.GET("/catalog-services", h.ListServices)
}
