package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/repository"
)

// CatalogHandler serves the read-only reference catalogs. Routes sit behind
// authentication but not behind any single role; every role needs them.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
}

func NewCatalogHandler(catalog *repository.CatalogRepo) *CatalogHandler {
	if catalog == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: catalog}
}

// ListBrands handles GET /v1/brands.
func (h *CatalogHandler) ListBrands(c echo.Context) error {
	brands, err := h.Catalog.ListBrands(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load brands"})
	}
	items := make([]brandView, 0, len(brands))
	for _, b := range brands {
		items = append(items, brandView{ID: b.ID, Name: b.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListModels handles GET /v1/brands/:id/models.
func (h *CatalogHandler) ListModels(c echo.Context) error {
	brandID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid brand id"})
	}
	models, err := h.Catalog.ListModelsByBrand(c.Request().Context(), brandID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load models"})
	}
	items := make([]modelView, 0, len(models))
	for _, m := range models {
		items = append(items, modelView{ID: m.ID, BrandID: m.BrandID, Name: m.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListServices handles GET /v1/catalog-services. Only active services are
// listed; historical assignments keep referencing inactive ones.
func (h *CatalogHandler) ListServices(c echo.Context) error {
	services, err := h.Catalog.ListActiveServices(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load services"})
	}
	items := make([]serviceView, 0, len(services))
	for _, s := range services {
		items = append(items, toServiceView(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
