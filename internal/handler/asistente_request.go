package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/model"
	"github.com/avelarde/taller-agenda/internal/repository"
)

// ListRequests handles GET /v1/asistente/requests. The whole queue,
// newest first.
func (h *AsistenteHandler) ListRequests(c echo.Context) error {
	items, err := h.Requests.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toRequestViews(items)})
}

// GetRequest handles GET /v1/asistente/requests/:id.
func (h *AsistenteHandler) GetRequest(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	r, err := h.Requests.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toRequestView(r))
}

var validRequestStatuses = map[string]bool{
	model.RequestStatusOpen:    true,
	model.RequestStatusTriaged: true,
	model.RequestStatusClosed:  true,
}

// UpdateRequestStatus handles PATCH /v1/asistente/requests/:id/status.
func (h *AsistenteHandler) UpdateRequestStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !validRequestStatuses[status] {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	if _, err := h.Requests.GetByID(ctx, id); err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Requests.UpdateStatus(ctx, id, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	r, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toRequestView(r))
}

type requestDetailReq struct {
	Observations string  `json:"observations"`
	CostCents    *uint64 `json:"cost_cents"`
}

// CreateRequestDetail handles POST /v1/asistente/requests/:id/details:
// attach an inspection note, optionally with a cost estimate, to a
// request under triage.
func (h *AsistenteHandler) CreateRequestDetail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var req requestDetailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	obs := strings.TrimSpace(req.Observations)
	if obs == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "observations is required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Requests.GetByID(ctx, id); err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	d := model.RequestDetail{RequestID: id, Observations: obs, CostCents: req.CostCents}
	if err := h.Requests.CreateDetail(ctx, &d); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create detail failed"})
	}
	return c.JSON(http.StatusCreated, toRequestDetailView(d))
}

// ListRequestDetails handles GET /v1/asistente/requests/:id/details,
// newest note first.
func (h *AsistenteHandler) ListRequestDetails(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Requests.GetByID(ctx, id); err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.Requests.ListDetails(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load details"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toRequestDetailViews(items)})
}
