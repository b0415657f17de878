package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/model"
	"github.com/avelarde/taller-agenda/internal/repository"
	"github.com/avelarde/taller-agenda/internal/scheduling"
)

// ListSlots handles GET /v1/asistente/slots with optional date, date_from,
// date_to and status filters, ordered by (date, start).
func (h *AsistenteHandler) ListSlots(c echo.Context) error {
	var f repository.SlotFilter
	if d, ok := parseDateParam(c, "date"); ok {
		f.Date = d
	}
	if d, ok := parseDateParam(c, "date_from"); ok {
		f.DateFrom = d
	}
	if d, ok := parseDateParam(c, "date_to"); ok {
		f.DateTo = d
	}
	if s := strings.ToLower(strings.TrimSpace(c.QueryParam("status"))); s != "" {
		f.Status = s
	}
	slots, err := h.Slots.Query(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slots"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toSlotViews(slots)})
}

type slotCreateReq struct {
	SlotDate  string `json:"slot_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  int    `json:"capacity"`
}

// CreateSlot handles POST /v1/asistente/slots. The day's rows are locked
// while checking for overlap so two assistants cannot carve conflicting
// windows concurrently.
func (h *AsistenteHandler) CreateSlot(c echo.Context) error {
	var req slotCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := time.Parse(dateLayout, req.SlotDate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "slot_date must be YYYY-MM-DD"})
	}
	start, end, verr := scheduling.ValidateSlot(req.StartTime, req.EndTime, req.Capacity)
	if verr != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": verr.Error()})
	}

	ctx := c.Request().Context()
	tx, err := h.Slots.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	existing, err := h.Slots.ListByDateTx(ctx, tx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check calendar"})
	}
	if verr := scheduling.ValidateNoOverlap(existing, start, end); verr != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": verr.Error()})
	}

	s := model.Slot{
		SlotDate:  date,
		StartTime: start,
		EndTime:   end,
		Capacity:  uint32(req.Capacity),
		Status:    model.SlotStatusAvailable,
	}
	if err := h.Slots.CreateTx(ctx, tx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slot failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, toSlotView(s))
}

type slotBulkReq struct {
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
	Weekdays  []int  `json:"weekdays"` // 0=Monday .. 6=Sunday
	Templates []struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Capacity  int    `json:"capacity"`
	} `json:"templates"`
}

// BulkSlots handles POST /v1/asistente/slots/bulk. Generation is
// idempotent: identical windows already on the calendar are skipped, as is
// any template window that would overlap an existing slot on that date.
func (h *AsistenteHandler) BulkSlots(c echo.Context) error {
	var req slotBulkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	from, err := time.Parse(dateLayout, req.DateFrom)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "date_from must be YYYY-MM-DD"})
	}
	to, err := time.Parse(dateLayout, req.DateTo)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "date_to must be YYYY-MM-DD"})
	}
	if to.Before(from) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "date_to before date_from"})
	}
	weekdays, verr := scheduling.ParseWeekdays(req.Weekdays)
	if verr != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": verr.Error()})
	}
	templates := make([]scheduling.SlotTemplate, 0, len(req.Templates))
	for _, t := range req.Templates {
		if t.Capacity < 1 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "template capacity must be at least 1"})
		}
		templates = append(templates, scheduling.SlotTemplate{StartTime: t.StartTime, EndTime: t.EndTime, Capacity: uint32(t.Capacity)})
	}
	templates, verr = scheduling.ValidateTemplates(templates)
	if verr != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": verr.Error()})
	}

	ctx := c.Request().Context()
	tx, err := h.Slots.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock each affected day while planning against it.
	var existing []model.Slot
	byDate := make(map[string][]model.Slot)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if len(weekdays) > 0 && !weekdays[d.Weekday()] {
			continue
		}
		day, err := h.Slots.ListByDateTx(ctx, tx, d)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check calendar"})
		}
		existing = append(existing, day...)
		byDate[d.Format(dateLayout)] = day
	}

	planned := scheduling.PlanSlots(from, to, weekdays, templates, existing)

	// Drop planned windows that collide with a differently-shaped existing
	// slot on the same date.
	create := planned[:0]
	skipped := 0
	for _, s := range planned {
		if scheduling.FindOverlap(byDate[s.SlotDate.Format(dateLayout)], s.StartTime, s.EndTime) != nil {
			skipped++
			continue
		}
		create = append(create, s)
	}

	if err := h.Slots.CreateBulkTx(ctx, tx, create); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bulk create failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"created": len(create),
		"skipped": skipped,
	})
}

// BlockSlot handles PUT /v1/asistente/slots/:id/block. Only empty slots
// can be blocked.
func (h *AsistenteHandler) BlockSlot(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	s, err := h.Slots.Block(c.Request().Context(), id)
	if err != nil {
		return slotError(c, err, scheduling.ErrSlotOccupied.Error())
	}
	return c.JSON(http.StatusOK, toSlotView(s))
}

// UnblockSlot handles PUT /v1/asistente/slots/:id/unblock. The derived
// status is recomputed from occupancy versus capacity.
func (h *AsistenteHandler) UnblockSlot(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	s, err := h.Slots.Unblock(c.Request().Context(), id)
	if err != nil {
		return slotError(c, err, "slot is not blocked")
	}
	return c.JSON(http.StatusOK, toSlotView(s))
}

// DeleteSlot handles DELETE /v1/asistente/slots/:id. Slots with live
// allocations cannot be removed.
func (h *AsistenteHandler) DeleteSlot(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	if err := h.Slots.Delete(c.Request().Context(), id); err != nil {
		return slotError(c, err, scheduling.ErrSlotOccupied.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func slotError(c echo.Context, err error, conflictMsg string) error {
	switch err {
	case repository.ErrSlotNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": conflictMsg})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
