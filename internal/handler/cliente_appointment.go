package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/model"
	"github.com/avelarde/taller-agenda/internal/repository"
	"github.com/avelarde/taller-agenda/internal/scheduling"
)

// ListAppointments handles GET /v1/cliente/appointments.
func (h *ClienteHandler) ListAppointments(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Appointments.ListByClient(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load appointments"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toAppointmentViews(items)})
}

// GetAppointment handles GET /v1/cliente/appointments/:id.
func (h *ClienteHandler) GetAppointment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	a, err := h.Appointments.GetByIDForClient(c.Request().Context(), id, userID)
	if err != nil {
		return appointmentError(c, err)
	}
	return c.JSON(http.StatusOK, toAppointmentView(a))
}

// CancelAppointment handles PUT /v1/cliente/appointments/:id/cancel. Only
// pending appointments can be cancelled; the slot unit is returned inside
// the same transaction.
func (h *ClienteHandler) CancelAppointment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}

	ctx := c.Request().Context()
	// Ownership first so another client's appointment reads as 403, not 409.
	if _, err := h.Appointments.GetByIDForClient(ctx, id, userID); err != nil {
		return appointmentError(c, err)
	}

	tx, err := h.Appointments.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	appt, err := h.Appointments.GetByIDTx(ctx, tx, id)
	if err != nil {
		return appointmentError(c, err)
	}

	slotStore, apptStore := repository.NewAllocationStores(tx, h.Slots, h.Appointments)
	alloc := scheduling.NewAllocator(slotStore, apptStore)
	if err := alloc.Cancel(ctx, &appt); err != nil {
		if err == scheduling.ErrNotCancellable {
			return c.JSON(http.StatusConflict, echo.Map{"error": "only pending appointments can be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, toAppointmentView(appt))
}

// AvailableSlots handles GET /v1/cliente/slots/available. Future available
// slots ordered by (date, start), with optional date filters.
func (h *ClienteHandler) AvailableSlots(c echo.Context) error {
	f := repository.SlotFilter{Status: model.SlotStatusAvailable, OnlyFuture: true}
	if d, ok := parseDateParam(c, "date"); ok {
		f.Date = d
	}
	if d, ok := parseDateParam(c, "date_from"); ok {
		f.DateFrom = d
	}
	if d, ok := parseDateParam(c, "date_to"); ok {
		f.DateTo = d
	}
	slots, err := h.Slots.Query(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slots"})
	}
	// Full slots may still carry status=available until the next write; hide
	// anything without room.
	open := slots[:0]
	for _, s := range slots {
		if scheduling.IsAvailable(s) {
			open = append(open, s)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toSlotViews(open)})
}

// ListAppointmentAssignments handles GET /v1/cliente/appointments/:id/assignments.
func (h *ClienteHandler) ListAppointmentAssignments(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Appointments.GetByIDForClient(ctx, id, userID); err != nil {
		return appointmentError(c, err)
	}
	items, err := h.Assignments.ListByAppointment(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load assignments"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toAssignmentViews(items)})
}

// ListAssignmentProgress handles GET /v1/cliente/assignments/:id/progress.
// Ownership is checked through the assignment's appointment.
func (h *ClienteHandler) ListAssignmentProgress(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
	}
	ctx := c.Request().Context()
	a, err := h.Assignments.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrAssignmentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Appointments.GetByIDForClient(ctx, a.AppointmentID, userID); err != nil {
		return appointmentError(c, err)
	}
	events, err := h.Progress.ListByAssignment(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load progress"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toProgressViews(events)})
}

func appointmentError(c echo.Context, err error) error {
	switch err {
	case repository.ErrAppointmentNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// parseDateParam reads a "2006-01-02" query parameter; absent or malformed
// values are ignored.
func parseDateParam(c echo.Context, name string) (*time.Time, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, false
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, false
	}
	return &t, true
}
