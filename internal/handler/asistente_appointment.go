package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/model"
	"github.com/avelarde/taller-agenda/internal/queue"
	"github.com/avelarde/taller-agenda/internal/repository"
	"github.com/avelarde/taller-agenda/internal/scheduling"
	queuepub "github.com/avelarde/taller-agenda/internal/service"
)

// ListAppointments handles GET /v1/asistente/appointments.
func (h *AsistenteHandler) ListAppointments(c echo.Context) error {
	items, err := h.Appointments.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load appointments"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toAppointmentViews(items)})
}

// GetAppointment handles GET /v1/asistente/appointments/:id.
func (h *AsistenteHandler) GetAppointment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	a, err := h.Appointments.GetByID(c.Request().Context(), id)
	if err != nil {
		return appointmentError(c, err)
	}
	return c.JSON(http.StatusOK, toAppointmentView(a))
}

type allocateReq struct {
	RequestID uint64 `json:"request_id"`
	SlotID    uint64 `json:"slot_id"`
	Notes     string `json:"notes"`
}

// CreateAppointment handles POST /v1/asistente/appointments: it binds a
// request to a slot. The one-active-appointment check and the slot's
// compare-and-swap reserve run inside one transaction, so of two
// concurrent allocations against the last unit exactly one wins.
func (h *AsistenteHandler) CreateAppointment(c echo.Context) error {
	var req allocateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RequestID == 0 || req.SlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "request_id and slot_id required"})
	}

	ctx := c.Request().Context()
	// Existence checks first so a missing resource reads as 404, not 409.
	if _, err := h.Requests.GetByID(ctx, req.RequestID); err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Slots.GetByID(ctx, req.SlotID); err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
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

	slotStore, apptStore := repository.NewAllocationStores(tx, h.Slots, h.Appointments)
	alloc := scheduling.NewAllocator(slotStore, apptStore)
	appt, err := alloc.Allocate(ctx, req.RequestID, req.SlotID, strings.TrimSpace(req.Notes))
	if err != nil {
		switch err {
		case scheduling.ErrActiveAppointment:
			return c.JSON(http.StatusConflict, echo.Map{"error": "request already has an active appointment"})
		case scheduling.ErrSlotUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot is full, blocked or gone"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "allocation failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, toAppointmentView(appt))
}

// UpdateAppointmentStatus handles PATCH /v1/asistente/appointments/:id/status.
// Transitions follow pending→confirmed→in_progress; completed is derived
// from assignment roll-up and cancellation goes through the cancel
// endpoint so the slot is released.
func (h *AsistenteHandler) UpdateAppointmentStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target := strings.ToLower(strings.TrimSpace(req.Status))

	ctx := c.Request().Context()
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
	if !scheduling.CanTransition(appt.GlobalStatus, target) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": scheduling.ErrInvalidTransition.Error(),
			"from":  appt.GlobalStatus,
			"to":    target,
		})
	}
	if err := h.Appointments.UpdateStatusTx(ctx, tx, id, target); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	appt.GlobalStatus = target

	if target == model.AppointmentStatusConfirmed {
		go h.publishConfirmed(appt)
	}
	return c.JSON(http.StatusOK, toAppointmentView(appt))
}

// publishConfirmed assembles and publishes the confirmation event after
// commit. Broker failures are logged, never surfaced to the client.
func (h *AsistenteHandler) publishConfirmed(appt model.Appointment) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.AppointmentConfirmedEvent{
		AppointmentID: appt.ID,
		RequestID:     appt.RequestID,
		SlotDate:      appt.SlotDate.Format(dateLayout),
		StartTime:     appt.StartTime,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if req, err := h.Requests.GetByID(ctx, appt.RequestID); err == nil {
		ev.ClientID = req.ClientID
		if u, err := h.Users.GetByID(ctx, req.ClientID); err == nil {
			ev.ClientName = u.Name
		}
		if v, err := h.Vehicles.GetByID(ctx, req.VehicleID); err == nil {
			ev.VehiclePlate = v.Plate
		}
	}
	if assignments, err := h.Assignments.ListByAppointment(ctx, appt.ID); err == nil {
		for _, a := range assignments {
			if s, err := h.Catalog.GetServiceByID(ctx, a.ServiceID); err == nil {
				ev.Services = append(ev.Services, s.Name)
			}
		}
	}
	if err := queuepub.PublishAppointmentConfirmed(ctx, ev); err != nil {
		log.Printf("appointment %d: publish confirmed event failed: %v", appt.ID, err)
	}
}

// CancelAppointment handles PUT /v1/asistente/appointments/:id/cancel.
// Same rule as the client side: pending only, slot released in the same
// transaction.
func (h *AsistenteHandler) CancelAppointment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}

	ctx := c.Request().Context()
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

type assignServicesReq struct {
	Items []struct {
		ServiceID    uint64  `json:"service_id"`
		TechnicianID *uint64 `json:"technician_id"`
		Notes        *string `json:"notes"`
	} `json:"items"`
}

// AssignServices handles POST /v1/asistente/appointments/:id/services:
// bulk-attach catalog services to an appointment, optionally naming a
// technician per service. Technicians may hold any number of assignments.
// New assignments join pending at 0%, which moves the mean, so the insert
// and the aggregate recompute share one transaction with the appointment
// row locked first.
func (h *AsistenteHandler) AssignServices(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	var req assignServicesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items is required"})
	}

	ctx := c.Request().Context()
	pairs := make([]model.ServiceAssignment, 0, len(req.Items))
	for _, it := range req.Items {
		if _, err := h.Catalog.GetServiceByID(ctx, it.ServiceID); err != nil {
			if err == repository.ErrServiceNotFound {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown service", "service_id": it.ServiceID})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if it.TechnicianID != nil {
			ok, err := h.Users.ExistsWithRole(ctx, *it.TechnicianID, model.RoleTaller)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}
			if !ok {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown technician", "technician_id": *it.TechnicianID})
			}
		}
		pairs = append(pairs, model.ServiceAssignment{
			ServiceID:    it.ServiceID,
			TechnicianID: it.TechnicianID,
			Notes:        it.Notes,
		})
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
	if appt.GlobalStatus == model.AppointmentStatusCancelled || appt.GlobalStatus == model.AppointmentStatusCompleted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "appointment is closed"})
	}

	all, err := h.Assignments.CreateBulkTx(ctx, tx, id, pairs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign failed"})
	}
	mean, allCompleted := scheduling.RollUp(all)
	nextGlobal := scheduling.NextGlobalStatus(appt.GlobalStatus, allCompleted)
	if err := h.Appointments.UpdateAggregateTx(ctx, tx, id, mean, nextGlobal); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update appointment failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"items":           toAssignmentViews(all),
		"global_progress": mean,
		"global_status":   nextGlobal,
	})
}

// ListAppointmentAssignments handles GET /v1/asistente/appointments/:id/assignments.
func (h *AsistenteHandler) ListAppointmentAssignments(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Appointments.GetByID(ctx, id); err != nil {
		return appointmentError(c, err)
	}
	items, err := h.Assignments.ListByAppointment(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load assignments"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toAssignmentViews(items)})
}

// ReassignTechnician handles PUT /v1/asistente/assignments/:id/technician.
func (h *AsistenteHandler) ReassignTechnician(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
	}
	var req struct {
		TechnicianID uint64 `json:"technician_id"`
	}
	if err := c.Bind(&req); err != nil || req.TechnicianID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "technician_id required"})
	}

	ctx := c.Request().Context()
	okRole, err := h.Users.ExistsWithRole(ctx, req.TechnicianID, model.RoleTaller)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !okRole {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown technician"})
	}
	if err := h.Assignments.UpdateTechnician(ctx, id, req.TechnicianID); err != nil {
		if err == repository.ErrAssignmentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	a, err := h.Assignments.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toAssignmentView(a))
}
