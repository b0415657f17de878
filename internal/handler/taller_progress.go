package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/model"
	"github.com/avelarde/taller-agenda/internal/repository"
	"github.com/avelarde/taller-agenda/internal/scheduling"
)

// TallerHandler serves technicians. Every route is scoped to the caller's
// own service assignments.
type TallerHandler struct {
	Assignments  *repository.AssignmentRepo
	Progress     *repository.ProgressRepo
	Appointments *repository.AppointmentRepo
}

func NewTallerHandler(assignments *repository.AssignmentRepo, progress *repository.ProgressRepo, appointments *repository.AppointmentRepo) *TallerHandler {
	if assignments == nil || progress == nil || appointments == nil {
		panic("nil repository passed to NewTallerHandler")
	}
	return &TallerHandler{Assignments: assignments, Progress: progress, Appointments: appointments}
}

// MyAssignments handles GET /v1/taller/my-assignments.
func (h *TallerHandler) MyAssignments(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Assignments.ListByTechnician(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load assignments"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toAssignmentViews(items)})
}

// GetMyAssignment handles GET /v1/taller/my-assignments/:id.
func (h *TallerHandler) GetMyAssignment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
	}
	a, err := h.Assignments.GetByIDForTechnician(c.Request().Context(), id, userID)
	if err != nil {
		return assignmentError(c, err)
	}
	return c.JSON(http.StatusOK, toAssignmentView(a))
}

// GetMyAssignmentAppointment handles GET /v1/taller/my-assignments/:id/appointment:
// the appointment behind one of the caller's assignments, so a technician
// can see when the vehicle is scheduled and how the whole job stands.
func (h *TallerHandler) GetMyAssignmentAppointment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
	}
	ctx := c.Request().Context()
	a, err := h.Assignments.GetByIDForTechnician(ctx, id, userID)
	if err != nil {
		return assignmentError(c, err)
	}
	appt, err := h.Appointments.GetByID(ctx, a.AppointmentID)
	if err != nil {
		return appointmentError(c, err)
	}
	return c.JSON(http.StatusOK, toAppointmentView(appt))
}

type progressReq struct {
	Percent     int     `json:"percent"`
	Comment     string  `json:"comment"`
	EvidenceURL *string `json:"evidence_url"`
}

// PostProgress handles POST /v1/taller/assignments/:id/progress. One
// transaction appends the event, rewrites the assignment's progress and
// derived status, and recomputes the appointment aggregate from all
// sibling assignments, so the roll-up the caller reads back is never
// stale. The appointment row is locked first; every writer that touches
// an appointment's assignments takes locks in that same order.
func (h *TallerHandler) PostProgress(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
	}
	var req progressReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if verr := scheduling.ValidatePercent(req.Percent); verr != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": verr.Error()})
	}
	percent := uint8(req.Percent)

	ctx := c.Request().Context()
	own, err := h.Assignments.GetByIDForTechnician(ctx, id, userID)
	if err != nil {
		return assignmentError(c, err)
	}

	tx, err := h.Assignments.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	appt, err := h.Appointments.GetByIDTx(ctx, tx, own.AppointmentID)
	if err != nil {
		return appointmentError(c, err)
	}
	if appt.GlobalStatus == model.AppointmentStatusCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "appointment is cancelled"})
	}

	event := model.ProgressEvent{
		AssignmentID: id,
		Percent:      percent,
		Comment:      strings.TrimSpace(req.Comment),
		EvidenceURL:  req.EvidenceURL,
	}
	if err := h.Progress.CreateTx(ctx, tx, &event); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record progress failed"})
	}

	newStatus := scheduling.DeriveAssignmentStatus(own.Status, percent)
	if err := h.Assignments.UpdateProgressTx(ctx, tx, id, percent, newStatus); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update assignment failed"})
	}

	siblings, err := h.Assignments.ListByAppointmentTx(ctx, tx, own.AppointmentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load assignments failed"})
	}
	for i := range siblings {
		if siblings[i].ID == id {
			siblings[i].ProgressPercent = percent
			siblings[i].Status = newStatus
		}
	}
	mean, allCompleted := scheduling.RollUp(siblings)
	nextGlobal := scheduling.NextGlobalStatus(appt.GlobalStatus, allCompleted)
	if err := h.Appointments.UpdateAggregateTx(ctx, tx, own.AppointmentID, mean, nextGlobal); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update appointment failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"event":              toProgressView(event),
		"assignment_status":  newStatus,
		"global_progress":    mean,
		"global_status":      nextGlobal,
		"appointment_id":     own.AppointmentID,
		"assignment_percent": percent,
	})
}

// ListProgress handles GET /v1/taller/assignments/:id/progress, newest
// event first.
func (h *TallerHandler) ListProgress(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Assignments.GetByIDForTechnician(ctx, id, userID); err != nil {
		return assignmentError(c, err)
	}
	events, err := h.Progress.ListByAssignment(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load progress"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toProgressViews(events)})
}

func assignmentError(c echo.Context, err error) error {
	switch err {
	case repository.ErrAssignmentNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
