package handler

import (
	"github.com/avelarde/taller-agenda/internal/repository"
)

// ClienteHandler groups the repositories a client needs: own vehicles,
// own requests, the read side of the calendar and of their appointments.
// JWT authentication and role validation happen in middleware; every
// method re-checks ownership through the repository layer.
type ClienteHandler struct {
	Vehicles     *repository.VehicleRepo
	Requests     *repository.RequestRepo
	Slots        *repository.SlotRepo
	Appointments *repository.AppointmentRepo
	Assignments  *repository.AssignmentRepo
	Progress     *repository.ProgressRepo
}

func NewClienteHandler(vehicles *repository.VehicleRepo, requests *repository.RequestRepo, slots *repository.SlotRepo, appointments *repository.AppointmentRepo, assignments *repository.AssignmentRepo, progress *repository.ProgressRepo) *ClienteHandler {
	if vehicles == nil || requests == nil || slots == nil || appointments == nil || assignments == nil || progress == nil {
		panic("nil repository passed to NewClienteHandler")
	}
	return &ClienteHandler{
		Vehicles:     vehicles,
		Requests:     requests,
		Slots:        slots,
		Appointments: appointments,
		Assignments:  assignments,
		Progress:     progress,
	}
}
