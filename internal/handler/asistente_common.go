package handler

import (
	"github.com/avelarde/taller-agenda/internal/repository"
)

// AsistenteHandler bundles everything the front desk operates on: the
// request queue, the slot calendar, appointment allocation and service
// assignment, plus the directories used to look people and vehicles up.
type AsistenteHandler struct {
	Users        *repository.UserRepo
	Vehicles     *repository.VehicleRepo
	Requests     *repository.RequestRepo
	Slots        *repository.SlotRepo
	Appointments *repository.AppointmentRepo
	Assignments  *repository.AssignmentRepo
	Catalog      *repository.CatalogRepo
}

func NewAsistenteHandler(users *repository.UserRepo, vehicles *repository.VehicleRepo, requests *repository.RequestRepo, slots *repository.SlotRepo, appointments *repository.AppointmentRepo, assignments *repository.AssignmentRepo, catalog *repository.CatalogRepo) *AsistenteHandler {
	if users == nil || vehicles == nil || requests == nil || slots == nil || appointments == nil || assignments == nil || catalog == nil {
		panic("nil repository passed to NewAsistenteHandler")
	}
	return &AsistenteHandler{
		Users:        users,
		Vehicles:     vehicles,
		Requests:     requests,
		Slots:        slots,
		Appointments: appointments,
		Assignments:  assignments,
		Catalog:      catalog,
	}
}
