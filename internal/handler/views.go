package handler

// Response shapes returned by the API. The model structs carry no json
// tags on purpose; each view here fixes the wire format independently of
// the storage layout. Dates render as "2006-01-02", times as "HH:MM:SS".

import (
	"time"

	"github.com/avelarde/taller-agenda/internal/model"
)

const dateLayout = "2006-01-02"

type userView struct {
	ID    uint64  `json:"id"`
	Cve   *string `json:"cve,omitempty"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
	Role  string  `json:"role"`
}

func toUserView(u model.User) userView {
	return userView{ID: u.ID, Cve: u.Cve, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}

func toUserViews(us []model.User) []userView {
	out := make([]userView, 0, len(us))
	for _, u := range us {
		out = append(out, toUserView(u))
	}
	return out
}

type vehicleView struct {
	ID        uint64    `json:"id"`
	Plate     string    `json:"plate"`
	ModelID   *uint64   `json:"model_id,omitempty"`
	OwnerID   uint64    `json:"owner_id"`
	Year      *int      `json:"year,omitempty"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toVehicleView(v model.Vehicle) vehicleView {
	return vehicleView{ID: v.ID, Plate: v.Plate, ModelID: v.ModelID, OwnerID: v.OwnerID, Year: v.Year, Color: v.Color, CreatedAt: v.CreatedAt}
}

func toVehicleViews(vs []model.Vehicle) []vehicleView {
	out := make([]vehicleView, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVehicleView(v))
	}
	return out
}

type requestView struct {
	ID          uint64    `json:"id"`
	VehicleID   uint64    `json:"vehicle_id"`
	ClientID    uint64    `json:"client_id"`
	Description string    `json:"description"`
	ExternalRef *string   `json:"external_ref,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRequestView(r model.Request) requestView {
	return requestView{ID: r.ID, VehicleID: r.VehicleID, ClientID: r.ClientID, Description: r.Description, ExternalRef: r.ExternalRef, Status: r.Status, CreatedAt: r.CreatedAt}
}

func toRequestViews(rs []model.Request) []requestView {
	out := make([]requestView, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRequestView(r))
	}
	return out
}

type requestDetailView struct {
	ID           uint64    `json:"id"`
	RequestID    uint64    `json:"request_id"`
	Observations string    `json:"observations"`
	CostCents    *uint64   `json:"cost_cents,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRequestDetailView(d model.RequestDetail) requestDetailView {
	return requestDetailView{ID: d.ID, RequestID: d.RequestID, Observations: d.Observations, CostCents: d.CostCents, CreatedAt: d.CreatedAt}
}

func toRequestDetailViews(ds []model.RequestDetail) []requestDetailView {
	out := make([]requestDetailView, 0, len(ds))
	for _, d := range ds {
		out = append(out, toRequestDetailView(d))
	}
	return out
}

type slotView struct {
	ID        uint64 `json:"id"`
	SlotDate  string `json:"slot_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  uint32 `json:"capacity"`
	Occupancy uint32 `json:"occupancy"`
	Status    string `json:"status"`
}

func toSlotView(s model.Slot) slotView {
	return slotView{
		ID:        s.ID,
		SlotDate:  s.SlotDate.Format(dateLayout),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Capacity:  s.Capacity,
		Occupancy: s.Occupancy,
		Status:    s.Status,
	}
}

func toSlotViews(ss []model.Slot) []slotView {
	out := make([]slotView, 0, len(ss))
	for _, s := range ss {
		out = append(out, toSlotView(s))
	}
	return out
}

type appointmentView struct {
	ID             uint64    `json:"id"`
	RequestID      uint64    `json:"request_id"`
	SlotID         *uint64   `json:"slot_id,omitempty"`
	SlotDate       string    `json:"slot_date"`
	StartTime      string    `json:"start_time"`
	Notes          string    `json:"notes,omitempty"`
	GlobalProgress uint8     `json:"global_progress"`
	GlobalStatus   string    `json:"global_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toAppointmentView(a model.Appointment) appointmentView {
	return appointmentView{
		ID:             a.ID,
		RequestID:      a.RequestID,
		SlotID:         a.SlotID,
		SlotDate:       a.SlotDate.Format(dateLayout),
		StartTime:      a.StartTime,
		Notes:          a.Notes,
		GlobalProgress: a.GlobalProgress,
		GlobalStatus:   a.GlobalStatus,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toAppointmentViews(as []model.Appointment) []appointmentView {
	out := make([]appointmentView, 0, len(as))
	for _, a := range as {
		out = append(out, toAppointmentView(a))
	}
	return out
}

type assignmentView struct {
	ID              uint64    `json:"id"`
	AppointmentID   uint64    `json:"appointment_id"`
	ServiceID       uint64    `json:"service_id"`
	TechnicianID    *uint64   `json:"technician_id,omitempty"`
	Status          string    `json:"status"`
	ProgressPercent uint8     `json:"progress_percent"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toAssignmentView(a model.ServiceAssignment) assignmentView {
	return assignmentView{
		ID:              a.ID,
		AppointmentID:   a.AppointmentID,
		ServiceID:       a.ServiceID,
		TechnicianID:    a.TechnicianID,
		Status:          a.Status,
		ProgressPercent: a.ProgressPercent,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toAssignmentViews(as []model.ServiceAssignment) []assignmentView {
	out := make([]assignmentView, 0, len(as))
	for _, a := range as {
		out = append(out, toAssignmentView(a))
	}
	return out
}

type progressView struct {
	ID           uint64    `json:"id"`
	AssignmentID uint64    `json:"assignment_id"`
	Percent      uint8     `json:"percent"`
	Comment      string    `json:"comment,omitempty"`
	EvidenceURL  *string   `json:"evidence_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toProgressView(e model.ProgressEvent) progressView {
	return progressView{ID: e.ID, AssignmentID: e.AssignmentID, Percent: e.Percent, Comment: e.Comment, EvidenceURL: e.EvidenceURL, CreatedAt: e.CreatedAt}
}

func toProgressViews(es []model.ProgressEvent) []progressView {
	out := make([]progressView, 0, len(es))
	for _, e := range es {
		out = append(out, toProgressView(e))
	}
	return out
}

type brandView struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type modelView struct {
	ID      uint64 `json:"id"`
	BrandID uint64 `json:"brand_id"`
	Name    string `json:"name"`
}

type serviceView struct {
	ID               uint64  `json:"id"`
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	BaseCostCents    uint64  `json:"base_cost_cents"`
	EstimatedMinutes uint32  `json:"estimated_minutes"`
}

func toServiceView(s model.CatalogService) serviceView {
	return serviceView{ID: s.ID, Name: s.Name, Description: s.Description, BaseCostCents: s.BaseCostCents, EstimatedMinutes: s.EstimatedMinutes}
}
