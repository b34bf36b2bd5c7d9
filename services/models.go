package services

import (
	"time"

	"github.com/giygas/hospital-api/protocols/entities"
)

// Page is one page of a paginated listing
type Page[T any] struct {
	Data     []T `json:"data"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// User is the authenticated account
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	HospitalID string `json:"hospitalId,omitempty"`
}

// Credentials is the login request
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the login reply
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// Patient is a registered patient
type Patient struct {
	MRN       string    `json:"mrn"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	Age       int       `json:"age,omitempty"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// PatientRegistration is the intake form
type PatientRegistration struct {
	Name    string `json:"name"`
	Gender  string `json:"gender"`
	Age     int    `json:"age,omitempty"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// Prescription is a prescription stored by the hospital API
type Prescription struct {
	ID             string                  `json:"id,omitempty"`
	PatientMRN     string                  `json:"patientMrn"`
	Diagnosis      []string                `json:"diagnosis"`
	Medicines      []entities.MedicineLine `json:"medicines"`
	DietAdvice     []string                `json:"dietAdvice"`
	SuggestedTests []string                `json:"suggestedTests"`
	Avoid          []string                `json:"avoid"`
	FollowUp       string                  `json:"followUp,omitempty"`
	Notes          string                  `json:"notes,omitempty"`
	CreatedAt      time.Time               `json:"createdAt,omitempty"`
}

// PrescriptionFromDraft copies a generated draft into a prescription for mrn
func PrescriptionFromDraft(mrn string, draft *entities.PrescriptionDraft) Prescription {
	return Prescription{
		PatientMRN:     mrn,
		Diagnosis:      draft.Diagnosis,
		Medicines:      draft.Medicines,
		DietAdvice:     draft.DietAdvice,
		SuggestedTests: draft.SuggestedTests,
		Avoid:          draft.Avoid,
		FollowUp:       draft.FollowUp,
	}
}

// DischargeSummary is written when a patient leaves the ward
type DischargeSummary struct {
	ID              string    `json:"id,omitempty"`
	PatientMRN      string    `json:"patientMrn"`
	AdmissionDate   time.Time `json:"admissionDate"`
	DischargeDate   time.Time `json:"dischargeDate"`
	Diagnosis       string    `json:"diagnosis"`
	Treatment       string    `json:"treatment"`
	Instructions    string    `json:"instructions,omitempty"`
	FollowUp        string    `json:"followUp,omitempty"`
	AttendingDoctor string    `json:"attendingDoctor,omitempty"`
}

// LabTokenStatus is the lifecycle state of a lab order
type LabTokenStatus string

const (
	LabPending    LabTokenStatus = "Pending"
	LabInProgress LabTokenStatus = "InProgress"
	LabCompleted  LabTokenStatus = "Completed"
	LabCancelled  LabTokenStatus = "Cancelled"
)

// Valid reports whether s is a known status
func (s LabTokenStatus) Valid() bool {
	switch s {
	case LabPending, LabInProgress, LabCompleted, LabCancelled:
		return true
	}
	return false
}

// LabToken is a queued lab order
type LabToken struct {
	ID         string         `json:"id"`
	PatientMRN string         `json:"patientMrn"`
	Tests      []string       `json:"tests"`
	Status     LabTokenStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt,omitempty"`
}

// LabSample is a collected specimen
type LabSample struct {
	ID          string    `json:"id,omitempty"`
	TokenID     string    `json:"tokenId"`
	SampleType  string    `json:"sampleType"`
	CollectedAt time.Time `json:"collectedAt"`
}

// LabBillItem is one billed test
type LabBillItem struct {
	Test   string  `json:"test"`
	Amount float64 `json:"amount"`
}

// LabBill is a generated lab invoice
type LabBill struct {
	ID         string        `json:"id,omitempty"`
	TokenID    string        `json:"tokenId"`
	PatientMRN string        `json:"patientMrn,omitempty"`
	Items      []LabBillItem `json:"items"`
	Total      float64       `json:"total"`
	CreatedAt  time.Time     `json:"createdAt,omitempty"`
}

// InventoryItem is a pharmacy stock line
type InventoryItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Stock     int     `json:"stock"`
	UnitPrice float64 `json:"unitPrice"`
}

// Doctor is a doctor on the hospital roster
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Available      bool   `json:"available"`
}

// StaffMember is a non-doctor employee
type StaffMember struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// Appointment is a scheduled consultation
type Appointment struct {
	ID          string    `json:"id"`
	PatientMRN  string    `json:"patientMrn"`
	PatientName string    `json:"patientName"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
}

// Stats is a free-form counter map returned by dashboard endpoints
type Stats map[string]float64

// DoctorDashboard aggregates a doctor's landing page
type DoctorDashboard struct {
	Stats          Stats         `json:"stats"`
	Appointments   []Appointment `json:"appointments"`
	RecentPatients []Patient     `json:"recentPatients"`
}

// AdminDashboard aggregates a hospital admin's landing page
type AdminDashboard struct {
	Stats   Stats         `json:"stats"`
	Doctors []Doctor      `json:"doctors"`
	Staff   []StaffMember `json:"staff"`
}

// SupportTicket is a help desk request
type SupportTicket struct {
	ID          string `json:"id,omitempty"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
}
