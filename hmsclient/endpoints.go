package hmsclient

// Endpoint paths relative to the API base URL. Templates take url.PathEscape'd
// arguments through fmt.Sprintf.

// Auth
const (
	AuthLogin   = "/auth/login"
	AuthLogout  = "/auth/logout"
	AuthRefresh = "/auth/refresh"
	AuthMe      = "/auth/me"
)

// Admin
const (
	AdminStats     = "/admin/stats"
	AdminHospitals = "/admin/hospitals"
	AdminUsers     = "/admin/users"
)

// Doctor
const (
	DoctorStats        = "/doctor/stats"
	DoctorAppointments = "/doctor/appointments"
	DoctorPatients     = "/doctor/patients"
)

// Hospital admin
const (
	HospitalAdminStats   = "/hospital-admin/stats"
	HospitalAdminDoctors = "/hospital-admin/doctors"
	HospitalAdminStaff   = "/hospital-admin/staff"
)

// Patient, prescription and discharge
const (
	Patients             = "/patients"
	PatientByMRN         = "/patients/%s"
	PatientPrescriptions = "/patients/%s/prescriptions"
	Prescriptions        = "/prescriptions"
	Discharges           = "/discharge"
	DischargeByID        = "/discharge/%s"
)

// Lab
const (
	LabTokens      = "/lab/tokens"
	LabTokenStatus = "/lab/tokens/%s/status"
	LabSamples     = "/lab/samples"
	LabBills       = "/lab/bills"
)

// Pharmacy
const (
	PharmacyInventory = "/pharmacy/inventory"
)

// Support
const (
	SupportTickets = "/support/tickets"
)
