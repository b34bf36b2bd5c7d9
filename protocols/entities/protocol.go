package entities

import "time"

// SymptomProtocol is a read-only catalog entry mapping a symptom to a treatment.
// Optional lists are omitted from JSON when empty.
type SymptomProtocol struct {
	Symptom        string   `json:"symptom"`
	Keywords       []string `json:"keywords"`
	Medicine       []string `json:"medicine"`
	DietAdvice     []string `json:"diet_advice,omitempty"`
	SuggestedTests []string `json:"suggested_tests,omitempty"`
	Avoid          []string `json:"avoid,omitempty"`
	FollowUp       string   `json:"follow_up,omitempty"`
}

// MedicineLine is one structured prescription line parsed from a free-text medicine
// string. Fields that could not be derived hold Placeholder.
type MedicineLine struct {
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Freq     string `json:"freq"`
	Duration string `json:"duration"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// Placeholder marks an unknown or unparseable field
const Placeholder = "-"

// PrescriptionDraft is the result of one auto-generate run
type PrescriptionDraft struct {
	ID             string         `json:"id"`
	Diagnosis      []string       `json:"diagnosis"`
	Medicines      []MedicineLine `json:"medicines"`
	DietAdvice     []string       `json:"diet_advice"`
	SuggestedTests []string       `json:"suggested_tests"`
	Avoid          []string       `json:"avoid"`
	FollowUp       string         `json:"follow_up"`
	GeneratedAt    time.Time      `json:"generated_at"`
}
