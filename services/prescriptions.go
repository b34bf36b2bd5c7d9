package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/giygas/hospital-api/hmsclient"
	"github.com/giygas/hospital-api/validation"
)

// PrescriptionService stores and lists prescriptions
type PrescriptionService struct {
	client Doer
}

// Create stores a prescription, usually built with PrescriptionFromDraft
func (s *PrescriptionService) Create(ctx context.Context, auth *hmsclient.AuthContext, p Prescription) (*Prescription, error) {
	if err := validation.Required("patientMrn", p.PatientMRN); err != nil {
		return nil, invalid("patientMrn", err)
	}
	if len(p.Medicines) == 0 {
		return nil, &ValidationError{Field: "medicines", Message: "at least one medicine is required"}
	}

	var out Prescription
	if err := s.client.Do(ctx, auth, http.MethodPost, hmsclient.Prescriptions, nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListForPatient returns a patient's prescriptions, newest first as sent by the API
func (s *PrescriptionService) ListForPatient(ctx context.Context, auth *hmsclient.AuthContext, mrn string) ([]Prescription, error) {
	if err := validation.Required("mrn", mrn); err != nil {
		return nil, invalid("mrn", err)
	}

	var out listResponse[Prescription]
	path := fmt.Sprintf(hmsclient.PatientPrescriptions, url.PathEscape(mrn))
	if err := s.client.Do(ctx, auth, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
