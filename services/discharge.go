package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/giygas/hospital-api/hmsclient"
	"github.com/giygas/hospital-api/validation"
)

// DischargeService writes and reads discharge summaries
type DischargeService struct {
	client Doer
}

// Create stores a discharge summary
func (s *DischargeService) Create(ctx context.Context, auth *hmsclient.AuthContext, summary DischargeSummary) (*DischargeSummary, error) {
	if err := validation.Required("patientMrn", summary.PatientMRN); err != nil {
		return nil, invalid("patientMrn", err)
	}
	if err := validation.Required("diagnosis", summary.Diagnosis); err != nil {
		return nil, invalid("diagnosis", err)
	}
	if !summary.DischargeDate.IsZero() && summary.DischargeDate.Before(summary.AdmissionDate) {
		return nil, &ValidationError{Field: "dischargeDate", Message: "discharge date is before admission date"}
	}

	var out DischargeSummary
	if err := s.client.Do(ctx, auth, http.MethodPost, hmsclient.Discharges, nil, summary, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a discharge summary by id
func (s *DischargeService) Get(ctx context.Context, auth *hmsclient.AuthContext, id string) (*DischargeSummary, error) {
	if err := validation.Required("id", id); err != nil {
		return nil, invalid("id", err)
	}

	var out DischargeSummary
	if err := s.client.Do(ctx, auth, http.MethodGet, fmt.Sprintf(hmsclient.DischargeByID, url.PathEscape(id)), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
