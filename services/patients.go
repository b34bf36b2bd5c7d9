package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/giygas/hospital-api/hmsclient"
	"github.com/giygas/hospital-api/validation"
)

// PatientService lists, fetches and registers patients
type PatientService struct {
	client Doer
}

// List returns one page of patients, filtered by search when not empty
func (s *PatientService) List(ctx context.Context, auth *hmsclient.AuthContext, page, pageSize int, search string) (*Page[Patient], error) {
	query := pageQuery(page, pageSize)
	if search = strings.TrimSpace(search); search != "" {
		query.Set("search", search)
	}

	var out Page[Patient]
	if err := s.client.Do(ctx, auth, http.MethodGet, hmsclient.Patients, query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a patient by medical record number
func (s *PatientService) Get(ctx context.Context, auth *hmsclient.AuthContext, mrn string) (*Patient, error) {
	if err := validation.Required("mrn", mrn); err != nil {
		return nil, invalid("mrn", err)
	}

	var out Patient
	path := fmt.Sprintf(hmsclient.PatientByMRN, url.PathEscape(strings.TrimSpace(mrn)))
	if err := s.client.Do(ctx, auth, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a patient. Name and gender are required and the phone number
// must have ten digits.
func (s *PatientService) Register(ctx context.Context, auth *hmsclient.AuthContext, reg PatientRegistration) (*Patient, error) {
	if err := validation.Required("name", reg.Name); err != nil {
		return nil, invalid("name", err)
	}
	if err := validation.Required("gender", reg.Gender); err != nil {
		return nil, invalid("gender", err)
	}
	if err := validation.ValidatePhone(reg.Phone); err != nil {
		return nil, invalid("phone", err)
	}
	reg.Phone = strings.TrimSpace(reg.Phone)

	var out Patient
	if err := s.client.Do(ctx, auth, http.MethodPost, hmsclient.Patients, nil, reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
