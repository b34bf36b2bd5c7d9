// Package services wraps the hospital API endpoints, one method per operation.
// Input is validated client-side before any request is sent.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/giygas/hospital-api/hmsclient"
)

// Doer sends one request to the hospital API; *hmsclient.Client implements it
type Doer interface {
	Do(ctx context.Context, auth *hmsclient.AuthContext, method, path string, query url.Values, body, out any) error
}

// ValidationError is a client-side field check that failed before sending
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a *ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func invalid(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// listResponse is the envelope of unpaginated listings
type listResponse[T any] struct {
	Data []T `json:"data"`
}

func pageQuery(page, pageSize int) url.Values {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}
	return query
}

// Services bundles every wrapper around one client
type Services struct {
	Auth          *AuthService
	Patients      *PatientService
	Prescriptions *PrescriptionService
	Discharge     *DischargeService
	Lab           *LabService
	Pharmacy      *PharmacyService
	Admin         *AdminService
	Support       *SupportService
}

// New builds all services on client
func New(client Doer) *Services {
	return &Services{
		Auth:          &AuthService{client: client},
		Patients:      &PatientService{client: client},
		Prescriptions: &PrescriptionService{client: client},
		Discharge:     &DischargeService{client: client},
		Lab:           &LabService{client: client},
		Pharmacy:      &PharmacyService{client: client},
		Admin:         &AdminService{client: client},
		Support:       &SupportService{client: client},
	}
}
