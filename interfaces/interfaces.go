// Package interfaces defines the core abstractions of the hospital API so the
// catalog, scheduler, health and HTTP layers can be tested in isolation.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/hospital-api/protocols/entities"
)

// CatalogQualityReport summarises problems found in a protocol catalog
type CatalogQualityReport struct {
	TotalProtocols            int      `json:"totalProtocols"`
	DuplicateSymptoms         []string `json:"duplicateSymptoms"`
	ProtocolsWithoutMedicine  []string `json:"protocolsWithoutMedicine"`
	ProtocolsWithEmptyKeyword []string `json:"protocolsWithEmptyKeyword"`
	UnparseableMedicine       []string `json:"unparseableMedicine"` // no drug name, or an unclosed frequency
}

// HasIssues reports whether any check found something
func (r *CatalogQualityReport) HasIssues() bool {
	return len(r.DuplicateSymptoms) > 0 || len(r.ProtocolsWithoutMedicine) > 0 ||
		len(r.ProtocolsWithEmptyKeyword) > 0 || len(r.UnparseableMedicine) > 0
}

// CatalogStore defines the contract for protocol catalog storage.
// Reads are lock free and a reload replaces the whole catalog atomically.
type CatalogStore interface {
	// Catalog retrieval methods
	GetProtocols() []entities.SymptomProtocol
	GetProtocol(symptom string) (entities.SymptomProtocol, bool)
	GetSource() string
	GetQualityReport() *CatalogQualityReport
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Catalog update methods
	UpdateCatalog(protocols []entities.SymptomProtocol, source string, report *CatalogQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// CatalogLoader defines the contract for fetching a protocol catalog.
// It returns the catalog and the name of the source it was read from.
type CatalogLoader interface {
	Load(ctx context.Context) ([]entities.SymptomProtocol, string, error)
}

// Scheduler defines the contract for the periodic catalog reload.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	// ServeHTTP implements the http.Handler interface
	ServeHTTP(w http.ResponseWriter, r *http.Request)

	// Catalog endpoints
	ServePagedProtocols(w http.ResponseWriter, r *http.Request)
	FindProtocol(w http.ResponseWriter, r *http.Request)
	SearchProtocols(w http.ResponseWriter, r *http.Request)
	ServeCatalogQuality(w http.ResponseWriter, r *http.Request)

	// Prescription endpoints
	AutoGeneratePrescription(w http.ResponseWriter, r *http.Request)
	SubmitPrescription(w http.ResponseWriter, r *http.Request)

	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns the status, details for the response body and the HTTP status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled catalog reload
	CalculateNextUpdate() time.Time
}

// CatalogValidator defines the contract for catalog and input validation.
type CatalogValidator interface {
	// ValidateProtocol checks that a protocol is usable by the matcher
	ValidateProtocol(p *entities.SymptomProtocol) error

	// ReportCatalogQuality generates a quality report with all issues found
	ReportCatalogQuality(protocols []entities.SymptomProtocol) *CatalogQualityReport

	// ValidateInput validates search terms and path parameters
	ValidateInput(input string) error

	// ValidateSymptoms validates the free-text symptom list of an auto-generate request
	ValidateSymptoms(input string) error
}
