package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/hospital-api/data"
	"github.com/giygas/hospital-api/health"
	"github.com/giygas/hospital-api/interfaces"
	"github.com/giygas/hospital-api/protocols/entities"
	"github.com/giygas/hospital-api/services"
	"github.com/giygas/hospital-api/validation"
	"github.com/go-chi/chi/v5"
)

// ============================================================================
// TEST DATA FACTORY
// ============================================================================

// TestDataFactory builds catalogs for handler tests
type TestDataFactory struct{}

func NewTestDataFactory() *TestDataFactory {
	return &TestDataFactory{}
}

// CreateClinicCatalog returns a small realistic catalog
func (f *TestDataFactory) CreateClinicCatalog() []entities.SymptomProtocol {
	return []entities.SymptomProtocol{
		{
			Symptom:        "Fever",
			Keywords:       []string{"temperature", "pyrexia"},
			Medicine:       []string{"Paracetamol 500mg (1-0-1)"},
			DietAdvice:     []string{"Drink plenty of fluids"},
			SuggestedTests: []string{"CBC"},
			FollowUp:       "3 days",
		},
		{
			Symptom:    "Cough",
			Keywords:   []string{"throat"},
			Medicine:   []string{"Dextromethorphan syrup 10ml (every 6 hrs)"},
			DietAdvice: []string{"Drink plenty of fluids", "Warm water"},
			Avoid:      []string{"Cold drinks"},
			FollowUp:   "5 days",
		},
		{
			Symptom:  "Acidity",
			Keywords: []string{"heartburn", "gastric"},
			Medicine: []string{"Pantoprazole 40mg (1-0-0)"},
			Avoid:    []string{"Spicy food"},
		},
	}
}

// CreateProtocols returns count numbered protocols
func (f *TestDataFactory) CreateProtocols(count int) []entities.SymptomProtocol {
	protocols := make([]entities.SymptomProtocol, count)
	for i := range protocols {
		protocols[i] = entities.SymptomProtocol{
			Symptom:  "Symptom " + string(rune('A'+i%26)) + strings.Repeat("x", i/26),
			Medicine: []string{"Drug 10mg (1-0-1)"},
		}
	}
	return protocols
}

// CreateCatalogContainer loads protocols into a real container
func (f *TestDataFactory) CreateCatalogContainer(protocols []entities.SymptomProtocol) *data.CatalogContainer {
	container := data.NewCatalogContainer()
	container.SetServerStartTime(time.Now().Add(-90 * time.Minute))
	report := validation.NewCatalogValidator().ReportCatalogQuality(protocols)
	container.UpdateCatalog(protocols, "embedded", report)
	return container
}

// ============================================================================
// MOCK BUILDERS
// ============================================================================

// MockCatalogValidatorBuilder provides fluent interface for building mock validators
type MockCatalogValidatorBuilder struct {
	mock *MockCatalogValidator
}

func NewMockCatalogValidatorBuilder() *MockCatalogValidatorBuilder {
	return &MockCatalogValidatorBuilder{
		mock: &MockCatalogValidator{real: validation.NewCatalogValidator()},
	}
}

func (b *MockCatalogValidatorBuilder) WithInputError(err error) *MockCatalogValidatorBuilder {
	b.mock.validateInputError = err
	return b
}

func (b *MockCatalogValidatorBuilder) WithSymptomsError(err error) *MockCatalogValidatorBuilder {
	b.mock.validateSymptomsError = err
	return b
}

func (b *MockCatalogValidatorBuilder) Build() *MockCatalogValidator {
	return b.mock
}

// MockCatalogValidator defers to the real validator unless an error is injected
type MockCatalogValidator struct {
	real                  interfaces.CatalogValidator
	validateInputError    error
	validateSymptomsError error
}

func (m *MockCatalogValidator) ValidateProtocol(p *entities.SymptomProtocol) error {
	return m.real.ValidateProtocol(p)
}

func (m *MockCatalogValidator) ReportCatalogQuality(protocols []entities.SymptomProtocol) *interfaces.CatalogQualityReport {
	return m.real.ReportCatalogQuality(protocols)
}

func (m *MockCatalogValidator) ValidateInput(input string) error {
	if m.validateInputError != nil {
		return m.validateInputError
	}
	return m.real.ValidateInput(input)
}

func (m *MockCatalogValidator) ValidateSymptoms(input string) error {
	if m.validateSymptomsError != nil {
		return m.validateSymptomsError
	}
	return m.real.ValidateSymptoms(input)
}

// newTestHandler wires a handler over protocols with the real validator and
// health checker
func newTestHandler(protocols []entities.SymptomProtocol, hospital *services.Services) *HTTPHandlerImpl {
	store := NewTestDataFactory().CreateCatalogContainer(protocols)
	return NewHTTPHandler(store, NewMockCatalogValidatorBuilder().Build(),
		health.NewHealthChecker(store, time.Hour), hospital).(*HTTPHandlerImpl)
}

// ============================================================================
// HTTP TEST UTILITIES
// ============================================================================

// HTTPTestHelper provides utilities for HTTP handler testing
type HTTPTestHelper struct {
	t *testing.T
}

func NewHTTPTestHelper(t *testing.T) *HTTPTestHelper {
	return &HTTPTestHelper{t: t}
}

// ExecuteRequest executes an HTTP handler with given parameters
func (h *HTTPTestHelper) ExecuteRequest(handler http.HandlerFunc, method, path string, urlParams map[string]string) *httptest.ResponseRecorder {
	return h.ExecuteRequestWithBody(handler, method, path, urlParams, nil, nil)
}

// ExecuteRequestWithBody executes an HTTP handler with a body and headers
func (h *HTTPTestHelper) ExecuteRequestWithBody(handler http.HandlerFunc, method, path string,
	urlParams map[string]string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if len(urlParams) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range urlParams {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// AssertJSONResponse asserts that response contains valid JSON with expected status
func (h *HTTPTestHelper) AssertJSONResponse(resp *httptest.ResponseRecorder, expectedStatus int, target any) {
	h.t.Helper()
	if resp.Code != expectedStatus {
		h.t.Errorf("Expected status %d, got %d (body %s)", expectedStatus, resp.Code, resp.Body.String())
	}

	bodyStr := resp.Body.String()
	if bodyStr == "" {
		h.t.Error("Response body should not be empty")
	}

	if err := json.Unmarshal([]byte(bodyStr), target); err != nil {
		h.t.Errorf("Response should be valid JSON, got error: %v", err)
	}
}

// AssertErrorResponse asserts that response contains an error with expected status
func (h *HTTPTestHelper) AssertErrorResponse(resp *httptest.ResponseRecorder, expectedStatus int) map[string]any {
	h.t.Helper()
	if resp.Code != expectedStatus {
		h.t.Errorf("Expected status %d, got %d (body %s)", expectedStatus, resp.Code, resp.Body.String())
	}

	var errorResp map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &errorResp); err != nil {
		h.t.Errorf("Error response should be valid JSON, got error: %v", err)
	}

	for _, field := range []string{"error", "message", "code"} {
		if _, ok := errorResp[field]; !ok {
			h.t.Errorf("Error response should have %s field", field)
		}
	}
	return errorResp
}

// AssertPaginationResponse asserts pagination-specific response structure
func (h *HTTPTestHelper) AssertPaginationResponse(resp *httptest.ResponseRecorder, expectedPage, expectedMaxPage, expectedDataCount int) {
	h.t.Helper()
	var response PagedProtocols
	h.AssertJSONResponse(resp, http.StatusOK, &response)

	if response.Page != expectedPage {
		h.t.Errorf("Page number mismatch: expected %d, got %d", expectedPage, response.Page)
	}
	if response.MaxPage != expectedMaxPage {
		h.t.Errorf("Max page mismatch: expected %d, got %d", expectedMaxPage, response.MaxPage)
	}
	if len(response.Data) != expectedDataCount {
		h.t.Errorf("Data count mismatch: expected %d, got %d", expectedDataCount, len(response.Data))
	}
}
