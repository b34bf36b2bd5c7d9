// Package handlers provides HTTP request handlers for the hospital API endpoints.
// This file implements the HTTPHandler interface with dependency injection.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/giygas/hospital-api/interfaces"
	"github.com/giygas/hospital-api/logging"
	"github.com/giygas/hospital-api/matcher"
	"github.com/giygas/hospital-api/metrics"
	"github.com/giygas/hospital-api/protocols/entities"
	"github.com/giygas/hospital-api/services"
	"github.com/go-chi/chi/v5"
)

// DefaultPageSize is the number of protocols per catalog page
const DefaultPageSize = 10

// maxJSONBody caps decoded request bodies
const maxJSONBody = 1 << 20

// Compile-time check to ensure HTTPHandlerImpl implements the interface
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store     interfaces.CatalogStore
	validator interfaces.CatalogValidator
	health    interfaces.HealthChecker
	matcher   *matcher.Matcher
	hospital  *services.Services // nil disables pricing and submission
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies.
// hospital may be nil when no hospital API is configured.
func NewHTTPHandler(store interfaces.CatalogStore, validator interfaces.CatalogValidator,
	health interfaces.HealthChecker, hospital *services.Services) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		store:     store,
		validator: validator,
		health:    health,
		matcher:   matcher.New(),
		hospital:  hospital,
	}
}

// ServeHTTP implements the http.Handler interface
func (h *HTTPHandlerImpl) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// This is a placeholder - the actual routing is handled by chi
	h.RespondWithError(w, http.StatusNotImplemented, "Not implemented")
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// PagedProtocols is one page of the catalog
type PagedProtocols struct {
	Data       []entities.SymptomProtocol `json:"data"`
	Page       int                        `json:"page"`
	PageSize   int                        `json:"pageSize"`
	TotalItems int                        `json:"totalItems"`
	MaxPage    int                        `json:"maxPage"`
}

// AutoGenerateRequest is the body of POST /v1/prescriptions/auto-generate
type AutoGenerateRequest struct {
	Symptoms string `json:"symptoms"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// respondWithCatalog writes a catalog read with an ETag, or 304 when the
// client already holds it
func (h *HTTPHandlerImpl) respondWithCatalog(w http.ResponseWriter, r *http.Request, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	etag := GenerateETag(data)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if CheckETag(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", h.store.GetLastUpdated().UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// respondWithServiceError logs and writes a mapped service error
func (h *HTTPHandlerImpl) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := statusForError(err)
	if code >= http.StatusInternalServerError {
		logging.Error("Hospital API call failed", "path", r.URL.Path, "error", err)
	} else {
		logging.Debug("Request rejected", "path", r.URL.Path, "status", code, "error", err)
	}
	h.RespondWithError(w, code, message)
}

// ServePagedProtocols returns one page of the catalog, page 1 when ?page is absent
func (h *HTTPHandlerImpl) ServePagedProtocols(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			logging.Warn("Unusual user input", "page", raw)
			h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
			return
		}
		page = n
	}

	protocols := h.store.GetProtocols()
	start := (page - 1) * DefaultPageSize
	if start >= len(protocols) && !(page == 1 && len(protocols) == 0) {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}
	end := min(start+DefaultPageSize, len(protocols))

	h.respondWithCatalog(w, r, PagedProtocols{
		Data:       protocols[start:end],
		Page:       page,
		PageSize:   DefaultPageSize,
		TotalItems: len(protocols),
		MaxPage:    (len(protocols) + DefaultPageSize - 1) / DefaultPageSize,
	})
}

// FindProtocol returns the protocol with the exact symptom name, ignoring case
func (h *HTTPHandlerImpl) FindProtocol(w http.ResponseWriter, r *http.Request) {
	symptom := chi.URLParam(r, "symptom")
	if symptom == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing symptom")
		return
	}

	if err := h.validator.ValidateInput(symptom); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	protocol, ok := h.store.GetProtocol(symptom)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Protocol not found")
		return
	}

	h.respondWithCatalog(w, r, protocol)
}

// SearchProtocols returns every protocol the term would match in auto-generate
func (h *HTTPHandlerImpl) SearchProtocols(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")
	if term == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing search term")
		return
	}

	if err := h.validator.ValidateInput(term); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens := matcher.Tokenize(term)
	results := []entities.SymptomProtocol{}
	for _, p := range h.store.GetProtocols() {
		if matcher.Matches(tokens, &p) {
			results = append(results, p)
		}
	}

	// Always return 200 with results array (empty if no matches)
	h.respondWithCatalog(w, r, results)
}

// ServeCatalogQuality returns the quality report of the loaded catalog
func (h *HTTPHandlerImpl) ServeCatalogQuality(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.store.GetQualityReport())
}

// AutoGeneratePrescription matches the posted symptoms against the catalog and
// returns a draft. With ?priced=true the lines are priced from the pharmacy
// inventory, read with the caller's session.
func (h *HTTPHandlerImpl) AutoGeneratePrescription(w http.ResponseWriter, r *http.Request) {
	var req AutoGenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.validator.ValidateSymptoms(req.Symptoms); err != nil {
		if errors.Is(err, matcher.ErrNoSymptoms) {
			metrics.PrescriptionMatches.WithLabelValues(metrics.OutcomeNoSymptoms).Inc()
		}
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	m := h.matcher
	if priced, _ := strconv.ParseBool(r.URL.Query().Get("priced")); priced {
		if h.hospital == nil {
			h.RespondWithError(w, http.StatusServiceUnavailable, "Hospital API not configured")
			return
		}
		auth := sessionFromRequest(r)
		if auth == nil {
			h.RespondWithError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		sent := auth.Tokens()
		book, err := h.hospital.Pharmacy.PriceBook(r.Context(), auth)
		writeRefreshedTokens(w, auth, sent)
		if err != nil {
			h.respondWithServiceError(w, r, err)
			return
		}
		m = m.WithPrices(book)
	}

	draft, err := m.Generate(req.Symptoms, h.store.GetProtocols())
	switch {
	case errors.Is(err, matcher.ErrNoSymptoms):
		metrics.PrescriptionMatches.WithLabelValues(metrics.OutcomeNoSymptoms).Inc()
	case errors.Is(err, matcher.ErrNoMatch):
		metrics.PrescriptionMatches.WithLabelValues(metrics.OutcomeNoMatch).Inc()
	case err == nil:
		metrics.PrescriptionMatches.WithLabelValues(metrics.OutcomeMatched).Inc()
	}
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	logging.Debug("Prescription draft generated",
		"id", draft.ID,
		"diagnosis", strings.Join(draft.Diagnosis, ", "),
		"medicines", len(draft.Medicines))
	h.RespondWithJSON(w, http.StatusOK, draft)
}

// SubmitPrescription forwards a prescription to the hospital API with the
// caller's session. Refreshed tokens are returned in response headers.
func (h *HTTPHandlerImpl) SubmitPrescription(w http.ResponseWriter, r *http.Request) {
	if h.hospital == nil {
		h.RespondWithError(w, http.StatusServiceUnavailable, "Hospital API not configured")
		return
	}

	auth := sessionFromRequest(r)
	if auth == nil {
		h.RespondWithError(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	var prescription services.Prescription
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&prescription); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	sent := auth.Tokens()
	created, err := h.hospital.Prescriptions.Create(r.Context(), auth, prescription)
	writeRefreshedTokens(w, auth, sent)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	h.RespondWithJSON(w, http.StatusCreated, created)
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, data, httpStatus := h.health.HealthCheck()

	system := map[string]any{
		"goroutines": runtime.NumGoroutine(),
		"memory": map[string]any{
			"alloc_mb":       int(m.Alloc / 1024 / 1024),
			"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
			"sys_mb":         int(m.Sys / 1024 / 1024),
			"num_gc":         m.NumGC,
		},
	}
	if start := h.store.GetServerStartTime(); !start.IsZero() {
		system["uptime"] = formatUptimeHuman(time.Since(start))
	}

	h.RespondWithJSON(w, httpStatus, HealthResponse{
		Status: status,
		Data:   data,
		System: system,
	})
}
