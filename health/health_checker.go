// Package health reports catalog health for the /health endpoint.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/hospital-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store          interfaces.CatalogStore
	reloadInterval time.Duration
}

// NewHealthChecker creates a health checker. The catalog counts as degraded once
// it misses three reloads in a row.
func NewHealthChecker(store interfaces.CatalogStore, reloadInterval time.Duration) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store:          store,
		reloadInterval: reloadInterval,
	}
}

// HealthCheck returns the status, response details and HTTP status
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	protocols := h.store.GetProtocols()
	lastUpdate := h.store.GetLastUpdated()
	isUpdating := h.store.IsUpdating()
	report := h.store.GetQualityReport()

	catalogAge := time.Since(lastUpdate)

	switch {
	case len(protocols) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case catalogAge > 3*h.reloadInterval:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":       lastUpdate.Format(time.RFC3339),
		"catalog_age_hours": math.Round(catalogAge.Hours()*10) / 10,
		"protocols":         len(protocols),
		"source":            h.store.GetSource(),
		"quality_issues":    report.HasIssues(),
		"is_updating":       isUpdating,
		"next_update":       h.CalculateNextUpdate().Format(time.RFC3339),
	}

	if start := h.store.GetServerStartTime(); !start.IsZero() {
		data["uptime_seconds"] = int64(time.Since(start).Seconds())
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns when the next reload is due
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	lastUpdate := h.store.GetLastUpdated()
	if lastUpdate.IsZero() {
		return time.Now()
	}
	next := lastUpdate.Add(h.reloadInterval)
	if next.Before(time.Now()) {
		return time.Now()
	}
	return next
}
