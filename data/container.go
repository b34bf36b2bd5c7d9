// Package data provides the thread-safe protocol catalog store. Readers never
// block and a reload swaps the whole catalog at once.
package data

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/giygas/hospital-api/interfaces"
	"github.com/giygas/hospital-api/logging"
	"github.com/giygas/hospital-api/protocols/entities"
)

// Compile-time check to ensure CatalogContainer implements CatalogStore
var _ interfaces.CatalogStore = (*CatalogContainer)(nil)

// CatalogContainer holds the catalog with atomic values for zero-downtime reloads
type CatalogContainer struct {
	protocols       atomic.Value // []entities.SymptomProtocol
	bySymptom       atomic.Value // map[string]entities.SymptomProtocol
	source          atomic.Value // string
	qualityReport   atomic.Value // *interfaces.CatalogQualityReport
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewCatalogContainer creates an empty container
func NewCatalogContainer() *CatalogContainer {
	cc := &CatalogContainer{}
	cc.protocols.Store(make([]entities.SymptomProtocol, 0))
	cc.bySymptom.Store(make(map[string]entities.SymptomProtocol))
	cc.source.Store("")
	cc.qualityReport.Store(&interfaces.CatalogQualityReport{})
	cc.lastUpdated.Store(time.Time{})
	cc.serverStartTime.Store(time.Time{})
	return cc
}

// SymptomKey is the lookup key for a symptom name
func SymptomKey(symptom string) string {
	return strings.ToLower(strings.TrimSpace(symptom))
}

// GetProtocols returns the catalog in source order
func (cc *CatalogContainer) GetProtocols() []entities.SymptomProtocol {
	if v := cc.protocols.Load(); v != nil {
		if protocols, ok := v.([]entities.SymptomProtocol); ok {
			return protocols
		}
	}

	logging.Warn("Protocol catalog is empty or invalid")
	return []entities.SymptomProtocol{}
}

// GetProtocol looks a protocol up by symptom name, ignoring case
func (cc *CatalogContainer) GetProtocol(symptom string) (entities.SymptomProtocol, bool) {
	if v := cc.bySymptom.Load(); v != nil {
		if bySymptom, ok := v.(map[string]entities.SymptomProtocol); ok {
			p, found := bySymptom[SymptomKey(symptom)]
			return p, found
		}
	}

	logging.Warn("Symptom index is empty or invalid")
	return entities.SymptomProtocol{}, false
}

// GetSource returns where the current catalog was loaded from
func (cc *CatalogContainer) GetSource() string {
	if v, ok := cc.source.Load().(string); ok {
		return v
	}
	return ""
}

// GetQualityReport returns the report computed for the current catalog
func (cc *CatalogContainer) GetQualityReport() *interfaces.CatalogQualityReport {
	if v := cc.qualityReport.Load(); v != nil {
		if report, ok := v.(*interfaces.CatalogQualityReport); ok && report != nil {
			return report
		}
	}

	logging.Warn("Could not get the catalog quality report")
	return &interfaces.CatalogQualityReport{}
}

// GetLastUpdated returns the timestamp of the last catalog swap
func (cc *CatalogContainer) GetLastUpdated() time.Time {
	if v := cc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a reload is in progress
func (cc *CatalogContainer) IsUpdating() bool {
	return cc.updating.Load()
}

// SetServerStartTime sets the server start time
func (cc *CatalogContainer) SetServerStartTime(startTime time.Time) {
	cc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (cc *CatalogContainer) GetServerStartTime() time.Time {
	if v := cc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateCatalog atomically replaces the catalog and its symptom index.
// When a symptom name appears twice the first entry owns the index slot.
func (cc *CatalogContainer) UpdateCatalog(protocols []entities.SymptomProtocol, source string, report *interfaces.CatalogQualityReport) {
	bySymptom := make(map[string]entities.SymptomProtocol, len(protocols))
	for _, p := range protocols {
		key := SymptomKey(p.Symptom)
		if _, exists := bySymptom[key]; !exists {
			bySymptom[key] = p
		}
	}
	if report == nil {
		report = &interfaces.CatalogQualityReport{TotalProtocols: len(protocols)}
	}

	cc.protocols.Store(protocols)
	cc.bySymptom.Store(bySymptom)
	cc.source.Store(source)
	cc.qualityReport.Store(report)
	cc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a reload.
// Returns false if another reload is in progress.
func (cc *CatalogContainer) BeginUpdate() bool {
	return cc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload
func (cc *CatalogContainer) EndUpdate() {
	cc.updating.Store(false)
}
