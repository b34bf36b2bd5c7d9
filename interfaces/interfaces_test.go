package interfaces

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/giygas/hospital-api/protocols/entities"
)

// MockCatalogStore implements CatalogStore for testing
type MockCatalogStore struct {
	protocols   []entities.SymptomProtocol
	source      string
	report      *CatalogQualityReport
	lastUpdated time.Time
	updating    bool
}

func (m *MockCatalogStore) GetProtocols() []entities.SymptomProtocol { return m.protocols }

func (m *MockCatalogStore) GetProtocol(symptom string) (entities.SymptomProtocol, bool) {
	for _, p := range m.protocols {
		if strings.EqualFold(p.Symptom, symptom) {
			return p, true
		}
	}
	return entities.SymptomProtocol{}, false
}

func (m *MockCatalogStore) GetSource() string                       { return m.source }
func (m *MockCatalogStore) GetQualityReport() *CatalogQualityReport { return m.report }
func (m *MockCatalogStore) GetLastUpdated() time.Time               { return m.lastUpdated }
func (m *MockCatalogStore) IsUpdating() bool                        { return m.updating }
func (m *MockCatalogStore) GetServerStartTime() time.Time           { return time.Time{} }

func (m *MockCatalogStore) UpdateCatalog(protocols []entities.SymptomProtocol, source string, report *CatalogQualityReport) {
	m.protocols = protocols
	m.source = source
	m.report = report
	m.lastUpdated = time.Now()
}

func (m *MockCatalogStore) BeginUpdate() bool {
	if m.updating {
		return false
	}
	m.updating = true
	return true
}

func (m *MockCatalogStore) EndUpdate() { m.updating = false }

// MockCatalogLoader implements CatalogLoader for testing
type MockCatalogLoader struct {
	shouldFail bool
}

func (m *MockCatalogLoader) Load(ctx context.Context) ([]entities.SymptomProtocol, string, error) {
	if m.shouldFail {
		return nil, "", errors.New("load failed")
	}
	return []entities.SymptomProtocol{{Symptom: "Fever", Medicine: []string{"Paracetamol 500mg (1-0-1)"}}}, "embedded", nil
}

// MockScheduler implements Scheduler for testing
type MockScheduler struct {
	started bool
	stopped bool
}

func (m *MockScheduler) Start() error {
	if m.started {
		return errors.New("already started")
	}
	m.started = true
	return nil
}

func (m *MockScheduler) Stop() { m.stopped = true }

var (
	_ CatalogStore  = (*MockCatalogStore)(nil)
	_ CatalogLoader = (*MockCatalogLoader)(nil)
	_ Scheduler     = (*MockScheduler)(nil)
)

func TestCatalogStoreContract(t *testing.T) {
	var store CatalogStore = &MockCatalogStore{}
	var loader CatalogLoader = &MockCatalogLoader{}

	if !store.BeginUpdate() {
		t.Fatal("Expected first BeginUpdate to succeed")
	}
	if store.BeginUpdate() {
		t.Error("Expected concurrent BeginUpdate to fail")
	}

	protocols, source, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	store.UpdateCatalog(protocols, source, &CatalogQualityReport{TotalProtocols: len(protocols)})
	store.EndUpdate()

	if store.IsUpdating() {
		t.Error("Expected updating flag to be cleared")
	}
	if _, ok := store.GetProtocol("fever"); !ok {
		t.Error("Expected to find fever protocol")
	}
	if store.GetSource() != "embedded" {
		t.Errorf("Expected source embedded, got %s", store.GetSource())
	}
	if store.GetLastUpdated().IsZero() {
		t.Error("Expected last updated to be set")
	}
}

func TestCatalogLoaderFailure(t *testing.T) {
	var loader CatalogLoader = &MockCatalogLoader{shouldFail: true}
	if _, _, err := loader.Load(context.Background()); err == nil {
		t.Error("Expected error from failing loader")
	}
}

func TestSchedulerContract(t *testing.T) {
	s := &MockScheduler{}
	var scheduler Scheduler = s

	if err := scheduler.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := scheduler.Start(); err == nil {
		t.Error("Expected error on second Start")
	}
	scheduler.Stop()
	if !s.stopped {
		t.Error("Expected scheduler to be stopped")
	}
}

func TestCatalogQualityReportHasIssues(t *testing.T) {
	tests := []struct {
		name   string
		report CatalogQualityReport
		want   bool
	}{
		{"clean", CatalogQualityReport{TotalProtocols: 3}, false},
		{"duplicates", CatalogQualityReport{DuplicateSymptoms: []string{"fever"}}, true},
		{"no medicine", CatalogQualityReport{ProtocolsWithoutMedicine: []string{"Rest"}}, true},
		{"empty keyword", CatalogQualityReport{ProtocolsWithEmptyKeyword: []string{"Cough"}}, true},
		{"unparseable", CatalogQualityReport{UnparseableMedicine: []string{"()"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.HasIssues(); got != tt.want {
				t.Errorf("HasIssues() = %v, want %v", got, tt.want)
			}
		})
	}
}
