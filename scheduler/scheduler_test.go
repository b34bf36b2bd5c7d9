package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/giygas/hospital-api/data"
	"github.com/giygas/hospital-api/protocols/entities"
	"github.com/giygas/hospital-api/validation"
)

// mockLoader counts loads and can be switched to fail
type mockLoader struct {
	mu         sync.Mutex
	calls      int
	shouldFail bool
	protocols  []entities.SymptomProtocol
}

func (m *mockLoader) Load(ctx context.Context) ([]entities.SymptomProtocol, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.shouldFail {
		return nil, "", errors.New("source unavailable")
	}
	return m.protocols, "file", nil
}

func (m *mockLoader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newMockLoader() *mockLoader {
	return &mockLoader{protocols: []entities.SymptomProtocol{
		{Symptom: "Fever", Medicine: []string{"Paracetamol 500mg (1-0-1)"}},
		{Symptom: "fever", Medicine: []string{"Ibuprofen 400mg (SOS)"}},
		{Symptom: "Rest"},
	}}
}

func TestSchedulerStartLoadsCatalog(t *testing.T) {
	store := data.NewCatalogContainer()
	loader := newMockLoader()
	s := NewScheduler(store, loader, validation.NewCatalogValidator(), time.Hour)

	if err := s.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer s.Stop()

	if loader.callCount() != 1 {
		t.Errorf("Expected exactly one initial load, got %d", loader.callCount())
	}
	if got := len(store.GetProtocols()); got != 3 {
		t.Errorf("Expected 3 protocols, got %d", got)
	}
	if store.GetSource() != "file" {
		t.Errorf("Expected source file, got %s", store.GetSource())
	}

	report := store.GetQualityReport()
	if len(report.DuplicateSymptoms) != 1 || len(report.ProtocolsWithoutMedicine) != 1 {
		t.Errorf("Expected quality issues to be recorded, got %+v", report)
	}
	if store.IsUpdating() {
		t.Error("Expected update flag to be released")
	}

	next := s.NextReload()
	if next.IsZero() {
		t.Fatal("Expected a scheduled next reload")
	}
	if until := time.Until(next); until < 50*time.Minute || until > 61*time.Minute {
		t.Errorf("Expected next reload in about an hour, got %s", until)
	}
}

func TestSchedulerStartFailsWhenLoadFails(t *testing.T) {
	store := data.NewCatalogContainer()
	loader := newMockLoader()
	loader.shouldFail = true
	s := NewScheduler(store, loader, validation.NewCatalogValidator(), time.Hour)

	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("Expected Start to fail")
	}
	if len(store.GetProtocols()) != 0 {
		t.Error("Expected catalog to stay empty")
	}
	if !s.NextReload().IsZero() {
		t.Error("Expected no scheduled reload")
	}
}

func TestReloadKeepsCatalogOnFailure(t *testing.T) {
	store := data.NewCatalogContainer()
	loader := newMockLoader()
	s := NewScheduler(store, loader, validation.NewCatalogValidator(), time.Hour)

	if err := s.Reload(); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	loadedAt := store.GetLastUpdated()

	loader.mu.Lock()
	loader.shouldFail = true
	loader.mu.Unlock()

	if err := s.Reload(); err == nil {
		t.Error("Expected Reload to report the failure")
	}
	if len(store.GetProtocols()) != 3 {
		t.Error("Expected previous catalog to be kept")
	}
	if !store.GetLastUpdated().Equal(loadedAt) {
		t.Error("Expected lastUpdated to be unchanged")
	}
}

func TestReloadSkipsWhenUpdateInProgress(t *testing.T) {
	store := data.NewCatalogContainer()
	loader := newMockLoader()
	s := NewScheduler(store, loader, validation.NewCatalogValidator(), time.Hour)

	if !store.BeginUpdate() {
		t.Fatal("BeginUpdate failed")
	}
	if err := s.Reload(); err != nil {
		t.Errorf("Expected skipped reload to return nil, got %v", err)
	}
	if loader.callCount() != 0 {
		t.Errorf("Expected loader not to be called, got %d calls", loader.callCount())
	}
	store.EndUpdate()
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := NewScheduler(data.NewCatalogContainer(), newMockLoader(), validation.NewCatalogValidator(), time.Hour)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	s.Stop()
	s.Stop()
}
