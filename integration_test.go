package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/giygas/hospital-api/config"
	"github.com/giygas/hospital-api/data"
	"github.com/giygas/hospital-api/handlers"
	"github.com/giygas/hospital-api/health"
	"github.com/giygas/hospital-api/hmsclient"
	"github.com/giygas/hospital-api/logging"
	"github.com/giygas/hospital-api/protocols"
	"github.com/giygas/hospital-api/protocols/entities"
	"github.com/giygas/hospital-api/scheduler"
	"github.com/giygas/hospital-api/server"
	"github.com/giygas/hospital-api/services"
	"github.com/giygas/hospital-api/validation"
)

const clinicCatalog = `[
  {"symptom": "Fever", "keywords": ["pyrexia"], "medicine": ["Paracetamol 500mg (1-0-1)"], "follow_up": "3 days"},
  {"symptom": "Cough", "keywords": ["throat"], "medicine": ["Dextromethorphan syrup 10ml (every 6 hrs)"], "avoid": ["Cold drinks"]}
]`

// fakeHospital is a minimal hospital API: inventory, prescriptions and token refresh
type fakeHospital struct {
	refreshes atomic.Int32
	created   atomic.Int32
}

func (f *fakeHospital) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	auth := r.Header.Get("Authorization")

	switch {
	case r.URL.Path == "/auth/refresh":
		f.refreshes.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "access-2", "refreshToken": "refresh-2"})

	case auth != "Bearer access-2":
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "jwt expired"})

	case r.URL.Path == "/pharmacy/inventory":
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []services.InventoryItem{
			{Name: "Paracetamol", UnitPrice: 1.2},
			{Name: "Dextromethorphan syrup", UnitPrice: 85},
		}})

	case r.URL.Path == "/prescriptions" && r.Method == http.MethodPost:
		f.created.Add(1)
		var p services.Prescription
		_ = json.NewDecoder(r.Body).Decode(&p)
		p.ID = "rx-1"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)

	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "no route"})
	}
}

// TestIntegrationGenerateAndSubmit runs the catalog reload, draft generation and
// submission through the full router against a fake hospital API
func TestIntegrationGenerateAndSubmit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	logging.InitLogger("")

	catalogFile := filepath.Join(t.TempDir(), "protocols.json")
	if err := os.WriteFile(catalogFile, []byte(clinicCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	hospitalAPI := &fakeHospital{}
	upstream := httptest.NewServer(hospitalAPI)
	defer upstream.Close()

	container := data.NewCatalogContainer()
	container.SetServerStartTime(time.Now())
	validator := validation.NewCatalogValidator()

	reloader := scheduler.NewScheduler(container, protocols.NewLoader("", catalogFile, time.Second), validator, time.Hour)
	if err := reloader.Start(); err != nil {
		t.Fatalf("Scheduler failed to start: %v", err)
	}
	defer reloader.Stop()

	if got := container.GetSource(); got != protocols.SourceFile {
		t.Fatalf("Expected catalog from file, got %q", got)
	}

	hospital := services.New(hmsclient.NewClient(upstream.URL, 2*time.Second))
	handler := handlers.NewHTTPHandler(container, validator, health.NewHealthChecker(container, time.Hour), hospital)
	srv := server.NewServer(&config.Config{
		Port:           "0",
		Address:        "localhost",
		Env:            config.EnvTest,
		MaxRequestBody: 1 << 20,
		MaxHeaderSize:  1 << 20,
	}, handler)
	api := httptest.NewServer(srv.Router())
	defer api.Close()

	// 1. Generate a priced draft with an expired token: the refresh is transparent
	req, _ := http.NewRequest(http.MethodPost, api.URL+"/v1/prescriptions/auto-generate?priced=true",
		strings.NewReader(`{"symptoms":"fever, throat"}`))
	req.Header.Set("Authorization", "Bearer access-1")
	req.Header.Set(handlers.RefreshTokenHeader, "refresh-1")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get(handlers.RefreshedAccessTokenHeader); got != "access-2" {
		t.Errorf("Expected refreshed access token, got %q", got)
	}

	var draft entities.PrescriptionDraft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		t.Fatal(err)
	}
	if strings.Join(draft.Diagnosis, ",") != "Fever,Cough" {
		t.Errorf("Unexpected diagnosis %v", draft.Diagnosis)
	}
	if draft.Medicines[0].Price != "1.20" || draft.Medicines[1].Price != "85.00" {
		t.Errorf("Expected priced lines, got %+v", draft.Medicines)
	}
	if draft.Medicines[1].Quantity != "20" {
		t.Errorf("Expected 4 doses a day for 5 days, got %s", draft.Medicines[1].Quantity)
	}
	if draft.FollowUp != "3 days" {
		t.Errorf("Expected follow up from Fever, got %q", draft.FollowUp)
	}

	// 2. Submit it with the refreshed session
	body, _ := json.Marshal(services.PrescriptionFromDraft("MRN-7", &draft))
	req, _ = http.NewRequest(http.MethodPost, api.URL+"/v1/prescriptions", strings.NewReader(string(body)))
	req.Header.Set("Authorization", "Bearer access-2")

	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()

	if resp2.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp2.StatusCode)
	}
	if hospitalAPI.refreshes.Load() != 1 || hospitalAPI.created.Load() != 1 {
		t.Errorf("Expected 1 refresh and 1 creation, got %d and %d",
			hospitalAPI.refreshes.Load(), hospitalAPI.created.Load())
	}

	// 3. Health reflects the file catalog
	resp3, err := http.Get(api.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp3.Body.Close()

	var healthBody handlers.HealthResponse
	if err := json.NewDecoder(resp3.Body).Decode(&healthBody); err != nil {
		t.Fatal(err)
	}
	if healthBody.Status != "healthy" || healthBody.Data["source"] != protocols.SourceFile {
		t.Errorf("Unexpected health: %+v", healthBody)
	}
}
