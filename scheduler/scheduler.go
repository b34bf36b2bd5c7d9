// Package scheduler reloads the protocol catalog on a fixed interval and warns
// when the catalog goes stale.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/giygas/hospital-api/interfaces"
	"github.com/giygas/hospital-api/logging"
	"github.com/giygas/hospital-api/metrics"
	"github.com/go-co-op/gocron"
)

// loadTimeout bounds a single reload including any download
const loadTimeout = 2 * time.Minute

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles catalog reloads and staleness monitoring
type Scheduler struct {
	store     interfaces.CatalogStore
	loader    interfaces.CatalogLoader
	validator interfaces.CatalogValidator
	interval  time.Duration
	scheduler *gocron.Scheduler

	mu     sync.Mutex
	job    *gocron.Job
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler reloading the catalog every interval
func NewScheduler(store interfaces.CatalogStore, loader interfaces.CatalogLoader,
	validator interfaces.CatalogValidator, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:     store,
		loader:    loader,
		validator: validator,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start loads the catalog once, then schedules periodic reloads
func (s *Scheduler) Start() error {
	if err := s.reload(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	job, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		if err := s.reload(); err != nil {
			logging.Error("Failed to reload catalog", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule catalog reloads", "error", err)
		return fmt.Errorf("failed to schedule catalog reloads: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.job = job
	s.cancel = cancel
	s.mu.Unlock()

	s.scheduler.StartAsync()
	s.startStalenessMonitoring(ctx)

	logging.Info("Catalog reloads scheduled", "interval", s.interval.String(), "next_run", job.NextRun().Format(time.RFC3339))
	return nil
}

// Stop stops the scheduler and the staleness monitor
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	s.scheduler.Stop()
}

// NextReload returns the next scheduled reload, or the zero time before Start
func (s *Scheduler) NextReload() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return time.Time{}
	}
	return s.job.NextRun()
}

// Reload runs one reload immediately
func (s *Scheduler) Reload() error {
	return s.reload()
}

// reload loads, validates and swaps in a new catalog
func (s *Scheduler) reload() error {
	// Prevent concurrent reloads
	if !s.store.BeginUpdate() {
		logging.Info("Catalog reload already in progress, skipping...")
		return nil
	}
	defer s.store.EndUpdate()

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	protocols, source, err := s.loader.Load(ctx)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("none", "error").Inc()
		return fmt.Errorf("failed to load protocol catalog: %w", err)
	}

	report := s.validator.ReportCatalogQuality(protocols)

	if len(report.DuplicateSymptoms) > 0 {
		logging.Warn("Duplicate symptoms detected",
			"total", len(report.DuplicateSymptoms),
			"symptoms", report.DuplicateSymptoms,
		)
	}
	if len(report.ProtocolsWithoutMedicine) > 0 {
		logging.Warn("Protocols without medicine",
			"count", len(report.ProtocolsWithoutMedicine),
			"symptoms", report.ProtocolsWithoutMedicine,
		)
	}
	if len(report.ProtocolsWithEmptyKeyword) > 0 {
		logging.Warn("Protocols with empty keywords",
			"count", len(report.ProtocolsWithEmptyKeyword),
			"symptoms", report.ProtocolsWithEmptyKeyword,
		)
	}
	if len(report.UnparseableMedicine) > 0 {
		logging.Warn("Unparseable medicine lines",
			"count", len(report.UnparseableMedicine),
			"lines", report.UnparseableMedicine,
		)
	}

	s.store.UpdateCatalog(protocols, source, report)
	metrics.CatalogSize.Set(float64(len(protocols)))
	metrics.CatalogReloads.WithLabelValues(source, "ok").Inc()

	logging.Info("Catalog reload completed",
		"duration", time.Since(start).String(),
		"source", source,
		"protocol_count", len(protocols),
	)
	return nil
}

// startStalenessMonitoring warns when no reload succeeded for three intervals
func (s *Scheduler) startStalenessMonitoring(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if age := time.Since(s.store.GetLastUpdated()); age > 3*s.interval {
					logging.Warn("Protocol catalog is stale", "age", age.Round(time.Second).String())
				}
			}
		}
	}()
}
