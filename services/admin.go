package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/giygas/hospital-api/hmsclient"
	"golang.org/x/sync/errgroup"
)

// recentPatientsLimit is how many patients the doctor dashboard shows
const recentPatientsLimit = 5

// AdminService builds dashboards and reads hospital rosters
type AdminService struct {
	client Doer
}

// DoctorDashboard fetches stats, appointments and recent patients concurrently.
// The first failure cancels the other reads and is returned.
func (s *AdminService) DoctorDashboard(ctx context.Context, auth *hmsclient.AuthContext) (*DoctorDashboard, error) {
	var (
		dash         DoctorDashboard
		appointments listResponse[Appointment]
		patients     listResponse[Patient]
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.client.Do(ctx, auth, http.MethodGet, hmsclient.DoctorStats, nil, nil, &dash.Stats)
	})
	g.Go(func() error {
		query := url.Values{"date": []string{"today"}}
		return s.client.Do(ctx, auth, http.MethodGet, hmsclient.DoctorAppointments, query, nil, &appointments)
	})
	g.Go(func() error {
		return s.client.Do(ctx, auth, http.MethodGet, hmsclient.DoctorPatients, pageQuery(1, recentPatientsLimit), nil, &patients)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dash.Appointments = appointments.Data
	dash.RecentPatients = patients.Data
	return &dash, nil
}

// AdminDashboard fetches hospital stats and both rosters concurrently
func (s *AdminService) AdminDashboard(ctx context.Context, auth *hmsclient.AuthContext) (*AdminDashboard, error) {
	var dash AdminDashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.client.Do(gctx, auth, http.MethodGet, hmsclient.HospitalAdminStats, nil, nil, &dash.Stats)
	})
	g.Go(func() error {
		doctors, err := s.ListDoctors(gctx, auth)
		dash.Doctors = doctors
		return err
	})
	g.Go(func() error {
		staff, err := s.ListStaff(gctx, auth)
		dash.Staff = staff
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}

// ListDoctors returns the hospital's doctors
func (s *AdminService) ListDoctors(ctx context.Context, auth *hmsclient.AuthContext) ([]Doctor, error) {
	var out listResponse[Doctor]
	if err := s.client.Do(ctx, auth, http.MethodGet, hmsclient.HospitalAdminDoctors, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListStaff returns the hospital's non-doctor staff
func (s *AdminService) ListStaff(ctx context.Context, auth *hmsclient.AuthContext) ([]StaffMember, error) {
	var out listResponse[StaffMember]
	if err := s.client.Do(ctx, auth, http.MethodGet, hmsclient.HospitalAdminStaff, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
