package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/giygas/hospital-api/hmsclient"
	"github.com/giygas/hospital-api/validation"
)

// LabService manages lab tokens, samples and bills
type LabService struct {
	client Doer
}

// ListTokens returns lab tokens, all of them when status is empty
func (s *LabService) ListTokens(ctx context.Context, auth *hmsclient.AuthContext, status LabTokenStatus) ([]LabToken, error) {
	query := url.Values{}
	if status != "" {
		if !status.Valid() {
			return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown lab status %q", status)}
		}
		query.Set("status", string(status))
	}

	var out listResponse[LabToken]
	if err := s.client.Do(ctx, auth, http.MethodGet, hmsclient.LabTokens, query, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpdateTokenStatus moves a token to status
func (s *LabService) UpdateTokenStatus(ctx context.Context, auth *hmsclient.AuthContext, tokenID string, status LabTokenStatus) error {
	if err := validation.Required("tokenId", tokenID); err != nil {
		return invalid("tokenId", err)
	}
	if !status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown lab status %q", status)}
	}

	path := fmt.Sprintf(hmsclient.LabTokenStatus, url.PathEscape(tokenID))
	return s.client.Do(ctx, auth, http.MethodPatch, path, nil, map[string]LabTokenStatus{"status": status}, nil)
}

// CreateSample records a collected specimen
func (s *LabService) CreateSample(ctx context.Context, auth *hmsclient.AuthContext, sample LabSample) (*LabSample, error) {
	if err := validation.Required("tokenId", sample.TokenID); err != nil {
		return nil, invalid("tokenId", err)
	}
	if err := validation.Required("sampleType", sample.SampleType); err != nil {
		return nil, invalid("sampleType", err)
	}

	var out LabSample
	if err := s.client.Do(ctx, auth, http.MethodPost, hmsclient.LabSamples, nil, sample, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateBill creates an invoice for a token. Total is recomputed from the items.
func (s *LabService) GenerateBill(ctx context.Context, auth *hmsclient.AuthContext, bill LabBill) (*LabBill, error) {
	if err := validation.Required("tokenId", bill.TokenID); err != nil {
		return nil, invalid("tokenId", err)
	}
	if len(bill.Items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one item is required"}
	}

	bill.Total = 0
	for _, item := range bill.Items {
		if item.Amount < 0 {
			return nil, &ValidationError{Field: "items", Message: fmt.Sprintf("negative amount for %s", item.Test)}
		}
		bill.Total += item.Amount
	}

	var out LabBill
	if err := s.client.Do(ctx, auth, http.MethodPost, hmsclient.LabBills, nil, bill, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBills returns one page of lab bills
func (s *LabService) ListBills(ctx context.Context, auth *hmsclient.AuthContext, page, pageSize int) (*Page[LabBill], error) {
	var out Page[LabBill]
	if err := s.client.Do(ctx, auth, http.MethodGet, hmsclient.LabBills, pageQuery(page, pageSize), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
