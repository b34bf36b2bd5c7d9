package services

import (
	"context"
	"net/http"

	"github.com/giygas/hospital-api/hmsclient"
	"github.com/giygas/hospital-api/validation"
)

// SupportService files help desk tickets
type SupportService struct {
	client Doer
}

// CreateTicket files a ticket; subject and description are required
func (s *SupportService) CreateTicket(ctx context.Context, auth *hmsclient.AuthContext, ticket SupportTicket) (*SupportTicket, error) {
	if err := validation.Required("subject", ticket.Subject); err != nil {
		return nil, invalid("subject", err)
	}
	if err := validation.Required("description", ticket.Description); err != nil {
		return nil, invalid("description", err)
	}
	if ticket.Priority == "" {
		ticket.Priority = "normal"
	}

	var out SupportTicket
	if err := s.client.Do(ctx, auth, http.MethodPost, hmsclient.SupportTickets, nil, ticket, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
