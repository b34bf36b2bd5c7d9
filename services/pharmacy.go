package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/giygas/hospital-api/hmsclient"
	"github.com/giygas/hospital-api/matcher"
)

// PharmacyService reads pharmacy stock
type PharmacyService struct {
	client Doer
}

// Inventory returns stock lines, filtered by search when not empty
func (s *PharmacyService) Inventory(ctx context.Context, auth *hmsclient.AuthContext, search string) ([]InventoryItem, error) {
	query := url.Values{}
	if search = strings.TrimSpace(search); search != "" {
		query.Set("search", search)
	}

	var out listResponse[InventoryItem]
	if err := s.client.Do(ctx, auth, http.MethodGet, hmsclient.PharmacyInventory, query, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// PriceBook snapshots the inventory for pricing generated prescriptions
func (s *PharmacyService) PriceBook(ctx context.Context, auth *hmsclient.AuthContext) (*PriceBook, error) {
	items, err := s.Inventory(ctx, auth, "")
	if err != nil {
		return nil, err
	}
	return NewPriceBook(items), nil
}

// Compile-time check to ensure PriceBook implements PriceLookup
var _ matcher.PriceLookup = (*PriceBook)(nil)

// PriceBook maps medicine names to unit prices, ignoring case
type PriceBook struct {
	prices map[string]string
}

// NewPriceBook indexes items by name. The first item wins on duplicate names.
func NewPriceBook(items []InventoryItem) *PriceBook {
	prices := make(map[string]string, len(items))
	for _, item := range items {
		key := priceKey(item.Name)
		if _, ok := prices[key]; ok || key == "" {
			continue
		}
		prices[key] = strconv.FormatFloat(item.UnitPrice, 'f', 2, 64)
	}
	return &PriceBook{prices: prices}
}

// Price implements matcher.PriceLookup
func (p *PriceBook) Price(name string) (string, bool) {
	price, ok := p.prices[priceKey(name)]
	return price, ok
}

// Len returns the number of priced names
func (p *PriceBook) Len() int {
	return len(p.prices)
}

func priceKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
