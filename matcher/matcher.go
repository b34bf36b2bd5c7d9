// Package matcher turns free-text symptoms into a prescription draft by scanning
// the protocol catalog with symmetric substring matching.
package matcher

import (
	"errors"
	"strings"
	"time"

	"github.com/giygas/hospital-api/protocols/entities"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNoSymptoms is returned before any scanning when the input holds no symptom
	ErrNoSymptoms = errors.New("no symptoms provided")
	// ErrNoMatch is returned when no protocol matched any symptom
	ErrNoMatch = errors.New("no matching protocol found for the given symptoms")
)

// PriceLookup resolves a unit price for a medicine name
type PriceLookup interface {
	Price(name string) (string, bool)
}

// Matcher generates prescription drafts. The zero value is not usable, use New.
type Matcher struct {
	prices PriceLookup
	now    func() time.Time
	newID  func() string
}

// New creates a matcher that leaves prices as placeholders
func New() *Matcher {
	return &Matcher{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// WithPrices returns a copy of m that fills medicine prices from lookup
func (m *Matcher) WithPrices(lookup PriceLookup) *Matcher {
	clone := *m
	clone.prices = lookup
	return &clone
}

// Generate is a shortcut for New().Generate
func Generate(symptoms string, catalog []entities.SymptomProtocol) (*entities.PrescriptionDraft, error) {
	return New().Generate(symptoms, catalog)
}

// Generate matches symptoms against catalog and accumulates every matched protocol
// into a fresh draft. Medicines are appended as-is; the other lists keep the first
// occurrence of each entry. The follow-up of the last matching protocol wins.
func (m *Matcher) Generate(symptoms string, catalog []entities.SymptomProtocol) (*entities.PrescriptionDraft, error) {
	tokens := Tokenize(symptoms)
	if len(tokens) == 0 {
		return nil, ErrNoSymptoms
	}

	draft := &entities.PrescriptionDraft{
		ID:             m.newID(),
		Diagnosis:      []string{},
		Medicines:      []entities.MedicineLine{},
		DietAdvice:     []string{},
		SuggestedTests: []string{},
		Avoid:          []string{},
		GeneratedAt:    m.now(),
	}
	diagnosis := newOrderedSet(&draft.Diagnosis)
	diet := newOrderedSet(&draft.DietAdvice)
	tests := newOrderedSet(&draft.SuggestedTests)
	avoid := newOrderedSet(&draft.Avoid)

	matched := 0
	for i := range catalog {
		protocol := &catalog[i]
		if !Matches(tokens, protocol) {
			continue
		}
		matched++

		diagnosis.add(protocol.Symptom)
		for _, med := range protocol.Medicine {
			line := ParseMedicine(med)
			if m.prices != nil && line.Name != entities.Placeholder {
				if price, ok := m.prices.Price(line.Name); ok {
					line.Price = price
				}
			}
			draft.Medicines = append(draft.Medicines, line)
		}
		diet.add(protocol.DietAdvice...)
		tests.add(protocol.SuggestedTests...)
		avoid.add(protocol.Avoid...)

		if strings.TrimSpace(protocol.FollowUp) != "" {
			draft.FollowUp = protocol.FollowUp
		}
	}

	if matched == 0 {
		return nil, ErrNoMatch
	}
	return draft, nil
}

// Tokenize splits a comma separated symptom string into normalised tokens.
// Empty tokens are dropped.
func Tokenize(symptoms string) []string {
	parts := strings.Split(symptoms, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := normalize(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// Matches reports whether any token contains, or is contained by, the protocol
// symptom name or one of its keywords
func Matches(tokens []string, protocol *entities.SymptomProtocol) bool {
	terms := make([]string, 0, len(protocol.Keywords)+1)
	if name := normalize(protocol.Symptom); name != "" {
		terms = append(terms, name)
	}
	for _, kw := range protocol.Keywords {
		if kw = normalize(kw); kw != "" {
			terms = append(terms, kw)
		}
	}

	for _, token := range tokens {
		for _, term := range terms {
			if strings.Contains(token, term) || strings.Contains(term, token) {
				return true
			}
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// orderedSet appends to a slice, skipping values already seen
type orderedSet struct {
	seen map[string]struct{}
	dst  *[]string
}

func newOrderedSet(dst *[]string) *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), dst: dst}
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		*s.dst = append(*s.dst, v)
	}
}
