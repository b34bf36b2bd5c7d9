// Package validation checks protocol catalogs and user supplied input.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/hospital-api/data"
	"github.com/giygas/hospital-api/interfaces"
	"github.com/giygas/hospital-api/matcher"
	"github.com/giygas/hospital-api/protocols/entities"
)

const (
	maxSymptomNameLength = 100
	maxSymptomsLength    = 500
	maxSymptomTokens     = 20
)

var (
	// Search terms: letters in any script, digits, spaces and safe punctuation
	inputRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\s\-\.\+']+$`)

	// Only patterns made of characters inputRegex accepts; anything else is
	// already rejected by the regex
	dangerousPatterns = []string{
		"' or ", "union select", "drop table", "delete from", "insert into", "--",
	}

	errDangerousInput = errors.New("input contains potentially dangerous content")
)

// Compile-time check to ensure CatalogValidatorImpl implements CatalogValidator
var _ interfaces.CatalogValidator = (*CatalogValidatorImpl)(nil)

// CatalogValidatorImpl implements the CatalogValidator interface
type CatalogValidatorImpl struct{}

// NewCatalogValidator creates a new validator
func NewCatalogValidator() interfaces.CatalogValidator {
	return &CatalogValidatorImpl{}
}

// ValidateProtocol checks that a protocol can be matched and yields at least one
// medicine line
func (v *CatalogValidatorImpl) ValidateProtocol(p *entities.SymptomProtocol) error {
	if p == nil {
		return fmt.Errorf("protocol is nil")
	}

	name := strings.TrimSpace(p.Symptom)
	if name == "" {
		return fmt.Errorf("protocol symptom is required")
	}
	if utf8.RuneCountInString(name) > maxSymptomNameLength {
		return fmt.Errorf("protocol %q: symptom name too long: maximum %d characters", name, maxSymptomNameLength)
	}
	if len(p.Medicine) == 0 {
		return fmt.Errorf("protocol %q has no medicine", name)
	}
	for _, kw := range p.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("protocol %q has an empty keyword", name)
		}
	}
	for _, med := range p.Medicine {
		if unparseableMedicine(med) {
			return fmt.Errorf("protocol %q: cannot parse medicine %q", name, med)
		}
	}

	return nil
}

// ReportCatalogQuality collects every issue in the catalog instead of stopping
// at the first one
func (v *CatalogValidatorImpl) ReportCatalogQuality(protocols []entities.SymptomProtocol) *interfaces.CatalogQualityReport {
	report := &interfaces.CatalogQualityReport{
		TotalProtocols:            len(protocols),
		DuplicateSymptoms:         []string{},
		ProtocolsWithoutMedicine:  []string{},
		ProtocolsWithEmptyKeyword: []string{},
		UnparseableMedicine:       []string{},
	}

	seen := make(map[string]int, len(protocols))
	for _, p := range protocols {
		key := data.SymptomKey(p.Symptom)
		seen[key]++
		if seen[key] == 2 {
			report.DuplicateSymptoms = append(report.DuplicateSymptoms, key)
		}

		if len(p.Medicine) == 0 {
			report.ProtocolsWithoutMedicine = append(report.ProtocolsWithoutMedicine, p.Symptom)
		}

		if slices.ContainsFunc(p.Keywords, func(kw string) bool { return strings.TrimSpace(kw) == "" }) {
			report.ProtocolsWithEmptyKeyword = append(report.ProtocolsWithEmptyKeyword, p.Symptom)
		}

		for _, med := range p.Medicine {
			if unparseableMedicine(med) {
				report.UnparseableMedicine = append(report.UnparseableMedicine, med)
			}
		}
	}

	return report
}

// unparseableMedicine reports lines that degrade to a placeholder name or whose
// frequency group is never closed
func unparseableMedicine(raw string) bool {
	if matcher.ParseMedicine(raw).Name == entities.Placeholder {
		return true
	}
	open := strings.Index(raw, "(")
	return open >= 0 && !strings.Contains(raw[open:], ")")
}

// ValidateInput validates a search term or path parameter
func (v *CatalogValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	length := utf8.RuneCountInString(input)
	if length < 3 {
		return fmt.Errorf("input too short: minimum 3 characters")
	}
	if length > 50 {
		return fmt.Errorf("input too long: maximum 50 characters")
	}

	// Word count validation to prevent DoS attacks with many short words
	if len(strings.Fields(input)) > 6 {
		return fmt.Errorf("search query too complex: maximum 6 words allowed")
	}

	if containsDangerousPattern(input) {
		return errDangerousInput
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes, periods and plus sign are allowed")
	}

	if hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// ValidateSymptoms validates a comma separated symptom list of free clinical
// text. Only its size and control characters are checked. A blank list is
// reported as matcher.ErrNoSymptoms.
func (v *CatalogValidatorImpl) ValidateSymptoms(input string) error {
	if strings.TrimSpace(input) == "" {
		return matcher.ErrNoSymptoms
	}

	if utf8.RuneCountInString(input) > maxSymptomsLength {
		return fmt.Errorf("symptoms too long: maximum %d characters", maxSymptomsLength)
	}

	if strings.Count(input, ",")+1 > maxSymptomTokens {
		return fmt.Errorf("too many symptoms: maximum %d allowed", maxSymptomTokens)
	}

	if hasControlCharacters(input) {
		return fmt.Errorf("symptoms contain control characters")
	}

	return nil
}

func containsDangerousPattern(input string) bool {
	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return true
		}
	}
	return false
}

// hasControlCharacters reports control characters other than tabs and line breaks
func hasControlCharacters(input string) bool {
	return strings.ContainsFunc(input, func(r rune) bool {
		return unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r'
	})
}

// hasExcessiveRepetition checks for the same byte repeated more than 10 times in a row
func hasExcessiveRepetition(input string) bool {
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}
