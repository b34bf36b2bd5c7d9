package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var phoneRegex = regexp.MustCompile(`^\d{10}$`)

// ValidatePhone requires exactly ten digits
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(strings.TrimSpace(phone)) {
		return fmt.Errorf("phone number must be exactly 10 digits")
	}
	return nil
}

// Required rejects blank values
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
