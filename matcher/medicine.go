package matcher

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/giygas/hospital-api/protocols/entities"
)

// CourseDays is the assumed treatment length for every generated line
const CourseDays = 5

var (
	dosagePattern = regexp.MustCompile(`(?i)(\d+(?:-\d+)?\s*(?:mg|ml|g|mcg|iu))`)
	leadingDigits = regexp.MustCompile(`^\d+`)
	firstNumber   = regexp.MustCompile(`\d+`)
)

// ParseMedicine splits a catalog medicine string such as "Paracetamol 500mg (1-0-1)"
// into a structured line. It never fails: anything it cannot derive is left as
// the placeholder.
func ParseMedicine(raw string) entities.MedicineLine {
	name, freq := raw, ""
	if idx := strings.Index(raw, "("); idx >= 0 {
		name = raw[:idx]
		freq = strings.TrimSpace(strings.Replace(raw[idx+1:], ")", "", 1))
	}

	dosage := ""
	if loc := dosagePattern.FindStringIndex(name); loc != nil {
		dosage = strings.TrimSpace(name[loc[0]:loc[1]])
		name = name[:loc[0]] + name[loc[1]:]
	}
	name = strings.Join(strings.Fields(name), " ")

	quantity := DailyCount(freq) * CourseDays
	if quantity <= 0 {
		quantity = 1
	}

	return entities.MedicineLine{
		Name:     orPlaceholder(name),
		Dosage:   orPlaceholder(dosage),
		Freq:     orPlaceholder(freq),
		Duration: strconv.Itoa(CourseDays) + " days",
		Quantity: strconv.Itoa(quantity),
		Price:    entities.Placeholder,
	}
}

// DailyCount estimates doses per day from a frequency code.
// "1-0-1" sums its parts, "every 6 hrs" divides 24 by the interval, anything
// else is once a day. The "hr" check is case-sensitive.
func DailyCount(freq string) int {
	switch {
	case strings.Contains(freq, "-"):
		total := 0
		for _, part := range strings.Split(freq, "-") {
			n, _ := strconv.Atoi(leadingDigits.FindString(strings.TrimSpace(part)))
			total += n
		}
		return total
	case strings.Contains(freq, "hr"):
		interval, _ := strconv.Atoi(firstNumber.FindString(freq))
		if interval <= 0 {
			return 1
		}
		return 24 / interval
	default:
		return 1
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return entities.Placeholder
	}
	return s
}
