package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// moneyCeiling rejects amounts that are almost certainly data-entry errors.
const moneyCeiling = 100_000_000

// patterns holds the structural check per kind. Dates accept any non-empty
// string here and are then parsed against the layout table.
var patterns = map[Kind]*regexp.Regexp{
	KindName:    regexp.MustCompile(`^[A-Za-z\s.\-']+$`),
	KindEmail:   regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
	KindPhone:   regexp.MustCompile(`^[+]?[0-9\s\-()]{10,15}$`),
	KindCode:    regexp.MustCompile(`^[A-Z0-9-]{3,20}$`),
	KindTitle:   regexp.MustCompile(`^[A-Za-z\s\-/&]+$`),
	KindAddress: regexp.MustCompile(`^[A-Za-z0-9\s,.\-#/]+$`),
	KindCity:    regexp.MustCompile(`^[A-Za-z\s-]+$`),
	KindRegion:  regexp.MustCompile(`^[A-Za-z\s-]+$`),
	KindPostal:  regexp.MustCompile(`^[0-9]{5,6}$`),
	KindMoney:   regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`),
	KindPercent: regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`),
}

// dateLayouts covers the human formats operators actually type. A value is
// a valid date if any layout parses it.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2 January 2006",
	"2-January-2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"02/01/06",
	"02-01-06",
	"01/02/2006",
	"2006/01/02",
}

// Validate checks a value against the semantic kind its field name maps to.
// It is total: it never panics and always returns (ok, message). The
// message is empty on success and human-readable on failure.
func Validate(name, value string) (bool, string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false, "This field cannot be empty"
	}

	kind := KindOf(name)
	if kind == KindAsset {
		// Binary fields arrive as uploads; any non-empty marker is accepted.
		return true, ""
	}

	if pattern, ok := patterns[kind]; ok {
		if !pattern.MatchString(trimmed) {
			return false, structuralMessage(name, kind, trimmed)
		}
	}

	switch kind {
	case KindDate:
		if !parseableDate(trimmed) {
			return false, fmt.Sprintf("'%s' is not a valid date. Try formats like: 2-December-2025, 02/12/2024, 2024-12-02, Dec 2 2024", trimmed)
		}
	case KindMoney:
		amount, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return false, "Invalid amount"
		}
		if amount <= 0 {
			return false, "Salary must be a positive number"
		}
		if amount > moneyCeiling {
			return false, "Amount seems unrealistic"
		}
	case KindPercent:
		pct, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return false, "Invalid percentage"
		}
		if pct < 0 || pct > 100 {
			return false, "Percentage must be between 0 and 100"
		}
	case KindEmail:
		if len(trimmed) > 100 {
			return false, "Email too long"
		}
	case KindName:
		if len(trimmed) < 2 {
			return false, "Name must be at least 2 characters"
		}
		if len(trimmed) > 100 {
			return false, "Name too long"
		}
		for _, r := range trimmed {
			if unicode.IsDigit(r) {
				return false, "Name cannot contain numbers"
			}
		}
	}

	return true, ""
}

func parseableDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func structuralMessage(name string, kind Kind, value string) string {
	switch kind {
	case KindName:
		return fmt.Sprintf("'%s' is not a valid name. Please use only letters, spaces, dots, hyphens, and apostrophes.", value)
	case KindEmail:
		return fmt.Sprintf("'%s' is not a valid email address. Use format: user@domain.com", value)
	case KindPhone:
		return fmt.Sprintf("'%s' is not a valid phone number. Use 10-15 digits with optional +, spaces, hyphens, or parentheses.", value)
	case KindCode:
		return fmt.Sprintf("'%s' is not a valid employee code. Use 3-20 characters with uppercase letters, numbers, and hyphens.", value)
	case KindTitle:
		return fmt.Sprintf("'%s' is not a valid title. Use only letters, spaces, hyphens, slashes, and ampersands.", value)
	case KindAddress:
		return fmt.Sprintf("'%s' is not a valid address. Use alphanumeric characters with common punctuation.", value)
	case KindCity:
		return fmt.Sprintf("'%s' is not a valid city name. Use only letters, spaces, and hyphens.", value)
	case KindRegion:
		return fmt.Sprintf("'%s' is not a valid region name. Use only letters, spaces, and hyphens.", value)
	case KindPostal:
		return fmt.Sprintf("'%s' is not a valid postal code. Use 5-6 digits.", value)
	case KindMoney:
		return fmt.Sprintf("'%s' is not a valid amount. Use numeric values only.", value)
	case KindPercent:
		return fmt.Sprintf("'%s' is not a valid percentage. Use numeric values between 0 and 100.", value)
	}
	return fmt.Sprintf("'%s' is not valid for %s", value, Label(name))
}

// fieldHints carries worked examples for specific canonical fields. Shown
// before first entry and alongside every validation failure.
var fieldHints = map[string]string{
	"employee_name":     "Example: John Michael Doe",
	"signatory_name":    "Example: Robert Williams",
	"reporting_manager": "Example: Jennifer Anderson",

	"designation":         "Example: Senior Software Engineer",
	"current_designation": "Example: Software Engineer",
	"new_designation":     "Example: Senior Software Engineer",

	"company_name":    "Example: Meridian Logistics Pvt Ltd",
	"company_address": "Example: 123 Tech Park, Whitefield, Bangalore 560066",
	"contact_info":    "Example: +91-80-12345678 | hr@company.com",

	"salary":       "Example: 1200000 (for 12 LPA) or 85000 (for $85k)",
	"new_salary":   "Example: 1500000",
	"bonus_amount": "Example: 50000",

	"joining_date":          "Example: 1-December-2024, 01/12/2024, or 2024-12-01",
	"offer_acceptance_date": "Example: 30-November-2024 or 30/11/2024",
	"last_working_date":     "Example: 31-December-2024 or 31/12/2024",
	"confirmation_date":     "Example: 1-June-2025 or 01/06/2025",
	"effective_date":        "Example: 15-Jan-2025 or 15/01/2025",

	"email":         "Example: john.doe@company.com",
	"phone_number":  "Example: +91-9876543210 or 9876543210",
	"employee_code": "Example: EMP2024001 or MLX-001",

	"department":     "Example: Information Technology",
	"new_department": "Example: Engineering & Development",

	"signatory_designation": "Example: Vice President - Human Resources",

	"location":         "Example: Mumbai",
	"current_location": "Example: Chennai or Bengaluru, Karnataka",
	"new_location":     "Example: Hyderabad or Pune, Maharashtra",

	"company_logo":        "Upload a PNG/JPG logo image.",
	"signatory_signature": "Upload a PNG/JPG signature image. If it includes name & designation, those fields are filled automatically.",
}

// kindHints is the fallback when no field-specific example exists.
var kindHints = map[Kind]string{
	KindName:    "Example: John Michael Doe (full name)",
	KindEmail:   "Example: your.name@company.com",
	KindPhone:   "Example: +91-9876543210 or (555) 123-4567",
	KindCode:    "Example: EMP2024001",
	KindTitle:   "Example: Senior Software Engineer or Manager - Sales",
	KindAddress: "Example: 123 Main Street, Tower A, 5th Floor, City 560001",
	KindCity:    "Example: Bangalore or New York",
	KindRegion:  "Example: Karnataka or New York",
	KindPostal:  "Example: 560001 or 10001",
	KindDate:    "Example: 25-November-2024, 25/11/2024, Nov 25 2024, or 2024-11-25",
	KindMoney:   "Example: 1200000 or 85000",
	KindPercent: "Example: 15 or 15.5 (for 15% or 15.5%)",
	KindText:    "Enter any text value",
}

// Hint returns a concrete example for a field, falling back from the
// field-specific table to the kind table.
func Hint(name string) string {
	canonical := Canonical(name)
	if hint, ok := fieldHints[canonical]; ok {
		return hint
	}
	if hint, ok := kindHints[KindOf(canonical)]; ok {
		return hint
	}
	return "Enter value"
}

// Example reduces a field's hint to one fill-in value: the first listed
// alternative with the "Example: " prefix stripped. Blank import files use
// it to pre-populate the sample row.
func Example(name string) string {
	hint := strings.TrimPrefix(Hint(name), "Example: ")
	for _, stop := range []string{",", " (", " or "} {
		if i := strings.Index(hint, stop); i > 0 {
			hint = hint[:i]
		}
	}
	return strings.TrimSpace(hint)
}
