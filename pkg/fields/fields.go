// Package fields resolves the many spellings of letter data points into
// canonical field names and validates values against their semantic kind.
package fields

import (
	"regexp"
	"sort"
	"strings"
)

// Kind is the semantic type a field name maps to. Validation applies a
// structural pattern per kind plus, where it exists, a semantic check.
type Kind string

const (
	KindName    Kind = "name"
	KindEmail   Kind = "email"
	KindPhone   Kind = "phone"
	KindCode    Kind = "code"
	KindTitle   Kind = "title"
	KindAddress Kind = "address"
	KindCity    Kind = "city"
	KindRegion  Kind = "region"
	KindPostal  Kind = "postal"
	KindDate    Kind = "date"
	KindMoney   Kind = "money"
	KindPercent Kind = "percent"
	KindAsset   Kind = "asset"
	KindText    Kind = "text"
)

// synonyms maps normalized phrasings (lowercase, space separated) to the one
// canonical field name used everywhere downstream. Template authors and
// spreadsheet headers both route through this table.
var synonyms = map[string]string{
	"employee name":  "employee_name",
	"candidate name": "employee_name",
	"name":           "employee_name",

	"designation": "designation",
	"position":    "designation",
	"job title":   "designation",

	"department": "department",
	"dept":       "department",

	"date of joining": "joining_date",
	"joining date":    "joining_date",
	"start date":      "joining_date",

	"last working date": "last_working_date",
	"last working day":  "last_working_date",
	"relieving date":    "last_working_date",

	"confirmation date":     "confirmation_date",
	"offer acceptance date": "offer_acceptance_date",
	"effective date":        "effective_date",
	"transfer date":         "transfer_date",
	"termination date":      "termination_date",
	"incident date":         "incident_date",
	"issue date":            "issue_date",
	"date":                  "date",

	"ctc":           "salary",
	"salary":        "salary",
	"annual ctc":    "salary",
	"annual salary": "salary",
	"basic salary":  "salary",
	"new salary":    "new_salary",
	"bonus amount":  "bonus_amount",

	"increment amount":     "increment_amount",
	"increment percentage": "increment_percentage",
	"performance rating":   "performance_rating",

	"employee code": "employee_code",
	"emp code":      "employee_code",
	"employee id":   "employee_code",
	"emp id":        "employee_code",

	"phone":          "phone_number",
	"phone number":   "phone_number",
	"mobile":         "phone_number",
	"contact number": "phone_number",
	"email":          "email",
	"employee email": "email",
	"contact email":  "email",

	"location":        "location",
	"office location": "location",
	"new location":    "new_location",
	"current location": "current_location",

	"reporting manager":     "reporting_manager",
	"probation period":      "probation_period",
	"notice period served":  "notice_period_served",
	"reason":                "reason",
	"reason for leaving":    "reason_for_leaving",
	"reason for termination": "reason_for_termination",
	"probation feedback":    "probation_feedback",
	"warning type":          "warning_type",
	"responsibilities":      "responsibilities",
	"achievements":          "achievements",
	"skills":                "skills",
	"month":                 "month",

	"current designation": "current_designation",
	"new designation":     "new_designation",
	"new department":      "new_department",

	"signatory name":        "signatory_name",
	"signatory designation": "signatory_designation",
	"signatory signature":   "signatory_signature",
	"signature":             "signatory_signature",
	"e-signature":           "signatory_signature",
	"esignature":            "signatory_signature",

	"company name":    "company_name",
	"company address": "company_address",
	"company logo":    "company_logo",
	"contact info":    "contact_info",

	"he/she/they":   "pronoun_subject",
	"his/her/their": "pronoun_possessive",
}

// kinds maps canonical field names to their semantic kind. Anything absent
// falls back to free text.
var kinds = map[string]Kind{
	"employee_name":     KindName,
	"reporting_manager": KindName,
	"signatory_name":    KindName,

	"email": KindEmail,

	"phone_number": KindPhone,

	"employee_code": KindCode,

	"designation":           KindTitle,
	"current_designation":   KindTitle,
	"new_designation":       KindTitle,
	"signatory_designation": KindTitle,
	"department":            KindTitle,
	"new_department":        KindTitle,

	"company_address": KindAddress,
	"address":         KindAddress,

	"location":         KindCity,
	"new_location":     KindCity,
	"current_location": KindCity,
	"city":             KindCity,
	"state":            KindRegion,
	"pincode":          KindPostal,
	"zip_code":         KindPostal,

	"joining_date":          KindDate,
	"last_working_date":     KindDate,
	"confirmation_date":     KindDate,
	"offer_acceptance_date": KindDate,
	"effective_date":        KindDate,
	"transfer_date":         KindDate,
	"termination_date":      KindDate,
	"incident_date":         KindDate,
	"issue_date":            KindDate,
	"date":                  KindDate,

	"salary":           KindMoney,
	"new_salary":       KindMoney,
	"bonus_amount":     KindMoney,
	"increment_amount": KindMoney,

	"increment_percentage": KindPercent,
	"performance_rating":   KindPercent,

	"signatory_signature": KindAsset,
	"company_logo":        KindAsset,
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	slugStripRe  = regexp.MustCompile(`[^a-z0-9_/]+`)
)

// Canonical resolves a raw spelling (template placeholder text, spreadsheet
// header, API field name) to its canonical field name. Unknown spellings
// fall back to a slugified form so no placeholder is ever dropped.
func Canonical(raw string) string {
	key := normalize(raw)
	if key == "" {
		return ""
	}
	if canonical, ok := synonyms[key]; ok {
		return canonical
	}
	return Slug(key)
}

// Slug converts a normalized phrase into an identifier-safe field name.
func Slug(phrase string) string {
	s := strings.ToLower(strings.TrimSpace(phrase))
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = slugStripRe.ReplaceAllString(s, "")
	return strings.Trim(s, "_")
}

// KindOf reports the semantic kind of a field name, resolving synonyms
// first so "ctc" and "salary" classify identically.
func KindOf(name string) Kind {
	canonical := Canonical(name)
	if kind, ok := kinds[canonical]; ok {
		return kind
	}
	if strings.HasSuffix(canonical, "_date") || strings.HasSuffix(canonical, "_day") {
		return KindDate
	}
	return KindText
}

// IsAsset reports whether the field expects a binary upload rather than
// typed text.
func IsAsset(name string) bool {
	return KindOf(name) == KindAsset
}

// Sensitive reports whether a field's value must be redacted in previews
// and never persisted in plaintext search columns.
func Sensitive(name string) bool {
	switch KindOf(name) {
	case KindPhone, KindEmail, KindMoney, KindCode, KindAddress:
		return true
	}
	return false
}

// Label renders a canonical name for humans: "joining_date" → "joining date".
func Label(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// TitleLabel renders a canonical name as a heading: "joining_date" →
// "Joining Date". Spreadsheet headers and prompt labels use this form.
func TitleLabel(name string) string {
	words := strings.Split(Label(name), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// Spellings returns every known phrasing that resolves to the given
// canonical field name, the canonical name's own spaced form included.
// Substitution uses this to chase down each placeholder variant a template
// author might have written.
func Spellings(canonical string) []string {
	out := []string{strings.ReplaceAll(canonical, "_", " ")}
	seen := map[string]struct{}{out[0]: {}}
	for phrase, target := range synonyms {
		if target != canonical {
			continue
		}
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		out = append(out, phrase)
	}
	sort.Strings(out[1:])
	return out
}

func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return whitespaceRe.ReplaceAllString(s, " ")
}
