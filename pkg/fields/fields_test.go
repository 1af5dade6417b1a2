package fields

import "testing"

func TestCanonicalSynonyms(t *testing.T) {
	cases := map[string]string{
		"Employee Name":   "employee_name",
		"candidate_name":  "employee_name",
		"NAME":            "employee_name",
		"Date of Joining": "joining_date",
		"start_date":      "joining_date",
		"CTC":             "salary",
		"Annual CTC":      "salary",
		"emp code":        "employee_code",
		"employee_id":     "employee_code",
		"mobile":          "phone_number",
		"e-signature":     "signatory_signature",
		"he/she/they":     "pronoun_subject",
		"company\nname":   "company_name",
	}
	for raw, want := range cases {
		if got := Canonical(raw); got != want {
			t.Errorf("Canonical(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestCanonicalSlugFallback(t *testing.T) {
	if got := Canonical("Notice Period In Days"); got != "notice_period_in_days" {
		t.Fatalf("unexpected slug fallback: %q", got)
	}
	if got := Canonical("  "); got != "" {
		t.Fatalf("blank input should canonicalize to empty, got %q", got)
	}
}

func TestKindOfResolvesSynonymsFirst(t *testing.T) {
	if got := KindOf("CTC"); got != KindMoney {
		t.Fatalf("KindOf(CTC) = %q, want money", got)
	}
	if got := KindOf("zip code"); got != KindPostal {
		t.Fatalf("KindOf(zip code) = %q, want postal", got)
	}
	if got := KindOf("some_unknown_field"); got != KindText {
		t.Fatalf("unknown fields should fall back to text, got %q", got)
	}
}

func TestSensitiveAndAsset(t *testing.T) {
	for _, name := range []string{"phone_number", "email", "salary", "employee_code", "company_address"} {
		if !Sensitive(name) {
			t.Errorf("expected %q to be sensitive", name)
		}
	}
	if Sensitive("designation") {
		t.Error("designation should not be sensitive")
	}
	if !IsAsset("signatory_signature") || !IsAsset("signature") {
		t.Error("signature fields should be assets")
	}
	if IsAsset("employee_name") {
		t.Error("employee_name is not an asset")
	}
}
