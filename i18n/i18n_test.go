package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("de-DE,hr;q=0.8") != "hr" {
		t.Fatalf("expected hr from second entry")
	}
	if DetectLanguage("fr-FR,fr;q=0.8") != "hr" {
		t.Fatalf("expected hr fallback")
	}
	if DetectLanguage("") != "hr" {
		t.Fatalf("expected default hr")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("hr", "bad_credentials") != "Email ili lozinka su pogrešni, pokušajte ponovno" {
		t.Fatalf("unexpected hr text")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to hr translation if exists
	if T("es", "token_expired") != "Token je istekao" {
		t.Fatalf("expected hr fallback for es lang")
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for code := range catalogs["hr"] {
		if _, ok := catalogs["en"][code]; !ok {
			t.Errorf("en catalog missing %q", code)
		}
	}
	for code := range catalogs["en"] {
		if _, ok := catalogs["hr"][code]; !ok {
			t.Errorf("hr catalog missing %q", code)
		}
	}
}

func TestTranslateAll(t *testing.T) {
	got := TranslateAll("en", map[string]string{"email": "invalid_email"})
	if got["email"] != "Invalid email address" {
		t.Fatalf("got %v", got)
	}
}
