// Package i18n translates message codes into user-facing text.
// Croatian is the default language; English is the only other catalog.
package i18n

import "strings"

const DefaultLang = "hr"

var catalogs = map[string]map[string]string{
	"hr": {
		"required":               "Obavezno polje",
		"invalid_email":          "Neispravna email adresa",
		"password_too_weak":      "Lozinka mora imati najmanje 8 znakova, jedno veliko slovo i jedan broj",
		"out_of_range":           "Vrijednost je izvan dopuštenog raspona",
		"must_not_be_negative":   "Vrijednost ne smije biti negativna",
		"must_be_positive":       "Vrijednost mora biti pozitivna",
		"invalid_choice":         "Neispravan odabir",
		"too_long":               "Vrijednost je predugačka",
		"invalid_image":          "Slika nije ispravna",
		"article_exists":         "Ovaj artikl već postoji. Odaberite drugi naziv.",
		"project_exists":         "Projekt s tim nazivom već postoji.",
		"email_exists":           "Korisnik s tom email adresom već postoji.",
		"bad_credentials":        "Email ili lozinka su pogrešni, pokušajte ponovno",
		"invalid_token":          "Nevažeći token",
		"token_expired":          "Token je istekao",
		"empty_quote":            "Ponuda mora sadržavati barem jednu stavku",
		"unknown_article":        "Artikl ne postoji",
		"submission_in_progress": "Ponuda se već šalje, pričekajte",
		"generic_failure":        "Došlo je do pogreške. Pokušajte ponovno.",
		"email_sent":             "Ponuda je poslana na email",
		"reset_sent":             "Ako račun postoji, poslali smo upute za promjenu lozinke",
		"password_changed":       "Lozinka je uspješno promijenjena",
		"quote_subject":          "Vaša ponuda #%d",
		"default_recipient":      "Korisniče",
		"reset_subject":          "Promjena lozinke",
		"no_discount":            "Bez rabata",
		"discount":               "Rabat: %s%%",
		"total":                  "Ukupno",
	},
	"en": {
		"required":               "Required",
		"invalid_email":          "Invalid email address",
		"password_too_weak":      "Password needs at least 8 characters, one uppercase letter and one digit",
		"out_of_range":           "Value out of range",
		"must_not_be_negative":   "Value must not be negative",
		"must_be_positive":       "Value must be positive",
		"invalid_choice":         "Invalid choice",
		"too_long":               "Value is too long",
		"invalid_image":          "Invalid image",
		"article_exists":         "This item already exists. Please choose a different name.",
		"project_exists":         "A project with this name already exists.",
		"email_exists":           "A user with this email already exists.",
		"bad_credentials":        "Wrong email or password, please try again",
		"invalid_token":          "Invalid token",
		"token_expired":          "Token has expired",
		"empty_quote":            "A quote needs at least one item",
		"unknown_article":        "Article does not exist",
		"submission_in_progress": "The quote is already being submitted",
		"generic_failure":        "Something went wrong. Please try again.",
		"email_sent":             "Quote sent by email",
		"reset_sent":             "If the account exists, password reset instructions have been sent",
		"password_changed":       "Password changed",
		"quote_subject":          "Your quote #%d",
		"default_recipient":      "Customer",
		"reset_subject":          "Password reset",
		"no_discount":            "No discount",
		"discount":               "Discount: %s%%",
		"total":                  "Total",
	},
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

// T returns the message for code in lang, falling back to Croatian and then
// to the code itself.
func T(lang, code string) string {
	if m, ok := catalogs[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalogs[DefaultLang][code]; ok {
		return s
	}
	return code
}

// TranslateAll maps every value of a field->code map through T.
func TranslateAll(lang string, codes map[string]string) map[string]string {
	out := make(map[string]string, len(codes))
	for k, c := range codes {
		out[k] = T(lang, c)
	}
	return out
}

// DetectLanguage picks the first supported language from an Accept-Language
// header value.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if Supported(base) {
			return base
		}
	}
	return DefaultLang
}
