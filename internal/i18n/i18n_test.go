package i18n

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"zh":         LocaleZH,
		"zh-CN":      LocaleZH,
		"ZH-tw":      LocaleZH,
		"en":         LocaleEN,
		"en-GB":      LocaleEN,
		"fr-FR":      DefaultLocale,
		"":           DefaultLocale,
		"  en-US  ":  LocaleEN,
	}
	for input, expected := range cases {
		if got := Normalize(input); got != expected {
			t.Fatalf("Normalize(%q)=%q expected=%q", input, got, expected)
		}
	}
}

func TestTFallback(t *testing.T) {
	if got := T(LocaleZH, "error.not_found"); got != "资源不存在" {
		t.Fatalf("unexpected zh message: %q", got)
	}
	if got := T("fr-FR", "error.not_found"); got != "resource not found" {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := T(LocaleEN, "no.such.key"); got != "no.such.key" {
		t.Fatalf("expected key echo for missing entry, got %q", got)
	}
}

func TestSprintf(t *testing.T) {
	got := Sprintf(LocaleEN, "error.promo_min_order", "25.00")
	if got != "order minimum of 25.00 not met" {
		t.Fatalf("unexpected formatted message: %q", got)
	}
}
