package domain

import "testing"

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in   string
		want Locale
	}{
		{"fa", LocaleFA},
		{"ps", LocalePS},
		{"en", LocaleEN},
		{"EN", LocaleEN},
		{"  fa  ", LocaleFA},
		{"", DefaultLocale},
		{"fr", DefaultLocale},
		{"english", DefaultLocale},
	}

	for _, tt := range tests {
		if got := ParseLocale(tt.in); got != tt.want {
			t.Errorf("ParseLocale(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestLocalizedTextResolve(t *testing.T) {
	tests := []struct {
		name string
		text LocalizedText
		loc  Locale
		want string
	}{
		{"preferred available", LocalizedText{FA: "fa", PS: "ps", EN: "en"}, LocalePS, "ps"},
		{"default locale", LocalizedText{FA: "fa", EN: "en"}, LocaleFA, "fa"},
		{"missing ps falls back to fa", LocalizedText{FA: "fa", EN: "en"}, LocalePS, "fa"},
		{"missing fa falls back to en", LocalizedText{EN: "en", PS: "ps"}, LocaleFA, "en"},
		{"only ps", LocalizedText{PS: "ps"}, LocaleEN, "ps"},
		{"empty", LocalizedText{}, LocaleFA, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.text.Resolve(tt.loc); got != tt.want {
				t.Errorf("Resolve(%q) = %q; want %q", tt.loc, got, tt.want)
			}
		})
	}
}

func TestLocalizedTextIsEmpty(t *testing.T) {
	if !(LocalizedText{}).IsEmpty() {
		t.Error("empty text should report IsEmpty")
	}
	if (LocalizedText{PS: "x"}).IsEmpty() {
		t.Error("text with a ps value should not report IsEmpty")
	}
}
