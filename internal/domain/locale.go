package domain

import "strings"

// Locale identifies one of the three display languages.
type Locale string

const (
	LocaleFA Locale = "fa"
	LocalePS Locale = "ps"
	LocaleEN Locale = "en"

	// DefaultLocale is used when a request carries no usable locale.
	DefaultLocale = LocaleFA
)

// ParseLocale normalizes a raw locale string. Unrecognized values fall back
// to DefaultLocale rather than erroring; locale choice is display-only.
func ParseLocale(s string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case LocaleFA:
		return LocaleFA
	case LocalePS:
		return LocalePS
	case LocaleEN:
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// LocalizedText is a three-locale text value. The Farsi field is the primary
// one; Pashto and English are optional translations.
// It is embedded with a gorm embeddedPrefix, so a field named Name becomes
// columns name_fa, name_ps, name_en.
type LocalizedText struct {
	FA string `gorm:"column:fa" json:"fa"`
	PS string `gorm:"column:ps" json:"ps"`
	EN string `gorm:"column:en" json:"en"`
}

// Resolve returns the text for the requested locale, falling back to the
// first non-empty value in fa, en, ps order.
func (t LocalizedText) Resolve(loc Locale) string {
	var preferred string
	switch loc {
	case LocalePS:
		preferred = t.PS
	case LocaleEN:
		preferred = t.EN
	default:
		preferred = t.FA
	}
	if preferred != "" {
		return preferred
	}

	for _, v := range []string{t.FA, t.EN, t.PS} {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsEmpty reports whether no locale carries a value.
func (t LocalizedText) IsEmpty() bool {
	return t.FA == "" && t.PS == "" && t.EN == ""
}
