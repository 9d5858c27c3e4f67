package models

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// ParseLanguage maps a language code onto a supported language, defaulting to English.
func ParseLanguage(code string) Language {
	if Language(code) == LanguageArabic {
		return LanguageArabic
	}
	return LanguageEnglish
}
