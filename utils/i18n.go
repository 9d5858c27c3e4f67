package utils

import (
	"fmt"

	"barberbook/models"

	"golang.org/x/text/language"
)

var supportedLanguages = []language.Tag{language.English, language.Arabic}

var languageMatcher = language.NewMatcher(supportedLanguages)

// MatchLanguage picks the supported language best matching an explicit code or an
// Accept-Language header. English is the fallback.
func MatchLanguage(code, acceptLanguage string) models.Language {
	if code != "" {
		return models.ParseLanguage(code)
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return models.LanguageEnglish
	}
	_, idx, _ := languageMatcher.Match(tags...)
	if supportedLanguages[idx] == language.Arabic {
		return models.LanguageArabic
	}
	return models.LanguageEnglish
}

var messages = map[models.Language]map[string]string{
	models.LanguageEnglish: {
		"package.next_tier":     "Add %d more service(s) to unlock %s%% off",
		"booking.confirmed":     "Your booking is confirmed",
		"error.session_missing": "Your booking session has expired",
	},
	models.LanguageArabic: {
		"package.next_tier":     "أضف %d خدمة أخرى للحصول على خصم %s%%",
		"booking.confirmed":     "تم تأكيد حجزك",
		"error.session_missing": "انتهت صلاحية جلسة الحجز",
	},
}

// StaticTranslator serves the built-in message catalog.
type StaticTranslator struct{}

// T formats the message stored under key for lang. Unknown Arabic keys fall back
// to English and unknown keys to the key itself.
func (StaticTranslator) T(lang models.Language, key string, args ...any) string {
	msg, ok := messages[lang][key]
	if !ok {
		msg, ok = messages[models.LanguageEnglish][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
