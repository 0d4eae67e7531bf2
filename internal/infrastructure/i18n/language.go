package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported UI language
type Language string

const (
	English    Language = "en"
	Portuguese Language = "pt-PT"
)

var (
	supportedTags = []language.Tag{
		language.English,
		language.MustParse("pt-PT"),
	}
	supportedLanguages = []Language{English, Portuguese}
	matcher            = language.NewMatcher(supportedTags)
)

// Supported lists the supported languages
func Supported() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// ParseLanguage matches a single language tag such as "pt-PT" or "en-GB" to a supported language
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	return match(tag)
}

// Negotiate picks the response language from an explicit choice, then the
// Accept-Language header, then the fallback
func Negotiate(explicit, acceptLanguage string, fallback Language) Language {
	if lang, ok := ParseLanguage(explicit); ok {
		return lang
	}

	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			if lang, ok := match(tags...); ok {
				return lang
			}
		}
	}

	if lang, ok := ParseLanguage(string(fallback)); ok {
		return lang
	}
	return English
}

func match(tags ...language.Tag) (Language, bool) {
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return supportedLanguages[index], true
}
