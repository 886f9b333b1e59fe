package display

import (
	"golang.org/x/text/language"
)

// Locale only selects the weekday names of formatted timestamps.
type Locale int

const (
	Japanese Locale = iota
	English
)

// the first tag is the fallback
var matcher = language.NewMatcher([]language.Tag{
	language.Japanese,
	language.English,
})

// ParseLocale picks a locale from an Accept-Language header value.
// Missing, malformed or unsupported values give Japanese.
func ParseLocale(acceptLanguage string) Locale {
	if acceptLanguage == "" {
		return Japanese
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Japanese
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Japanese
	}
	if idx == 1 {
		return English
	}
	return Japanese
}
