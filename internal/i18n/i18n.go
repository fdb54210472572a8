// Package i18n picks a message printer for a request and names languages in
// the printer's language.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
)

// Supported lists the interface languages, the first being the default.
var Supported = []language.Tag{
	language.English,
	language.Spanish,
}

var matcher = language.NewMatcher(Supported)

// Match resolves an Accept-Language header (or a bare code) to a supported
// tag, falling back to English.
func Match(acceptLanguage string) language.Tag {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return Supported[0]
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Supported[0]
	}
	return Supported[index]
}

func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// PrinterFor is Printer(Match(acceptLanguage)).
func PrinterFor(acceptLanguage string) *message.Printer {
	return Printer(Match(acceptLanguage))
}

// LanguageName names the ISO 639-1 code in the language of tag, e.g. "es"
// is "Spanish" for English readers and "español" for Spanish ones.
func LanguageName(tag language.Tag, code string) string {
	base, err := language.ParseBase(code)
	if err != nil {
		return code
	}
	name := display.Tags(tag).Name(language.Make(base.String()))
	if name == "" {
		return code
	}
	return name
}
