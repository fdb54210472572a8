package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	assert.Equal(t, language.English, Match(""))
	assert.Equal(t, language.English, Match("fr-FR"))
	assert.Equal(t, language.Spanish, Match("es-CO,es;q=0.9,en;q=0.8"))
	assert.Equal(t, language.English, Match("en-GB"))
	assert.Equal(t, language.English, Match(";;;"))
}

func TestPrinter_Spanish(t *testing.T) {
	p := Printer(language.Spanish)
	assert.Equal(t, "El país con código ZZ no existe", p.Sprintf(MsgCountryNotFound, "ZZ"))
	assert.Equal(t, "Dólar", p.Sprintf(MsgCurrencyDollar))
}

func TestPrinter_EnglishUsesKey(t *testing.T) {
	p := Printer(language.English)
	assert.Equal(t, "The country with code ZZ does not exist", p.Sprintf(MsgCountryNotFound, "ZZ"))
	assert.Equal(t, "We currently do not support the 'fr' language, or that is not a valid code", p.Sprintf(MsgUnsupportedLanguage, "fr"))
}

func TestCatalogCoversEveryKey(t *testing.T) {
	for key, msg := range spanish {
		assert.NotEmpty(t, msg, key)
	}
	assert.Len(t, spanish, 22)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Spanish", LanguageName(language.English, "es"))
	assert.Equal(t, "inglés", LanguageName(language.Spanish, "en"))
	assert.Equal(t, "??", LanguageName(language.English, "??"))
}
