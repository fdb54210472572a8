package domain

import (
	"errors"
	"testing"

	"github.com/smallbiznis/geodata/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParseEntity(t *testing.T) {
	e, err := ParseEntity(" Cities ")
	require.NoError(t, err)
	assert.Equal(t, EntityCities, e)

	_, err = ParseEntity("zip_codes")
	assert.ErrorIs(t, err, ErrUnsupportedEntity)
}

func TestLayouts(t *testing.T) {
	assert.Equal(t, 2, EntityCountries.Layout().LanguageOffset)
	assert.Equal(t, 3, EntityRegions.Layout().LanguageOffset)
	assert.Equal(t, []string{"code", "region_code", "country_code"}, EntityCities.Layout().Columns)
	assert.False(t, EntityCountries.NeedsCountry())
	assert.True(t, EntityCities.NeedsCountry())
}

func TestValidationError_Unwrap(t *testing.T) {
	err := error(&ValidationError{
		Entity: EntityCities,
		Problems: []Problem{
			&MissingContextError{Entity: EntityCities},
			&ReferentialError{Entity: EntityRegions, Code: "ANT"},
		},
	})

	var ref *ReferentialError
	require.True(t, errors.As(err, &ref))
	assert.Equal(t, "ANT", ref.Code)
	assert.Equal(t, "The region with code ANT does not exist", ref.Error())

	var missing *MissingContextError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, i18n.MsgCityCountryRequired, missing.Error())

	assert.Contains(t, err.Error(), "import cities:")
}

func TestMessage_Localize(t *testing.T) {
	m := NewMessage(i18n.MsgCountryNotFound, "PE")
	assert.Equal(t, "The country with code PE does not exist", m.Localize(i18n.Printer(language.English)))
	assert.Equal(t, "El país con código PE no existe", m.Localize(i18n.Printer(language.Spanish)))
}
