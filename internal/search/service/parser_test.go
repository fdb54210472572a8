package service

import (
	"testing"

	"github.com/smallbiznis/geodata/internal/search/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segment(s string) *string { return &s }

func TestParseQuery(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want domain.Query
	}{
		{name: "empty", raw: "", want: domain.Query{}},
		{name: "below floor", raw: "ab", want: domain.Query{}},
		{name: "below floor after trim", raw: "  ab  ", want: domain.Query{}},
		{name: "runes not bytes", raw: "ñá", want: domain.Query{}},
		{name: "city only", raw: "bog", want: domain.Query{City: segment("bog")}},
		{
			name: "city and region",
			raw:  " med , Antioquia ",
			want: domain.Query{City: segment("med"), Region: segment("Antioquia")},
		},
		{
			name: "all segments",
			raw:  "med,ANT,CO",
			want: domain.Query{City: segment("med"), Region: segment("ANT"), Country: segment("CO")},
		},
		{
			name: "last segment keeps commas",
			raw:  "med,ANT,CO, extra",
			want: domain.Query{City: segment("med"), Region: segment("ANT"), Country: segment("CO, extra")},
		},
		{
			name: "blank city segment",
			raw:  " ,Antioquia",
			want: domain.Query{Region: segment("Antioquia")},
		},
		{
			name: "country without region is dropped",
			raw:  "med,,CO",
			want: domain.Query{City: segment("med")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseQuery(tc.raw))
		})
	}
}

func TestParseQuery_OnlyCommas(t *testing.T) {
	q := ParseQuery(",,,")
	assert.True(t, q.Empty())
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, domain.DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, domain.DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, domain.MaxLimit, NormalizeLimit(domain.MaxLimit))
	assert.Equal(t, domain.MaxLimit, NormalizeLimit(1000))
}

func TestResolveLanguages(t *testing.T) {
	filter, err := ResolveLanguages("en", "")
	require.NoError(t, err)
	assert.Equal(t, "en", string(filter.Primary))
	assert.Nil(t, filter.Extra)

	filter, err = ResolveLanguages("es", "en")
	require.NoError(t, err)
	require.NotNil(t, filter.Extra)
	assert.Equal(t, "en", string(*filter.Extra))
	assert.Len(t, filter.Codes(), 2)

	filter, err = ResolveLanguages("en", "en")
	require.NoError(t, err)
	assert.Nil(t, filter.Extra, "extra equal to primary is dropped")

	filter, err = ResolveLanguages("en", "xx")
	require.NoError(t, err)
	assert.Nil(t, filter.Extra, "unsupported extra is dropped silently")

	_, err = ResolveLanguages("fr", "en")
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)

	_, err = ResolveLanguages("EN", "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage, "codes are case-sensitive")
}
