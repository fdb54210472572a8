package domain

import (
	"errors"

	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
)

const (
	DefaultLimit   = 20
	MaxLimit       = 50
	MinQueryLength = 3
)

var ErrUnsupportedLanguage = errors.New("unsupported_language")

// LanguageFilter is the effective language set of a request: the primary
// language plus at most one distinct extra language.
type LanguageFilter struct {
	Primary geodomain.Language
	Extra   *geodomain.Language
}

// Codes lists the primary language first.
func (f LanguageFilter) Codes() []geodomain.Language {
	if f.Extra == nil {
		return []geodomain.Language{f.Primary}
	}
	return []geodomain.Language{f.Primary, *f.Extra}
}

// Query holds the comma separated segments of q. Absent segments are nil.
type Query struct {
	City    *string
	Region  *string
	Country *string
}

func (q Query) Empty() bool {
	return q.City == nil && q.Region == nil && q.Country == nil
}

type SearchRequest struct {
	Language      string
	ExtraLanguage string
	Q             string
	Country       string
	Currency      string
	Limit         int
}

type TranslationResponse struct {
	LanguageCode string `json:"language_code"`
	Name         string `json:"name"`
}

type CountryResponse struct {
	Code         string                `json:"code"`
	CurrencyCode string                `json:"currency_code"`
	Name         string                `json:"name"`
	Flag         *string               `json:"flag"`
	Translations []TranslationResponse `json:"translations"`
}

type RegionResponse struct {
	Code         string                `json:"code"`
	LocalCode    string                `json:"local_code"`
	Name         string                `json:"name"`
	Flag         *string               `json:"flag"`
	Translations []TranslationResponse `json:"translations"`
}

type CityResponse struct {
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	ZipCodes     []string              `json:"zip_codes"`
	Flag         *string               `json:"flag"`
	Region       *RegionResponse       `json:"region"`
	Country      *CountryResponse      `json:"country"`
	Translations []TranslationResponse `json:"translations"`
}
