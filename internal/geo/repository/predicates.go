package repository

import (
	"strings"

	"github.com/smallbiznis/geodata/internal/geo/domain"
)

// predicate is one parenthesized WHERE fragment over the
// cities ⋈ countries ⟕ regions join.
type predicate struct {
	name string
	sql  string
	args []any
}

const (
	predicateCity            = "city"
	predicateRegion          = "region"
	predicateCountry         = "country"
	predicateRegionOrCountry = "region_or_country"
	predicateCountryName     = "country_name"
	predicateCurrency        = "currency"
)

const likeEscape = "!"

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// containsPattern lowercases term and escapes LIKE wildcards.
func containsPattern(term string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(term)) + "%"
}

func nameContains(kind domain.OwnerKind, ownerColumn, term string, langs []string) predicate {
	return predicate{
		sql: "EXISTS (SELECT 1 FROM translations t WHERE t.owner_type = ? AND t.owner_id = " + ownerColumn +
			" AND t.language_code IN ? AND LOWER(t.name) LIKE ? ESCAPE '" + likeEscape + "')",
		args: []any{string(kind), langs, containsPattern(term)},
	}
}

func codeEquals(column, term string) predicate {
	return predicate{
		sql:  "LOWER(" + column + ") = ?",
		args: []any{strings.ToLower(term)},
	}
}

func zipEquals(term string) predicate {
	return predicate{
		sql:  "EXISTS (SELECT 1 FROM zip_codes z WHERE z.city_id = cities.id AND z.code = ?)",
		args: []any{term},
	}
}

func anyOf(name string, parts ...predicate) predicate {
	clauses := make([]string, 0, len(parts))
	var args []any
	for _, p := range parts {
		clauses = append(clauses, p.sql)
		args = append(args, p.args...)
	}
	return predicate{
		name: name,
		sql:  "(" + strings.Join(clauses, " OR ") + ")",
		args: args,
	}
}

// cityMatch: translated name contains term, a zip code equals it, or the
// city code equals it.
func cityMatch(term string, langs []string) predicate {
	return anyOf(predicateCity,
		nameContains(domain.OwnerCity, "cities.id", term, langs),
		zipEquals(term),
		codeEquals("cities.code", term),
	)
}

func regionMatch(term string, langs []string) predicate {
	return anyOf(predicateRegion,
		nameContains(domain.OwnerRegion, "regions.id", term, langs),
		codeEquals("regions.code", term),
	)
}

func countryMatch(term string, langs []string) predicate {
	return anyOf(predicateCountry,
		nameContains(domain.OwnerCountry, "countries.id", term, langs),
		codeEquals("countries.code", term),
	)
}

// regionOrCountry resolves a lone second query segment against both levels:
// "CA" matches a region coded CA as well as a country coded CA.
func regionOrCountry(term string, langs []string) predicate {
	return anyOf(predicateRegionOrCountry,
		regionMatch(term, langs),
		countryMatch(term, langs),
	)
}

func countryNameContains(term string, langs []string) predicate {
	p := nameContains(domain.OwnerCountry, "countries.id", term, langs)
	p.name = predicateCountryName
	p.sql = "(" + p.sql + ")"
	return p
}

func currencyEquals(code string) predicate {
	return predicate{
		name: predicateCurrency,
		sql:  "(countries.currency_code = ?)",
		args: []any{code},
	}
}

// cityPredicates composes the AND-ed constraints for filter.
func cityPredicates(filter domain.CityFilter) []predicate {
	langs := languageStrings(filter.Languages)
	var out []predicate

	if term := termValue(filter.CityTerm); term != "" {
		out = append(out, cityMatch(term, langs))
	}

	region := termValue(filter.RegionTerm)
	country := termValue(filter.CountryTerm)
	switch {
	case region != "" && country == "":
		out = append(out, regionOrCountry(region, langs))
	case region != "" && country != "":
		out = append(out, regionMatch(region, langs), countryMatch(country, langs))
	case country != "":
		out = append(out, countryMatch(country, langs))
	}

	if term := termValue(filter.CountryName); term != "" {
		out = append(out, countryNameContains(term, langs))
	}
	if code := termValue(filter.Currency); code != "" {
		out = append(out, currencyEquals(code))
	}
	return out
}

func termValue(term *string) string {
	if term == nil {
		return ""
	}
	return strings.TrimSpace(*term)
}

func languageStrings(langs []domain.Language) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		out = append(out, string(l))
	}
	return out
}
