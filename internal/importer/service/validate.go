package service

import (
	"context"
	"strings"
	"unicode/utf8"

	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	"github.com/smallbiznis/geodata/internal/i18n"
	"github.com/smallbiznis/geodata/internal/importer/domain"
)

type languageColumn struct {
	index    int
	language geodomain.Language
}

type dataRow struct {
	number int
	cells  []string
}

func (r dataRow) cell(i int) string {
	if i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// plan is a validated import, ready to be written.
type plan struct {
	entity    domain.Entity
	columns   []languageColumn
	rows      []dataRow
	skipped   int
	country   *geodomain.Country
	countries map[string]*geodomain.Country
	regions   map[string]*geodomain.Region
}

// addColumn keeps one column per language, the rightmost winning.
func (p *plan) addColumn(col languageColumn) {
	for i := range p.columns {
		if p.columns[i].language == col.language {
			p.columns[i] = col
			return
		}
	}
	p.columns = append(p.columns, col)
}

var codeBounds = map[domain.Entity]int{
	domain.EntityCountries: geodomain.CountryCodeLength,
	domain.EntityRegions:   geodomain.RegionCodeMaxLen,
	domain.EntityCities:    geodomain.CityCodeMaxLen,
}

// distinct keeps first-seen order.
type distinct struct {
	seen  map[string]struct{}
	items []string
}

func (d *distinct) add(v string) {
	if v == "" {
		return
	}
	if d.seen == nil {
		d.seen = map[string]struct{}{}
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.items = append(d.items, v)
}

// validate checks the whole sheet and resolves every referenced country and
// region. Problems are collected in one pass; only store failures return err.
func (s *Service) validate(ctx context.Context, req domain.Request) (*plan, []domain.Problem, error) {
	if len(req.Rows) == 0 || blank(req.Rows[0]) {
		return nil, []domain.Problem{domain.NewMessage(i18n.MsgEmptyFile)}, nil
	}

	layout := req.Entity.Layout()
	header := req.Rows[0]
	if len(header) < layout.LanguageOffset {
		return nil, []domain.Problem{
			domain.NewMessage(i18n.MsgShortRow, 1, len(header), layout.LanguageOffset),
		}, nil
	}

	p := &plan{
		entity:    req.Entity,
		countries: map[string]*geodomain.Country{},
		regions:   map[string]*geodomain.Region{},
	}

	var problems []domain.Problem
	unsupportedLanguage := false
	for i := layout.LanguageOffset; i < len(header); i++ {
		lang, ok := geodomain.ParseLanguage(strings.TrimSpace(header[i]))
		if !ok {
			unsupportedLanguage = true
			continue
		}
		p.addColumn(languageColumn{index: i, language: lang})
	}
	if unsupportedLanguage {
		problems = append(problems, domain.NewMessage(i18n.MsgHeaderLanguages))
	}

	var (
		rowProblems         []domain.Problem
		unsupportedCurrency bool
		countryCodes        distinct
		regionCodes         distinct
	)
	for i, cells := range req.Rows[1:] {
		row := dataRow{number: i + 2, cells: cells}
		if len(cells) < layout.LanguageOffset {
			rowProblems = append(rowProblems, domain.NewMessage(i18n.MsgShortRow, row.number, len(cells), layout.LanguageOffset))
			continue
		}

		code := row.cell(0)
		if code == "" {
			p.skipped++
			continue
		}
		switch n, bound := utf8.RuneCountInString(code), codeBounds[req.Entity]; {
		case n > bound:
			rowProblems = append(rowProblems, domain.NewMessage(i18n.MsgCodeTooLong, row.number, code, bound))
		case req.Entity == domain.EntityCountries && n < bound:
			rowProblems = append(rowProblems, domain.NewMessage(i18n.MsgCodeTooShort, row.number, code, bound))
		}

		switch req.Entity {
		case domain.EntityCountries:
			if currency := row.cell(1); currency != "" && !geodomain.Currency(currency).Valid() {
				unsupportedCurrency = true
			}
		case domain.EntityRegions:
			if local := row.cell(1); utf8.RuneCountInString(local) > geodomain.RegionLocalCodeMax {
				rowProblems = append(rowProblems, domain.NewMessage(i18n.MsgLocalCodeTooLong, row.number, local, geodomain.RegionLocalCodeMax))
			}
			countryCodes.add(row.cell(2))
		case domain.EntityCities:
			regionCodes.add(row.cell(1))
			countryCodes.add(row.cell(2))
		}

		for _, col := range p.columns {
			if utf8.RuneCountInString(row.cell(col.index)) > geodomain.TranslationNameMax {
				rowProblems = append(rowProblems, domain.NewMessage(i18n.MsgNameTooLong, row.number, col.language, geodomain.TranslationNameMax))
			}
		}
		p.rows = append(p.rows, row)
	}

	if unsupportedCurrency {
		problems = append(problems, domain.NewMessage(i18n.MsgCurrencyCodes))
	}

	if req.Entity.NeedsCountry() {
		contextCode := strings.TrimSpace(req.CountryCode)
		switch {
		case contextCode == "":
			problems = append(problems, &domain.MissingContextError{Entity: req.Entity})
		case len(countryCodes.items) > 1 || (len(countryCodes.items) == 1 && countryCodes.items[0] != contextCode):
			problems = append(problems, domain.NewMessage(mismatchMessage(req.Entity)))
		}

		lookups := countryCodes.items
		if len(lookups) == 0 && contextCode != "" {
			lookups = []string{contextCode}
		}
		for _, code := range lookups {
			country, err := s.repo.FindCountryByCode(ctx, s.db, code)
			if err != nil {
				return nil, nil, err
			}
			if country == nil {
				problems = append(problems, &domain.ReferentialError{Entity: domain.EntityCountries, Code: code})
				break
			}
			p.countries[code] = country
		}
		p.country = p.countries[contextCode]

		// Regions are scoped to the context country; without it an error is
		// already queued.
		if req.Entity == domain.EntityCities && p.country != nil {
			for _, code := range regionCodes.items {
				region, err := s.repo.FindRegionByCode(ctx, s.db, p.country.ID, code)
				if err != nil {
					return nil, nil, err
				}
				if region == nil {
					problems = append(problems, &domain.ReferentialError{Entity: domain.EntityRegions, Code: code})
					break
				}
				p.regions[code] = region
			}
		}
	}

	return p, append(problems, rowProblems...), nil
}

func mismatchMessage(entity domain.Entity) string {
	if entity == domain.EntityCities {
		return i18n.MsgCityCountryMismatch
	}
	return i18n.MsgRegionCountryMismatch
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
