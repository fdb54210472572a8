package domain

// Language is an ISO 639-1 code from the closed set of languages the service
// stores translations for.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// languages is kept sorted by code.
var languages = []Language{
	LanguageEnglish,
	LanguageSpanish,
}

var languageLabels = map[Language]string{
	LanguageEnglish: "English",
	LanguageSpanish: "Spanish",
}

// Languages lists the supported languages ordered by code.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// LanguageCodes is Languages as plain strings.
func LanguageCodes() []string {
	out := make([]string, 0, len(languages))
	for _, l := range languages {
		out = append(out, string(l))
	}
	return out
}

func (l Language) Valid() bool {
	_, ok := languageLabels[l]
	return ok
}

func (l Language) Label() string {
	return languageLabels[l]
}

// ParseLanguage matches code against the enumeration. Codes are case-sensitive.
func ParseLanguage(code string) (Language, bool) {
	l := Language(code)
	if !l.Valid() {
		return "", false
	}
	return l, true
}

// Currency is an ISO 4217 code from the closed set of currencies a country
// may declare.
type Currency string

const (
	CurrencyColombianPeso Currency = "COP"
	CurrencyEuro          Currency = "EUR"
	CurrencyDollar        Currency = "USD"
)

var currencies = []Currency{
	CurrencyColombianPeso,
	CurrencyEuro,
	CurrencyDollar,
}

var currencyLabels = map[Currency]string{
	CurrencyColombianPeso: "Colombian Peso",
	CurrencyEuro:          "Euro",
	CurrencyDollar:        "Dollar",
}

// Currencies lists the supported currencies ordered by code.
func Currencies() []Currency {
	return append([]Currency(nil), currencies...)
}

func (c Currency) Valid() bool {
	_, ok := currencyLabels[c]
	return ok
}

func (c Currency) Label() string {
	return currencyLabels[c]
}

// ParseCurrency matches code against the enumeration. Codes are case-sensitive.
func ParseCurrency(code string) (Currency, bool) {
	c := Currency(code)
	if !c.Valid() {
		return "", false
	}
	return c, true
}
