package domain

import (
	"regexp"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	CountryCodeLength  = 2
	RegionCodeMaxLen   = 3
	RegionLocalCodeMax = 20
	CityCodeMaxLen     = 10
	ZipCodeMaxLen      = 6
	TranslationNameMax = 250
)

var zipCodePattern = regexp.MustCompile(`^\d{1,10}$`)

// OwnerKind tags which table a Translation row belongs to.
type OwnerKind string

const (
	OwnerCountry OwnerKind = "countries"
	OwnerRegion  OwnerKind = "regions"
	OwnerCity    OwnerKind = "cities"
)

// Translation is the display name of one owner in one language. At most one
// row exists per (language, owner).
type Translation struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	LanguageCode Language     `gorm:"column:language_code;type:varchar(2);not null;uniqueIndex:ux_translations_language_owner,priority:1"`
	OwnerType    OwnerKind    `gorm:"column:owner_type;type:varchar(16);not null;uniqueIndex:ux_translations_language_owner,priority:2"`
	OwnerID      snowflake.ID `gorm:"column:owner_id;not null;uniqueIndex:ux_translations_language_owner,priority:3"`
	Name         string       `gorm:"type:varchar(250);not null;default:''"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Translation) TableName() string { return "translations" }

type Country struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Code         string       `gorm:"type:varchar(2);not null;uniqueIndex:ux_countries_code"`
	CurrencyCode Currency     `gorm:"column:currency_code;type:varchar(3);not null;default:''"`
	Flag         *string      `gorm:"type:varchar(255)"`

	Translations []Translation `gorm:"polymorphic:Owner;polymorphicValue:countries"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Country) TableName() string { return "countries" }

// String renders the English name, falling back to the code.
func (c Country) String() string {
	return DisplayName(c.Translations, c.Code)
}

type Region struct {
	ID        snowflake.ID  `gorm:"primaryKey"`
	CountryID *snowflake.ID `gorm:"column:country_id;uniqueIndex:ux_regions_country_code,priority:1"`
	Code      string        `gorm:"type:varchar(3);not null;uniqueIndex:ux_regions_country_code,priority:2"`
	LocalCode string        `gorm:"column:local_code;type:varchar(20);not null;default:''"`
	Flag      *string       `gorm:"type:varchar(255)"`

	Country      *Country      `gorm:"foreignKey:CountryID;constraint:OnDelete:SET NULL;"`
	Translations []Translation `gorm:"polymorphic:Owner;polymorphicValue:regions"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Region) TableName() string { return "regions" }

func (r Region) String() string {
	return DisplayName(r.Translations, r.Code)
}

type City struct {
	ID        snowflake.ID  `gorm:"primaryKey"`
	CountryID snowflake.ID  `gorm:"column:country_id;not null;uniqueIndex:ux_cities_country_code,priority:1"`
	Code      string        `gorm:"type:varchar(10);not null;uniqueIndex:ux_cities_country_code,priority:2"`
	RegionID  *snowflake.ID `gorm:"column:region_id;index"`
	Flag      *string       `gorm:"type:varchar(255)"`

	Country      *Country      `gorm:"foreignKey:CountryID;constraint:OnDelete:CASCADE;"`
	Region       *Region       `gorm:"foreignKey:RegionID;constraint:OnDelete:SET NULL;"`
	ZipCodes     []ZipCode     `gorm:"foreignKey:CityID;constraint:OnDelete:CASCADE;"`
	Translations []Translation `gorm:"polymorphic:Owner;polymorphicValue:cities"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (City) TableName() string { return "cities" }

func (c City) String() string {
	return DisplayName(c.Translations, c.Code)
}

type ZipCode struct {
	ID     snowflake.ID `gorm:"primaryKey"`
	CityID snowflake.ID `gorm:"column:city_id;not null;index"`
	Code   string       `gorm:"column:code;type:varchar(6);not null;uniqueIndex:ux_zip_codes_code"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ZipCode) TableName() string { return "zip_codes" }

func (z ZipCode) String() string { return z.Code }

// ValidZipCode reports whether code fits the zip code column: digits only,
// at most ZipCodeMaxLen of them.
func ValidZipCode(code string) bool {
	return len(code) <= ZipCodeMaxLen && zipCodePattern.MatchString(code)
}

// TranslationName returns the name stored for lang.
func TranslationName(translations []Translation, lang Language) (string, bool) {
	for _, t := range translations {
		if t.LanguageCode == lang {
			return t.Name, true
		}
	}
	return "", false
}

// DisplayName picks the first non-empty name in preferred order, then English,
// then fallback.
func DisplayName(translations []Translation, fallback string, preferred ...Language) string {
	order := append(append([]Language(nil), preferred...), LanguageEnglish)
	for _, lang := range order {
		if name, ok := TranslationName(translations, lang); ok && name != "" {
			return name
		}
	}
	return fallback
}

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&Country{},
		&Region{},
		&City{},
		&ZipCode{},
		&Translation{},
	}
}
