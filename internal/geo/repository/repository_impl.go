package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/geodata/internal/geo/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindCountryByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Country, error) {
	var country domain.Country
	err := db.WithContext(ctx).
		Where("code = ?", code).
		Take(&country).Error
	return found(&country, err)
}

func (r *repo) CreateCountry(ctx context.Context, db *gorm.DB, country *domain.Country) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(country).Error
}

func (r *repo) UpdateCountry(ctx context.Context, db *gorm.DB, country *domain.Country) error {
	if country == nil || country.ID == 0 {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE countries SET currency_code = ?, flag = ?, updated_at = ? WHERE id = ?`,
		country.CurrencyCode,
		country.Flag,
		time.Now().UTC(),
		country.ID,
	).Error
}

func (r *repo) ListCountries(ctx context.Context, db *gorm.DB) ([]domain.Country, error) {
	var items []domain.Country
	err := db.WithContext(ctx).
		Preload("Translations", orderedTranslations(nil)).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteCountry removes the country with its cities, zip codes and
// translations. Its regions stay, detached.
func (r *repo) DeleteCountry(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cityIDs := tx.Model(&domain.City{}).Select("id").Where("country_id = ?", id)

		if err := tx.Exec(`DELETE FROM translations WHERE owner_type = ? AND owner_id IN (?)`, domain.OwnerCity, cityIDs).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM zip_codes WHERE city_id IN (?)`, cityIDs).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM cities WHERE country_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`UPDATE regions SET country_id = NULL, updated_at = ? WHERE country_id = ?`, time.Now().UTC(), id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM translations WHERE owner_type = ? AND owner_id = ?`, domain.OwnerCountry, id).Error; err != nil {
			return err
		}
		res := tx.Exec(`DELETE FROM countries WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *repo) FindRegionByCode(ctx context.Context, db *gorm.DB, countryID snowflake.ID, code string) (*domain.Region, error) {
	var region domain.Region
	err := db.WithContext(ctx).
		Where("country_id = ? AND code = ?", countryID, code).
		Take(&region).Error
	return found(&region, err)
}

func (r *repo) CreateRegion(ctx context.Context, db *gorm.DB, region *domain.Region) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(region).Error
}

func (r *repo) UpdateRegion(ctx context.Context, db *gorm.DB, region *domain.Region) error {
	if region == nil || region.ID == 0 {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE regions SET local_code = ?, flag = ?, updated_at = ? WHERE id = ?`,
		region.LocalCode,
		region.Flag,
		time.Now().UTC(),
		region.ID,
	).Error
}

func (r *repo) ListRegions(ctx context.Context, db *gorm.DB, countryID snowflake.ID) ([]domain.Region, error) {
	var items []domain.Region
	err := db.WithContext(ctx).
		Preload("Country").
		Preload("Translations", orderedTranslations(nil)).
		Where("country_id = ?", countryID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteRegion removes the region and its translations, detaching its cities.
func (r *repo) DeleteRegion(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`UPDATE cities SET region_id = NULL, updated_at = ? WHERE region_id = ?`, time.Now().UTC(), id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM translations WHERE owner_type = ? AND owner_id = ?`, domain.OwnerRegion, id).Error; err != nil {
			return err
		}
		res := tx.Exec(`DELETE FROM regions WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *repo) FindCityByCode(ctx context.Context, db *gorm.DB, countryID snowflake.ID, code string) (*domain.City, error) {
	var city domain.City
	err := db.WithContext(ctx).
		Where("country_id = ? AND code = ?", countryID, code).
		Take(&city).Error
	return found(&city, err)
}

func (r *repo) CreateCity(ctx context.Context, db *gorm.DB, city *domain.City) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(city).Error
}

func (r *repo) UpdateCity(ctx context.Context, db *gorm.DB, city *domain.City) error {
	if city == nil || city.ID == 0 {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE cities SET region_id = ?, flag = ?, updated_at = ? WHERE id = ?`,
		city.RegionID,
		city.Flag,
		time.Now().UTC(),
		city.ID,
	).Error
}

func (r *repo) ListCities(ctx context.Context, db *gorm.DB, countryID snowflake.ID) ([]domain.City, error) {
	var items []domain.City
	err := db.WithContext(ctx).
		Preload("Country").
		Preload("Region").
		Preload("Translations", orderedTranslations(nil)).
		Where("country_id = ?", countryID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DeleteCity(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM zip_codes WHERE city_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM translations WHERE owner_type = ? AND owner_id = ?`, domain.OwnerCity, id).Error; err != nil {
			return err
		}
		res := tx.Exec(`DELETE FROM cities WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *repo) AddZipCode(ctx context.Context, db *gorm.DB, zip *domain.ZipCode) error {
	if zip == nil || zip.CityID == 0 {
		return gorm.ErrInvalidData
	}
	if !domain.ValidZipCode(zip.Code) {
		return domain.ErrInvalidZipCode
	}
	return db.WithContext(ctx).Create(zip).Error
}

func (r *repo) UpsertTranslation(ctx context.Context, db *gorm.DB, translation *domain.Translation) error {
	if translation == nil || translation.OwnerID == 0 {
		return domain.ErrInvalidOwner
	}
	switch translation.OwnerType {
	case domain.OwnerCountry, domain.OwnerRegion, domain.OwnerCity:
	default:
		return domain.ErrInvalidOwner
	}

	// A blank name only clears an existing translation.
	if translation.Name == "" {
		return db.WithContext(ctx).
			Model(&domain.Translation{}).
			Where("language_code = ? AND owner_type = ? AND owner_id = ?",
				translation.LanguageCode, translation.OwnerType, translation.OwnerID).
			Updates(map[string]any{"name": "", "updated_at": time.Now().UTC()}).Error
	}

	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "language_code"},
				{Name: "owner_type"},
				{Name: "owner_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(translation).Error
}

func (r *repo) SearchCities(ctx context.Context, db *gorm.DB, filter domain.CityFilter) ([]domain.City, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.City{}).
		Joins("JOIN countries ON countries.id = cities.country_id").
		Joins("LEFT JOIN regions ON regions.id = cities.region_id")

	for _, p := range cityPredicates(filter) {
		stmt = stmt.Where(p.sql, p.args...)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	var ids []snowflake.ID
	if err := stmt.Order("cities.id").Pluck("cities.id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.City{}, nil
	}

	langs := filter.Languages
	var items []domain.City
	err := db.WithContext(ctx).
		Preload("Translations", orderedTranslations(langs)).
		Preload("ZipCodes", func(tx *gorm.DB) *gorm.DB { return tx.Order("code") }).
		Preload("Region").
		Preload("Region.Translations", orderedTranslations(langs)).
		Preload("Country").
		Preload("Country.Translations", orderedTranslations(langs)).
		Where("id IN ?", ids).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// orderedTranslations scopes a translations preload to langs (all languages
// when empty) ordered by language code.
func orderedTranslations(langs []domain.Language) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if len(langs) > 0 {
			tx = tx.Where("language_code IN ?", languageStrings(langs))
		}
		return tx.Order("language_code")
	}
}

func found[T any](item *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}
