package domain

import (
	"context"

	importerdomain "github.com/smallbiznis/geodata/internal/importer/domain"
	"github.com/smallbiznis/geodata/internal/i18n"
	"github.com/smallbiznis/geodata/internal/tabular"
	"golang.org/x/text/message"
)

// Request selects one level of the hierarchy. Empty yields a header-only
// template.
type Request struct {
	Entity      importerdomain.Entity
	CountryCode string
	Empty       bool
	Format      tabular.Format
}

// File is a rendered export.
type File struct {
	Name    string
	Format  tabular.Format
	Rows    int
	Content []byte
}

func (f File) ContentType() string {
	return f.Format.ContentType()
}

type Service interface {
	// Sheet projects the requested level into rows, header first, with the
	// same layout the importer reads.
	Sheet(ctx context.Context, req Request) ([][]string, error)
	// Export renders Sheet in req.Format.
	Export(ctx context.Context, req Request) (*File, error)
}

// MissingContextError reports a region or city download without a country.
type MissingContextError struct {
	Entity importerdomain.Entity
}

func (e *MissingContextError) key() string {
	if e.Entity == importerdomain.EntityCities {
		return i18n.MsgCityExportCountryRequired
	}
	return i18n.MsgRegionExportCountryRequired
}

func (e *MissingContextError) Error() string {
	return e.key()
}

func (e *MissingContextError) Localize(p *message.Printer) string {
	return p.Sprintf(e.key())
}
