package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/smallbiznis/geodata/internal/config"
	"github.com/smallbiznis/geodata/internal/i18n"
	importerdomain "github.com/smallbiznis/geodata/internal/importer/domain"
	"github.com/smallbiznis/geodata/internal/tabular"
	"github.com/spf13/cobra"
)

func getImportCmd(cfg func() config.Config) *cobra.Command {
	var country, lang string
	cmd := &cobra.Command{
		Use:   "import <countries|regions|cities> <file>",
		Short: "Load a CSV or XLSX sheet into the store",
		Long: `Import validates the whole sheet first and writes nothing when any row is
rejected. Regions and cities need the country they belong to.

Examples:
  geodata import countries countries.xlsx
  geodata import cities cities-co.csv --country CO`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := importerdomain.ParseEntity(args[0])
			if err != nil {
				return fmt.Errorf("unknown entity %q", args[0])
			}
			rows, err := readSheet(args[1])
			if err != nil {
				return err
			}

			var svc importerdomain.Service
			return runTask(cmd.Context(), cfg(), func() error {
				res, err := svc.Import(cmd.Context(), importerdomain.Request{
					Entity:      entity,
					CountryCode: country,
					Rows:        rows,
				})
				if err != nil {
					return reportImportError(cmd.ErrOrStderr(), lang, err)
				}
				printImportResult(cmd.OutOrStdout(), res)
				return nil
			}, &svc)
		},
	}
	cmd.Flags().StringVarP(&country, "country", "c", "", "country code for regions and cities")
	cmd.Flags().StringVar(&lang, "lang", "en", "language of the error messages")
	return cmd
}

func readSheet(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := tabular.Read(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// reportImportError lists every rejected row in lang before returning err.
func reportImportError(w io.Writer, lang string, err error) error {
	p := i18n.PrinterFor(lang)

	var verr *importerdomain.ValidationError
	if errors.As(err, &verr) {
		for _, msg := range verr.Localize(p) {
			fmt.Fprintln(w, "-", msg)
		}
		return fmt.Errorf("%s rejected with %d problems", verr.Entity, len(verr.Problems))
	}

	var problem importerdomain.Problem
	if errors.As(err, &problem) {
		return errors.New(problem.Localize(p))
	}
	return err
}

func printImportResult(w io.Writer, res *importerdomain.Result) {
	fmt.Fprintf(w, "imported %s %s (%s created, %s skipped, %s translations) run %s\n",
		humanize.Comma(int64(res.Imported)),
		res.Entity,
		humanize.Comma(int64(res.Created)),
		humanize.Comma(int64(res.Skipped)),
		humanize.Comma(int64(res.Translations)),
		res.RunID,
	)
}
