package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/smallbiznis/geodata/internal/config"
	exporterdomain "github.com/smallbiznis/geodata/internal/exporter/domain"
	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	importerdomain "github.com/smallbiznis/geodata/internal/importer/domain"
	"github.com/smallbiznis/geodata/internal/tabular"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const exportWorkers = 4

type exportOptions struct {
	country string
	format  string
	empty   bool
	all     bool
	dir     string
	out     string
}

func getExportCmd(cfg func() config.Config) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export [countries|regions|cities]",
		Short: "Write the store, or an empty template, as CSV or XLSX",
		Long: `Export writes one sheet per entity in the layout import reads back.

Examples:
  geodata export countries --format csv
  geodata export regions --country CO --empty
  geodata export --all --dir ./dump`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.all == (len(args) == 1) {
				return errors.New("name one entity or pass --all")
			}
			if _, err := tabular.ParseFormat(opts.format); err != nil {
				return fmt.Errorf("unsupported format %q", opts.format)
			}

			var (
				svc  exporterdomain.Service
				repo geodomain.Repository
				conn *gorm.DB
			)
			return runTask(cmd.Context(), cfg(), func() error {
				if opts.all {
					return exportAll(cmd.Context(), cmd.OutOrStdout(), svc, repo, conn, opts)
				}
				entity, err := importerdomain.ParseEntity(args[0])
				if err != nil {
					return fmt.Errorf("unknown entity %q", args[0])
				}
				return exportOne(cmd.Context(), cmd.OutOrStdout(), svc, opts, entity)
			}, &svc, &repo, &conn)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.country, "country", "c", "", "country code for regions and cities")
	flags.StringVarP(&opts.format, "format", "f", string(tabular.FormatXLSX), "xlsx or csv")
	flags.BoolVar(&opts.empty, "empty", false, "write only the header row")
	flags.BoolVar(&opts.all, "all", false, "export every entity of every country")
	flags.StringVar(&opts.dir, "dir", ".", "output directory")
	flags.StringVarP(&opts.out, "output", "o", "", "output file, defaults to the generated name inside --dir")
	return cmd
}

func exportOne(ctx context.Context, w io.Writer, svc exporterdomain.Service, opts exportOptions, entity importerdomain.Entity) error {
	file, err := svc.Export(ctx, exportRequest(entity, opts.country, opts))
	if err != nil {
		return err
	}
	target := opts.out
	if target == "" {
		target = filepath.Join(opts.dir, file.Name)
	}
	return writeExport(w, target, file)
}

// exportAll writes the countries sheet plus the regions and cities of every
// country, a few files at a time.
func exportAll(ctx context.Context, w io.Writer, svc exporterdomain.Service, repo geodomain.Repository, conn *gorm.DB, opts exportOptions) error {
	countries, err := repo.ListCountries(ctx, conn)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.dir, 0o755); err != nil {
		return err
	}

	requests := []exporterdomain.Request{exportRequest(importerdomain.EntityCountries, "", opts)}
	for _, c := range countries {
		requests = append(requests,
			exportRequest(importerdomain.EntityRegions, c.Code, opts),
			exportRequest(importerdomain.EntityCities, c.Code, opts),
		)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportWorkers)
	for _, req := range requests {
		g.Go(func() error {
			file, err := svc.Export(gctx, req)
			if err != nil {
				return fmt.Errorf("export %s %s: %w", req.Entity, req.CountryCode, err)
			}
			mu.Lock()
			defer mu.Unlock()
			return writeExport(w, filepath.Join(opts.dir, file.Name), file)
		})
	}
	return g.Wait()
}

func exportRequest(entity importerdomain.Entity, country string, opts exportOptions) exporterdomain.Request {
	return exporterdomain.Request{
		Entity:      entity,
		CountryCode: country,
		Empty:       opts.empty,
		Format:      tabular.Format(opts.format),
	}
}

func writeExport(w io.Writer, target string, file *exporterdomain.File) error {
	if err := os.WriteFile(target, file.Content, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %s rows, %s\n", target, humanize.Comma(int64(file.Rows)), humanize.Bytes(uint64(len(file.Content))))
	return nil
}
