// Command importer loads faculty or review rows from a CSV/JSON file with
// the same validation the admin import endpoints apply.
//
//	go run ./cmd/importer --entity faculty --file faculty.csv --dry-run
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"campusaxis_backend/internals/configs"
	"campusaxis_backend/internals/features/admin/imports/model"
	"campusaxis_backend/internals/features/admin/imports/parser"
	"campusaxis_backend/internals/features/admin/imports/service"
)

type flags struct {
	entity        string
	file          string
	dryRun        bool
	upsert        bool
	defaultStatus string
	timeout       time.Duration
	quiet         bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:          "importer",
		Short:        "Bulk import faculty or reviews from a CSV or JSON file",
		Long: fmt.Sprintf("Bulk import faculty or reviews from a CSV or JSON file.\n\nRequired columns:\n  faculty: %s\n  reviews: %s\n\nList cells (courses, pros, cons...) are pipe separated.",
			strings.Join(parser.Required(parser.KindFaculty), ", "),
			strings.Join(parser.Required(parser.KindReviews), ", ")),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVarP(&f.entity, "entity", "e", "", "faculty | reviews")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "path to a .csv or .json file")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "validate only, write nothing")
	cmd.Flags().BoolVar(&f.upsert, "upsert", false, "update rows whose id already exists")
	cmd.Flags().StringVar(&f.defaultStatus, "default-status", string(model.ReviewApproved), "status for reviews without one")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 5*time.Minute, "overall deadline")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "print totals only")
	_ = cmd.MarkFlagRequired("entity")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func run(ctx context.Context, f *flags) error {
	kind, err := parser.ParseKind(f.entity)
	if err != nil {
		return err
	}
	status := model.ReviewStatus(strings.ToLower(strings.TrimSpace(f.defaultStatus)))
	switch status {
	case model.ReviewPending, model.ReviewApproved, model.ReviewRejected:
	default:
		return fmt.Errorf("invalid --default-status %q", f.defaultStatus)
	}

	rows, err := readRows(kind, f.file)
	if err != nil {
		return err
	}

	configs.LoadEnv()
	db, err := configs.OpenPostgres()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	summary, err := service.NewImporter(db).Import(ctx, kind, rows, service.Options{
		Upsert:        f.upsert,
		DryRun:        f.dryRun,
		DefaultStatus: status,
	})
	if err != nil {
		return err
	}

	if f.quiet {
		summary.Results = nil
	}
	out, err := sonic.ConfigStd.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if n := summary.Invalid + summary.Failed; n > 0 {
		return fmt.Errorf("%d of %d rows were not imported", n, summary.Total)
	}
	return nil
}

func readRows(kind parser.Kind, path string) ([]parser.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()

		headers, rows, err := parser.ParseCSV(fh)
		if err != nil {
			return nil, err
		}
		if missing := parser.MissingColumns(kind, headers); len(missing) > 0 {
			return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
		}
		log.Printf("[IMPORT] %s: %d csv rows", path, len(rows))
		return rows, nil
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		rows, err := parser.ParseJSON(raw)
		if err != nil {
			return nil, err
		}
		log.Printf("[IMPORT] %s: %d json rows", path, len(rows))
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .csv or .json", filepath.Ext(path))
	}
}
