package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/annual/pkg/routing"
	"github.com/JaimeStill/annual/web/app"
)

func loadTable(manifest string) (*routing.Table, error) {
	if manifest == "" {
		return app.Table()
	}
	return routing.LoadFile(manifest)
}

func routesCmd() *cobra.Command {
	var (
		manifest string
		format   string
		records  bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the page route table",
		Long: `Print the page route table as a manifest, or as the flattened
records in match order with --records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(manifest)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if records {
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "PATTERN\tCOMPONENT\tLAYOUTS")
				for _, rec := range table.Records() {
					fmt.Fprintf(w, "%s\t%s\t%s\n", rec.Pattern, rec.Component, strings.Join(rec.Layouts, " > "))
				}
				return w.Flush()
			}

			f, err := routing.ParseFormat(format)
			if err != nil {
				return err
			}
			return routing.Encode(out, table.Manifest(), f)
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "Route manifest file (default: built-in table)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, toml or yaml")
	cmd.Flags().BoolVar(&records, "records", false, "Print flattened records instead of the manifest")

	return cmd
}

func resolveCmd() *cobra.Command {
	var manifest string

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Show which component each path navigates to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(manifest)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, path := range args {
				m, err := table.Match(path)
				if err != nil {
					fmt.Fprintf(w, "%s\t-\tno match\n", path)
					continue
				}

				status := "ok"
				if m.NotFound() {
					status = "not found"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", path, m.Record.Pattern, strings.Join(m.Record.Chain(), " > "), status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "Route manifest file (default: built-in table)")

	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [manifest]...",
		Short: "Validate route manifest files",
		Long: `Validate route manifest files, or the built-in table when none are
given. The format of each file is inferred from its extension.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				table, err := app.Table()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "builtin: ok (%d records)\n", table.Len())
				return nil
			}

			var failed int
			for _, path := range args {
				table, err := routing.LoadFile(path)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "%s: ok (%d records)\n", path, table.Len())
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d manifests invalid", failed, len(args))
			}
			return nil
		},
	}
}
