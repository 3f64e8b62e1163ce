package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ssxwatch/internal/archive"
)

func newShowCommand(cmdCtx *commandContext) *cobra.Command {
	var path string
	var kind string
	var from int
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display archived records",
		Long: "Show reads the record archive written by ssxwatchd. Without flags it\n" +
			"summarizes the watched files; with --path it lists a file's records.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := archive.OpenPath(cfg.DatabasePath())
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer store.Close()

			if strings.TrimSpace(path) == "" {
				return showFiles(cmd, store)
			}
			return showRecords(cmd, store, kind, path, from, limit)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Watched file whose records to list")
	cmd.Flags().StringVarP(&kind, "kind", "k", "pia", "Record kind of the watched file")
	cmd.Flags().IntVar(&from, "from", 0, "First record index to list")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum records to list (0 for all)")
	return cmd
}

func showFiles(cmd *cobra.Command, store *archive.Store) error {
	files, err := store.Files(cmd.Context())
	if err != nil {
		return fmt.Errorf("list watched files: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "No archived records")
		return nil
	}

	titler := cases.Title(language.English)
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{
			titler.String(f.Kind),
			f.Path,
			strconv.Itoa(f.Records),
			f.UpdatedAt.Local().Format(time.DateTime),
		})
	}
	printRows(cmd, []string{"Kind", "Path", "Records", "Updated"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft})
	return nil
}

func showRecords(cmd *cobra.Command, store *archive.Store, kind, path string, from, limit int) error {
	records, err := store.Records(cmd.Context(), strings.ToLower(kind), path, from, limit)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No records in the requested range")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.FormatInt(rec.FileNumber, 10),
			strconv.FormatInt(rec.SpotsTotal, 10),
			strconv.FormatInt(rec.SpotsFiltered, 10),
		})
	}
	printRows(cmd, []string{"File", "Spots", "Filtered"}, rows,
		[]columnAlignment{alignRight, alignRight, alignRight})
	return nil
}

// printRows renders a table on a terminal and tab-separated rows when the
// output is piped.
func printRows(cmd *cobra.Command, headers []string, rows [][]string, aligns []columnAlignment) {
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
		return
	}
	fmt.Fprintln(out, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(out, strings.Join(row, "\t"))
	}
}
