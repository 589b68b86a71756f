package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/webkattle/wft/internal/store"
	"github.com/webkattle/wft/internal/table"
	"github.com/webkattle/wft/internal/ui"
)

func newTableCommand(dbPath *string) *cobra.Command {
	var (
		columnsSpec string
		optionsSpec string
		sortSpec    string
		start       int
		pageSize    int
		noColor     bool
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Render the comparative feature table in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer catalog.Close()

			// The column engine reads its configuration from a query string,
			// the same way the HTTP surface does.
			q := url.Values{}
			q.Set(table.ParamColumns, columnsSpec)
			q.Set(table.ParamColumnOptions, optionsSpec)
			q.Set(table.ParamSort, sortSpec)
			q.Set(table.ParamStart, fmt.Sprint(start))
			loc := &url.URL{Path: "/", RawQuery: q.Encode()}

			columns := table.ColumnsFromLocation(loc)
			page, err := catalog.ListFeatures(cmd.Context(), store.Query{
				Sort:     table.SortFromLocation(loc),
				Start:    start,
				PageSize: pageSize,
			})
			if err != nil {
				return err
			}
			rows := make([][]table.Cell, 0, len(page.Features))
			for _, f := range page.Features {
				row := make([]table.Cell, len(columns))
				for i, col := range columns {
					row[i] = table.RenderCell(f, loc, col)
				}
				rows = append(rows, row)
			}
			console := ui.NewTableConsole(os.Stdout, ui.TableConsoleOptions{
				Color: !noColor && !color.NoColor,
			})
			if err := console.Render(columns, rows); err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("\nno features to show")
				return nil
			}
			fmt.Printf("\n%d-%d of %d features\n", start+1, start+len(rows), page.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&columnsSpec, "columns", "", "Comma-separated column keys (defaults to name, baseline status, and stable browsers)")
	cmd.Flags().StringVar(&optionsSpec, "column-options", "", "Comma-separated column option keys (e.g. baseline_status_low_date)")
	cmd.Flags().StringVar(&sortSpec, "sort", "", "Sort spec <column>_asc or <column>_desc (default baseline_status_desc)")
	cmd.Flags().IntVar(&start, "start", 0, "Offset of the first feature to show")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Number of features per page")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}
