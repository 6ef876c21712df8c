package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vango-dev/almanac/internal/errors"
	"github.com/vango-dev/almanac/pkg/edition"
)

// editionRow is one line of the editions listing.
type editionRow struct {
	ID      edition.ID `json:"id"`
	Label   string     `json:"label"`
	Title   string     `json:"title,omitempty"`
	Columns int        `json:"columns"`
	Error   string     `json:"error,omitempty"`
}

func editionsCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "editions",
		Short: "List the editions in the content tree",
		Long: `List every edition in the content tree, newest first.
Editions whose config.json cannot be loaded are listed with the error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := opts.openApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			var rows []editionRow
			for _, id := range app.Registry().List() {
				row := editionRow{ID: id, Label: id.Label()}
				e, err := app.Resolver().LoadEdition(ctx, id)
				if err != nil {
					row.Error = errorSummary(err)
				} else {
					row.Title = e.Title
					row.Columns = len(e.Columns)
				}
				rows = append(rows, row)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			if len(rows) == 0 {
				info(cmd, "No editions found")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), editionsTable(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}

func editionsTable(rows []editionRow) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	failed := cell.Foreground(lipgloss.Color("#FF6B6B"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("EDITION", "LABEL", "TITLE", "COLUMNS").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row >= 0 && rows[row].Error != "":
				return failed
			default:
				return cell
			}
		})
	for _, r := range rows {
		title, count := r.Title, strconv.Itoa(r.Columns)
		if r.Error != "" {
			title, count = r.Error, "-"
		}
		t.Row(string(r.ID), r.Label, title, count)
	}
	return t.String()
}

// errorSummary renders err on one line, preferring its code.
func errorSummary(err error) string {
	if e := errors.FromError(err, ""); e.Code != "" {
		return e.Code + " " + e.Message
	}
	return err.Error()
}
