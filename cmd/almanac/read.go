package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/almanac/internal/terminal"
)

func readCmd(opts *globalOptions) *cobra.Command {
	var (
		mode  string
		width int
		style string
	)

	cmd := &cobra.Command{
		Use:   "read [url]",
		Short: "Read a page of the magazine in the terminal",
		Long: `Render the view a reader URL resolves to as styled terminal
text. Without a URL the home page is shown.

Examples:
  almanac read
  almanac read "?edition=2025-11&view=contents"
  almanac read "?edition=2025-11&article=essay" --mode=dark --width=100`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "/"
			if len(args) == 1 {
				target = args[0]
			}
			state, err := parseTarget(target)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			app, err := opts.openApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			m, err := parseMode(mode, app.Config().DefaultMode)
			if err != nil {
				return err
			}
			v, err := app.View(ctx, state, m)
			if err != nil {
				return err
			}
			out, err := terminal.New(terminal.Options{Width: width, Style: style}).Render(v)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Display mode: light or dark")
	cmd.Flags().IntVarP(&width, "width", "w", terminal.DefaultWidth, "Wrap width")
	cmd.Flags().StringVar(&style, "style", "", "Glamour style name or path (default follows the mode)")

	return cmd
}
