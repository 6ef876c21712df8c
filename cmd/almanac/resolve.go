package main

import (
	"encoding/json"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/vango-dev/almanac/internal/errors"
	"github.com/vango-dev/almanac/pkg/nav"
)

func resolveCmd(opts *globalOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Print the view a reader URL resolves to, as JSON",
		Long: `Decode a reader URL or query string into a navigation state and
print the resolved view as JSON.

Examples:
  almanac resolve "?edition=2025-11&article=essay"
  almanac resolve "/?view=archive" --mode=dark`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := parseTarget(args[0])
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
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Display mode: light or dark")

	return cmd
}

// parseTarget decodes a URL, a path with a query, or a bare query.
func parseTarget(s string) (nav.State, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nav.State{}, errors.New("A140").
			WithDetailf("cannot parse %q as a URL", s).
			Wrap(err)
	}
	if u.Scheme == "" && u.Host == "" && u.RawQuery == "" && !hasPathPrefix(u.Path) {
		// A bare query such as "edition=2025-11".
		return nav.Decode("/", s), nil
	}
	return nav.DecodeURL(u), nil
}

func hasPathPrefix(p string) bool {
	return len(p) > 0 && p[0] == '/'
}
