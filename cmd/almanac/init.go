package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/almanac/internal/config"
	"github.com/vango-dev/almanac/internal/errors"
	"github.com/vango-dev/almanac/pkg/edition"
)

func initCmd() *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write almanac.json and an empty content tree",
		Long: `Write a default almanac.json and the global/ and content/
directories of a new magazine. Existing global files are left alone.

Examples:
  almanac init
  almanac init ./magazine --name="The Almanac"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path := filepath.Join(dir, config.ConfigFileName)
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("A140").
					WithDetailf("%s already exists", path).
					WithSuggestion("Pass --force to overwrite it")
			}

			for _, d := range []string{"global", "content"} {
				if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
					return errors.New("A120").Wrap(err)
				}
			}

			fc := config.New()
			if name != "" {
				fc.Name = name
			}
			if err := fc.SaveTo(path); err != nil {
				return err
			}
			success(cmd, "Wrote %s", path)

			global := filepath.Join(dir, "global", "config.json")
			if _, err := os.Stat(global); os.IsNotExist(err) {
				data, _ := json.MarshalIndent(edition.GlobalConfig{MagazineName: fc.Name}, "", "  ")
				if err := os.WriteFile(global, append(data, '\n'), 0644); err != nil {
					return errors.New("A120").Wrap(err)
				}
				success(cmd, "Wrote %s", global)
			}
			info(cmd, "Add editions under %s/YYYY-MM/", filepath.Join(dir, "content"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Magazine name")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing almanac.json")

	return cmd
}
