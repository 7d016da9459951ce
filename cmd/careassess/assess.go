package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-careassess/pkg/logging"
	"github.com/goliatone/go-careassess/pkg/renderers/tui"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

var (
	assessDryRun bool
	assessStyle  string
	assessWidth  int
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Walk through the assessment in the terminal",
	Long: `Runs the same wizard as the web page with terminal prompts. Without
--dry-run the finished assessment is stored and delivered like a web lead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		opts := []tui.Option{
			tui.WithOutput(out),
			tui.WithRenderer(tui.NewRenderer(tui.WithStyle(assessStyle), tui.WithWordWrap(assessWidth))),
			tui.WithLogger(logging.Named(logger, "assess")),
		}

		catalog, err := loadCatalog(cfg.Assessment)
		if err != nil {
			return err
		}
		if !assessDryRun {
			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()
			catalog = a.catalog
			opts = append(opts, tui.WithSubmitter(a.leads))
		}

		w, err := wizard.New(catalog)
		if err != nil {
			return err
		}
		outcome, err := tui.NewRunner(opts...).Run(ctx, w)
		switch {
		case errors.Is(err, tui.ErrDeclined), errors.Is(err, tui.ErrAborted):
			fmt.Fprintln(out, "Assessment cancelled.")
			return nil
		case err != nil:
			return err
		}
		if outcome.Lead == nil {
			fmt.Fprintln(out, "Dry run: the assessment was not saved.")
		}
		return nil
	},
}

func init() {
	assessCmd.Flags().BoolVar(&assessDryRun, "dry-run", false, "score the answers without saving a lead")
	assessCmd.Flags().StringVar(&assessStyle, "style", tui.StyleAuto, `glamour style ("auto", "dark", "light", "notty")`)
	assessCmd.Flags().IntVar(&assessWidth, "width", 80, "word wrap width")
}
