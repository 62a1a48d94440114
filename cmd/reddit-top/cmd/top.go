package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/reddit-top/internal/engine"
	domain "github.com/donaldgifford/reddit-top/pkg/types"
)

type topOutput struct {
	Entries   []domain.Entry `json:"entries"`
	After     string         `json:"after,omitempty"`
	Pages     int            `json:"pages"`
	StoppedAt string         `json:"stopped_at"`
}

func topCmd() *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Authenticate and print the top listing",
		Long: "Authenticate, then fetch pages of the top listing until the configured\n" +
			"max_entries is reached, the listing runs out, or --pages pages were fetched.",
		Example: `  reddit-top top
  reddit-top top --pages 2 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1 (got %d)", pages)
			}

			ctx := cmd.Context()

			a, err := startApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(ctx, a)

			r, err := a.Engine.Await(ctx, engine.KindAuthenticate, a.Engine.Authenticate)
			if err != nil {
				return err
			}
			if err := engine.Err(r); err != nil {
				return fmt.Errorf("authenticating: %w", err)
			}

			res, err := a.Paginator(pages).Paginate(ctx)
			if err != nil {
				return err
			}

			snap := a.Store.Snapshot()
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), topOutput{
					Entries:   snap.Entries,
					After:     snap.After,
					Pages:     res.PagesUsed,
					StoppedAt: res.StoppedAt,
				})
			}

			if len(snap.Entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries found.")
				return nil
			}
			return printEntriesTable(cmd.OutOrStdout(), snap.Entries, time.Now())
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 5, "maximum number of pages to fetch")

	return cmd
}
