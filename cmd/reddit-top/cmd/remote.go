package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/reddit-top/internal/api/client"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the engine state of a running server",
		Example: `  reddit-top status
  reddit-top status --server http://tracker:8080 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClient().Status(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), s)
			}
			return printStatus(cmd.OutOrStdout(), s)
		},
	}
}

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show the Reddit rate limit window seen by a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := newClient().Quota(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), q)
			}
			return printQuota(cmd.OutOrStdout(), q)
		},
	}
}

func listingsCmd() *cobra.Command {
	var params apiclient.ListListingsParams

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "List the entries a running server has accumulated",
		Example: `  reddit-top listings
  reddit-top listings --limit 10 --offset 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().ListListings(cmd.Context(), &params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			if len(resp.Entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries found.")
				return nil
			}
			if err := printRemoteEntriesTable(cmd.OutOrStdout(), resp.Entries, params.Offset); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d of %d (more available: %v)\n",
				len(resp.Entries), resp.Total, resp.HasMore)
			return nil
		},
	}

	cmd.Flags().IntVar(&params.Limit, "limit", 0, "max entries to show (0 for all)")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "entries to skip")

	return cmd
}

func triggerCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trigger",
		Short: "Start an engine operation on a running server",
		Long: "Start an operation on a running server. The server answers as soon as\n" +
			"the operation is started; use `status` and `listings` to follow it.",
	}

	ops := []struct {
		use   string
		short string
		call  func(*apiclient.Client, context.Context) (*apiclient.Accepted, error)
	}{
		{"auth", "Request a new token", (*apiclient.Client).Authenticate},
		{"refresh", "Fetch the first page, replacing accumulated entries", (*apiclient.Client).Refresh},
		{"next", "Fetch the page after the accumulated cursor", (*apiclient.Client).Next},
	}

	for _, op := range ops {
		root.AddCommand(&cobra.Command{
			Use:   op.use,
			Short: op.short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				resp, err := op.call(newClient(), cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
				return nil
			},
		})
	}

	return root
}
