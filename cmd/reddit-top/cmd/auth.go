package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/reddit-top/internal/engine"
)

type authOutput struct {
	Authenticated bool   `json:"authenticated"`
	DeviceID      string `json:"device_id"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Request an installed-app token and report the session",
		Example: `  reddit-top auth
  reddit-top auth --config config.yaml --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
				return err
			}

			out := authOutput{
				Authenticated: a.Session.Authenticated(),
				DeviceID:      a.Session.DeviceID(),
			}
			if exp := a.Session.ExpiresAt(); !exp.IsZero() {
				out.ExpiresAt = exp.Local().Format(timeLayout)
			}

			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), out)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			tw.writef("Authenticated:\t%v\n", out.Authenticated)
			tw.writef("Device ID:\t%s\n", out.DeviceID)
			if out.ExpiresAt != "" {
				tw.writef("Expires At:\t%s\n", out.ExpiresAt)
			}
			if err := tw.finish(); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}
}
