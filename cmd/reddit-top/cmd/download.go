package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/reddit-top/internal/api/client"
	"github.com/donaldgifford/reddit-top/internal/engine"
)

func downloadCmd() *cobra.Command {
	var (
		dir    string
		remote bool
	)

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download an asset into a directory",
		Long: "Download an asset through the engine and print its local path. With\n" +
			"--remote the download is started on a running server instead.",
		Args: cobra.ExactArgs(1),
		Example: `  reddit-top download https://i.redd.it/abc.jpg
  reddit-top download https://i.redd.it/abc.jpg --dir /tmp
  reddit-top download https://i.redd.it/abc.jpg --remote`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if remote {
				resp, err := newClient().Download(ctx, apiclient.DownloadRequest{
					URL: args[0],
					Dir: dir,
				})
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", resp.Status, resp.URL, resp.Dir)
				return nil
			}

			a, err := startApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(ctx, a)

			dest := dir
			if dest == "" {
				dest = a.Config.Download.Dir
			}

			r, err := a.Engine.Await(ctx, engine.KindDownloadAsset, func() {
				a.Engine.DownloadAsset(args[0], dest)
			})
			if err != nil {
				return err
			}
			if err := engine.Err(r); err != nil {
				return err
			}

			done, ok := r.(engine.AssetDownloaded)
			if !ok {
				return fmt.Errorf("unexpected result %T", r)
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), map[string]string{
					"url":  done.URL,
					"path": done.Path,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), done.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "destination directory (default download.dir; with --remote, a path inside the server's download.dir)")
	cmd.Flags().BoolVar(&remote, "remote", false, "start the download on the server at --server")

	return cmd
}
