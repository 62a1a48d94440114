// Package cmd implements the reddit-top CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/reddit-top/internal/api/client"
	"github.com/donaldgifford/reddit-top/internal/app"
	"github.com/donaldgifford/reddit-top/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "reddit-top",
	Short: "Browse Reddit's top listing from the terminal",
	Long: "reddit-top authenticates against Reddit as an installed app, pages\n" +
		"through the top listing, and downloads linked media. Run `serve` for\n" +
		"a long-lived engine behind an HTTP control API, and the remote\n" +
		"commands to drive it.",
	SilenceUsage: true,
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().
		String("config", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "control API URL for remote commands")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	for _, name := range []string{"config", "server", "output"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(
		authCmd(),
		topCmd(),
		downloadCmd(),
		serveCmd(),
		statusCmd(),
		quotaCmd(),
		listingsCmd(),
		triggerCmd(),
		versionCmd(),
	)
}

func initViper() {
	viper.SetEnvPrefix("REDDIT_TOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(viper.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// startApp builds the application context and starts its delivery loop.
// Callers must Close the returned App.
func startApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("building app: %w", err)
	}
	a.Start(ctx)
	return a, nil
}

func closeApp(ctx context.Context, a *app.App) {
	if err := a.Close(ctx); err != nil {
		a.Log.Warn("closing app", "error", err)
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
