// Package cmd defines and implements the CLI commands for the robotsmap executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/robotsmap/internal/app"
	"github.com/JakeFAU/robotsmap/internal/config"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// newApp is the application factory. It's a variable so tests can swap in
// their own streams or a failing factory.
var newApp = func(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) (*app.App, error) {
	return app.NewApp(ctx, cfg, app.Options{In: in, Out: out})
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "robotsmap",
		Short: "Fetch and analyze a site's robots.txt and sitemap.xml.",
		Long: `robotsmap asks for a website URL, checks that the server answers, then
downloads robots.txt and sitemap.xml with retries and exponential backoff.
The raw files and a JSON breakdown of the robots.txt directives are saved
under a directory named after the site.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,

		// Builds the application before any subcommand's RunE.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			appInstance, err := newApp(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		RunE: runSession,

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(*app.App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml); env vars use the ROBOTSMAP_ prefix")

	cmd.AddCommand(newCheckCmd())

	return cmd
}

func runSession(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	if err := appInstance.Session.Run(cmd.Context()); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("input closed before a website URL was entered")
		}
		appInstance.Logger.Error("session failed", zap.Error(err))
		return err
	}
	return nil
}

func resolveApp(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point. It returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "robotsmap: %v\n", err)
		return 1
	}
	return 0
}
