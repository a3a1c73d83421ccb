package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/robotsmap/internal/robots"
)

// newCheckCmd creates the 'check' subcommand, which tests a path against a
// saved robots.txt using full user-agent group semantics.
func newCheckCmd() *cobra.Command {
	var agent string

	cmd := &cobra.Command{
		Use:   "check <robots-file> <path>",
		Short: "Report whether a saved robots.txt allows a path",
		Long: `Reads a robots.txt snapshot saved by a previous run and reports whether
the given path may be crawled by the selected user agent, along with its
crawl delay and any sitemaps the file lists.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], args[1], agent)
		},
	}
	cmd.Flags().StringVar(&agent, "agent", "*", "user agent to evaluate")
	return cmd
}

func runCheck(cmd *cobra.Command, file, path, agent string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.Logger.Named("check")

	// #nosec G304 -- the operator names the file to inspect.
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read robots file: %w", err)
	}
	verdict, err := robots.Evaluate(string(content), agent, path)
	if err != nil {
		return err
	}
	logger.Info("robots check",
		zap.String("file", file),
		zap.String("agent", verdict.Agent),
		zap.String("path", verdict.Path),
		zap.Bool("allowed", verdict.Allowed),
	)

	out := cmd.OutOrStdout()
	status := "disallowed"
	if verdict.Allowed {
		status = "allowed"
	}
	fmt.Fprintf(out, "%s is %s for user agent %q\n", verdict.Path, status, verdict.Agent)
	if verdict.CrawlDelay > 0 {
		fmt.Fprintf(out, "crawl delay: %s\n", verdict.CrawlDelay)
	}
	for _, sitemap := range verdict.Sitemaps {
		fmt.Fprintf(out, "sitemap: %s\n", sitemap)
	}
	return nil
}
