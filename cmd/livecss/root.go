package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "livecss",
	Short: "Live utility-class CSS runtime for HTML pages",
	Long: `Rewrites utility class tokens to their canonical form and generates
the CSS for each token once, injecting it into the page.
Pages can be built once, rebuilt on change, or served live.`,
	// Default behavior: run build when no subcommand is given.
	// PreRunE of buildCmd is not triggered when delegating via RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", ".livecss.yaml", "Config file path")
	pf.String("log-level", "warn", "Log level: debug|info|warn|error")
	pf.String("log-format", "text", "Log format: text|json")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")

	addSiteFlags(pf)

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
