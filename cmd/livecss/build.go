package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/livecss"
	"github.com/yacobolo/livecss/internal/report"
)

// errIssues is returned when the build finished but the exit code must be 1.
var errIssues = errors.New("build reported issues")

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the runtime over HTML pages and write the results",
	Long: `Discover pages, run the runtime over each one and write the rewritten
page and its generated stylesheet to the output directory.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.String("output-format", "issues", "Output format: issues|summary|full|json")
	f.Bool("strict", false, "Exit 1 on any issue, warnings included (CI mode)")
	f.Bool("print-op", true, "Show the failing operation after each issue")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()
	cfg, err := buildSiteConfig(logger, nil)
	if err != nil {
		return err
	}

	result, err := livecss.Build(cfg)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	logger.Info("build finished",
		"pages", len(result.Pages),
		"issues", len(result.Issues),
		"duration", result.Duration,
	)

	if !getBoolWithFallback("quiet", false) {
		format := livecss.DetermineOutputFormat(getStringWithFallback("build.output-format", "issues"))
		livecss.WriteOutput(cmd.OutOrStdout(), result, format, livecss.OutputOptions{
			UseColors: report.ShouldUseColors(getBoolWithFallback("color", false)),
			PrintOp:   getBoolWithFallback("build.print-op", true),
		})
	}

	return exitStatus(result, getBoolWithFallback("build.strict", false))
}

// exitStatus applies the "soft gate": only errors fail the build unless
// strict, where any issue does.
func exitStatus(result *livecss.BuildResult, strict bool) error {
	var errs int
	for _, issue := range result.Issues {
		if issue.Severity == livecss.SeverityError {
			errs++
		}
	}
	switch {
	case strict && len(result.Issues) > 0:
		return fmt.Errorf("%w: %d in strict mode", errIssues, len(result.Issues))
	case errs > 0:
		return fmt.Errorf("%w: %d errors", errIssues, errs)
	}
	return nil
}
