package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .livecss.yaml config file",
	Long:  `Create a .livecss.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".livecss.yaml"); err == nil && !force {
			return fmt.Errorf(".livecss.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".livecss.yaml", []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .livecss.yaml")
		return nil
	},
}

const defaultConfig = `# livecss configuration

log-level: warn
log-format: text       # text | json

# Page discovery and output
build:
  root: .
  out-dir: dist
  include:
    - "**/*.html"
  exclude: []
  output-format: issues  # issues | summary | full | json
  strict: false
  print-op: true

# Runtime behaviour
runtime:
  # debug: true        # default: on when the page URL port is above 2000
  reset: true
  body: false
  clear-cache: true
  viewport-width: 1280
  viewport-height: 800
  size-observer: true
  debounce: 100ms
  mobile-max-width: 768
  important: false

# Ordered: the first matching query wins
breakpoints:
  - key: m
    query: "(max-width: 768px)"
  - key: t
    query: "(min-width: 769px) and (max-width: 1024px)"
  - key: d
    query: "(min-width: 1025px)"

# Named class groups, expanded wherever they appear
shortcuts:
  btn: "px-4 py-2 rounded font-medium"

serve:
  addr: localhost:8080
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
