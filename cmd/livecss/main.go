// Package main provides the livecss CLI: it runs the utility-class runtime
// over HTML pages to build, watch or serve them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
