package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/livecss"
	"github.com/yacobolo/livecss/internal/config"
	"github.com/yacobolo/livecss/internal/logging"
	"github.com/yacobolo/livecss/internal/metrics"
)

const envPrefix = "LIVECSS_"

var k = koanf.New(".")

// flagKeys maps flag names to their config file keys. Flags not listed use
// their own name as key.
var flagKeys = map[string]string{
	"root":             "build.root",
	"out-dir":          "build.out-dir",
	"include":          "build.include",
	"exclude":          "build.exclude",
	"output-format":    "build.output-format",
	"strict":           "build.strict",
	"print-op":         "build.print-op",
	"debug":            "runtime.debug",
	"reset":            "runtime.reset",
	"body":             "runtime.body",
	"clear-cache":      "runtime.clear-cache",
	"viewport-width":   "runtime.viewport-width",
	"viewport-height":  "runtime.viewport-height",
	"size-observer":    "runtime.size-observer",
	"debounce":         "runtime.debounce",
	"mobile-max-width": "runtime.mobile-max-width",
	"important":        "runtime.important",
	"addr":             "serve.addr",
}

// optionalFlags are only loaded when set on the command line; otherwise the
// runtime picks its own default.
var optionalFlags = map[string]bool{
	"debug":       true,
	"reset":       true,
	"body":        true,
	"clear-cache": true,
}

var sections = map[string]bool{"build": true, "runtime": true, "serve": true}

// addSiteFlags registers the flags shared by build, watch and serve.
func addSiteFlags(f *pflag.FlagSet) {
	f.String("root", ".", "Directory pages are discovered in")
	f.String("out-dir", "dist", "Output directory for rewritten pages and stylesheets")
	f.StringSlice("include", nil, "Glob patterns for pages to include (default **/*.html)")
	f.StringSlice("exclude", nil, "Glob patterns for pages to skip")
	f.Bool("debug", false, "Debug mode (default: on for ports above 2000)")
	f.Bool("reset", true, "Install the reset stylesheet")
	f.Bool("body", false, "Track the breakpoint as a class on body")
	f.Bool("clear-cache", true, "Forget generated tokens on init")
	f.Int("viewport-width", 1280, "Viewport width in CSS pixels")
	f.Int("viewport-height", 800, "Viewport height in CSS pixels")
	f.Bool("size-observer", true, "Use size observation instead of resize events")
	f.Duration("debounce", 100*time.Millisecond, "Quiet window before the breakpoint is re-evaluated")
	f.Int("mobile-max-width", 768, "Fallback mobile threshold when no breakpoint matches")
	f.Bool("important", false, "Emit every declaration with !important")
}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".livecss.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// CLI flags: explicitly set flags always win; defaults only fill keys
	// no other provider set.
	fs := cmd.Flags()
	provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed && optionalFlags[f.Name] {
			return "", nil
		}
		return flagKey(f.Name), posflag.FlagVal(fs, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}
	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}
	return nil
}

func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return name
}

// envKey maps environment variables to config keys:
//
//	LIVECSS_BUILD_OUT_DIR -> build.out-dir
//	LIVECSS_RUNTIME_DEBUG -> runtime.debug
//	LIVECSS_LOG_LEVEL     -> log-level
func envKey(s string) string {
	name := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if section, rest, ok := strings.Cut(name, "_"); ok && sections[section] {
		return section + "." + strings.ReplaceAll(rest, "_", "-")
	}
	return strings.ReplaceAll(name, "_", "-")
}

// buildLogger creates the CLI logger from log-level and log-format.
func buildLogger() *slog.Logger {
	return logging.New(
		logging.ParseLevel(getStringWithFallback("log-level", "warn")),
		getStringWithFallback("log-format", "text"),
	)
}

// buildRuntimeStore builds the shared runtime configuration from the
// breakpoints list and the runtime section.
func buildRuntimeStore() (*config.Store, error) {
	raw := map[string]any{}
	if k.Exists("breakpoints") {
		raw["breakpoints"] = k.Get("breakpoints")
	}
	for _, key := range []string{"debounce", "mobile-max-width", "important"} {
		if k.Exists("runtime." + key) {
			raw[key] = k.Get("runtime." + key)
		}
	}

	store := config.NewStore(config.Default())
	if len(raw) == 0 {
		return store, nil
	}
	patch, err := config.DecodePatch(raw)
	if err != nil {
		return nil, fmt.Errorf("runtime config: %w", err)
	}
	if err := store.Merge(patch); err != nil {
		return nil, fmt.Errorf("runtime config: %w", err)
	}
	return store, nil
}

// buildSiteConfig constructs the library's BuildConfig from koanf state.
func buildSiteConfig(logger *slog.Logger, m *metrics.Metrics) (livecss.BuildConfig, error) {
	store, err := buildRuntimeStore()
	if err != nil {
		return livecss.BuildConfig{}, err
	}

	return livecss.BuildConfig{
		Root:     getStringWithFallback("build.root", "."),
		Includes: getStringsWithFallback("build.include", []string{"**/*.html"}),
		Excludes: getStringsWithFallback("build.exclude", nil),
		OutDir:   getStringWithFallback("build.out-dir", "dist"),
		Init: livecss.InitOptions{
			Debug:      getOptionalBool("runtime.debug"),
			Reset:      getOptionalBool("runtime.reset"),
			Body:       getOptionalBool("runtime.body"),
			ClearCache: getOptionalBool("runtime.clear-cache"),
		},
		ViewportWidth:  getIntWithFallback("runtime.viewport-width", 1280),
		ViewportHeight: getIntWithFallback("runtime.viewport-height", 800),
		SizeObserver:   getBoolWithFallback("runtime.size-observer", true),
		Shortcuts:      k.StringMap("shortcuts"),
		Config:         store,
		Logger:         logger,
		Metrics:        m,
	}, nil
}

// getStringWithFallback returns the value at key, or the default when unset or empty.
func getStringWithFallback(key, defaultVal string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback returns the value at key, or the default when unset.
func getBoolWithFallback(key string, defaultVal bool) bool {
	if k.Exists(key) {
		return k.Bool(key)
	}
	return defaultVal
}

// getIntWithFallback returns the value at key, or the default when unset.
func getIntWithFallback(key string, defaultVal int) int {
	if k.Exists(key) {
		return k.Int(key)
	}
	return defaultVal
}

// getStringsWithFallback returns the list at key, or the default when unset or empty.
func getStringsWithFallback(key string, defaultVal []string) []string {
	if v := k.Strings(key); len(v) > 0 {
		return v
	}
	return defaultVal
}

// getOptionalBool returns nil when key is unset.
func getOptionalBool(key string) *bool {
	if !k.Exists(key) {
		return nil
	}
	return livecss.Bool(k.Bool(key))
}
