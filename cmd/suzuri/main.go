package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/Hanaasagi/suzuri/cmd"
	"github.com/Hanaasagi/suzuri/internal/logger"
	"github.com/Hanaasagi/suzuri/pkg/gitstate"
	"github.com/Hanaasagi/suzuri/pkg/promptexpand"
	"github.com/adrg/xdg"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const appName = "suzuri"

var (
	Version     = "0.1.0"
	CommitSha   = "unknown"
	FullVersion = Version + "-" + CommitSha
)

var appDir = filepath.Join(xdg.StateHome, appName)

func init() {
	// Initialize logging
	if err := os.MkdirAll(appDir, 0755); err != nil {
		panic(fmt.Sprintf("Error creating log directory: %v", err))
	}

	logFilePath := filepath.Join(appDir, appName+".log")
	logger.InitLogger(logFilePath, "info")

	// Initialize crash reporting
	crashFilePath := filepath.Join(appDir, "crash")
	if f, err := os.Create(crashFilePath); err == nil {
		_ = debug.SetCrashOutput(f, debug.CrashOptions{})
	}
}

// AppConfig holds application configuration
type AppConfig struct {
	sep         string
	null        bool
	fit         bool
	configFile  string
	showVersion bool
}

func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// expandAll evaluates every template against one shared state cache so
// repeated codes trigger a single repository query each.
func expandAll(templates []string, info promptexpand.Info) []string {
	expanded := make([]string, 0, len(templates))
	for _, template := range templates {
		expanded = append(expanded, promptexpand.Expand(template, info))
	}
	return expanded
}

// fitToTerminal clamps each expanded line to the terminal width.
func fitToTerminal(lines []string) []string {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return lines
	}
	fitted := make([]string, 0, len(lines))
	for _, line := range lines {
		fitted = append(fitted, runewidth.Truncate(line, width, ""))
	}
	return fitted
}

// runApp runs the main application logic
func runApp(c *cobra.Command, config *AppConfig, templates []string) error {
	if config.showVersion {
		fmt.Printf("%s version: %s\n", appName, FullVersion)
		return nil
	}

	configPath := config.configFile
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	fileConfig, err := LoadConfigFromFile(configPath)
	if err != nil {
		return err
	}
	if fileConfig.Core.LogLevel != "info" {
		logger.InitLogger(filepath.Join(appDir, appName+".log"), fileConfig.Core.LogLevel)
	}

	sep := fileConfig.Core.Separator
	if c.Flags().Changed("sep") {
		sep = config.sep
	}
	if config.null || fileConfig.Core.Null {
		sep = "\x00"
	}
	fit := config.fit || fileConfig.Core.Fit

	if len(templates) == 0 {
		templates = fileConfig.Prompts.Templates
	}
	if len(templates) == 0 {
		return nil
	}

	cache := gitstate.NewCache(gitstate.NewState("."))
	expanded := expandAll(templates, cache)
	if fit {
		expanded = fitToTerminal(expanded)
	}

	slog.Debug("expanded templates", "count", len(expanded))

	if _, err := os.Stdout.WriteString(strings.Join(expanded, sep)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func main() {
	debug.SetGCPercent(-1)

	config := &AppConfig{}

	rootCmd := &cobra.Command{
		Use:   appName + " [templates...]",
		Short: "Pre-expand zsh prompts with git repository state",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Pre-expands an extended zsh prompt dialect with git repository state. %s",
			color.New(color.FgBlue).Sprintf("(%s)", FullVersion),
		),
		Example: `  suzuri '%(G. %r%1(p.^%p.).)'
  suzuri -0 '%(y.*.)' '%/{:~:$HOME}'`,
		Args: cobra.ArbitraryArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runApp(c, config, args)
		},
	}

	rootCmd.Flags().StringVarP(&config.sep, "sep", "s", "\n", "Separator printed between expanded templates")
	rootCmd.Flags().BoolVarP(&config.null, "null", "0", false, "Use the NUL character as separator")
	rootCmd.Flags().BoolVar(&config.fit, "fit", false, "Truncate expanded output to the terminal width")
	rootCmd.Flags().StringVarP(&config.configFile, "config", "c", "", "Path to the config file")
	rootCmd.Flags().BoolVarP(&config.showVersion, "version", "v", false, "Print version and exit")

	rootCmd.SetHelpTemplate(cmd.HelpTemplate)
	rootCmd.SetUsageFunc(func(c *cobra.Command) error {
		return cmd.ColorUsageFunc(c.OutOrStderr(), c)
	})

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Error executing command", "error", err)
		os.Exit(1)
	}
}
