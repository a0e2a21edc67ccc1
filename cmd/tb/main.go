package main

import (
	"context"
	"fmt"
	"os"

	"tb-go/internal/app"
	"tb-go/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a TBApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "CreateProject", "Generate").
func newApp(ctx context.Context, operation string) (*app.TBApp, error) {
	cfg, _, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewTBApp(ctx, cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func readConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults.ConfigPath, nil
}

var rootCmd = &cobra.Command{
	Use:          "tb",
	Short:        "Training course builder",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := defaults.Config()

		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		created, err := app.SetupSealing(cfg.Sealing)
		if err != nil {
			return fmt.Errorf("failed to set up key sealing: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		if created {
			fmt.Printf("Identity: %s\n", cfg.Sealing.IdentityPath)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Base Dir:      %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:       %s\n", cfg.LogDir)
		fmt.Printf("Log Level:     %s\n", cfg.LogLevel)
		fmt.Printf("Store:         %s\n", describeStore(cfg.Store))
		fmt.Printf("Sealing:       %s\n", cfg.Sealing.Type)
		fmt.Printf("Tick Interval: %s\n", cfg.Generation.TickInterval)
		fmt.Printf("Quiet Period:  %s\n", cfg.AutoSave.QuietPeriod)
		return nil
	},
}

func describeStore(s config.StoreConfig) string {
	switch s.Type {
	case "sqlite":
		return "sqlite " + s.DBPath
	case "filesystem":
		return "filesystem " + s.Dir
	case "s3":
		return fmt.Sprintf("s3 s3://%s/%s", s.S3Bucket, s.S3Prefix)
	default:
		return s.Type
	}
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(generateCmd)
}
