package cmd

import (
	"fmt"

	"dirpack/core/config"
	"dirpack/core/ignore"
	"dirpack/core/logger"
	"dirpack/feature/validator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	validateConfig  string
	validateReport  string
	validateVerbose bool
)

// validateCmd compares an extracted tree against the original directory.
var validateCmd = &cobra.Command{
	Use:   "validate <original-directory> <extracted-directory>",
	Short: "Validate that an extracted tree matches the original",
	Long: `Re-scan both directories through the packaging ignore rules and compare
them entry by entry. Binary-likely files are allowed a small size
tolerance to absorb drift from the capture transform; text files must
match exactly.

The command exits non-zero when validation fails.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfig, "config", "c", "config.json", "Policy file path")
	validateCmd.Flags().StringVar(&validateReport, "report", "", "Save the detailed JSON report to this path")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Enable verbose output")

	RootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	// 1. Load Configuration
	cfg, err := config.Load(validateConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if validateVerbose {
		cfg.Log.Level = "debug"
	}

	// 2. Initialize Logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	l.Info("Starting validation",
		zap.String("original", args[0]),
		zap.String("extracted", args[1]),
	)

	// 3. Compare both trees under the packaging ignore rules
	v := validator.New(ignore.NewMatcher(cfg.IgnoreRules()), l, validator.Options{})
	report, err := v.Validate(args[0], args[1])
	if err != nil {
		return err
	}

	// 4. Report
	report.LogSummary(l)

	if validateReport != "" {
		if err := report.Save(validateReport); err != nil {
			return err
		}
		l.Info("Report saved", zap.String("path", validateReport))
	}

	// Exit status reflects pass/fail.
	if !report.ValidationPassed {
		return fmt.Errorf("validation failed: %d errors, %d warnings", len(report.Errors), len(report.Warnings))
	}
	return nil
}
