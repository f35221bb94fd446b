package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dirpack/core/config"
	"dirpack/core/ignore"
	"dirpack/core/logger"
	"dirpack/core/tree"
	"dirpack/feature/packager"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	packOutput  string
	packConfig  string
	packVerbose bool
)

// packCmd scans a directory tree and writes the packaged document.
var packCmd = &cobra.Command{
	Use:   "pack <root-directory>",
	Short: "Package a directory tree into a JSON document",
	Long: `Scan a directory tree, applying the configured ignore rules and content
capture policy, and write the result as a single JSON document.

By default the document is written to outputs/<name>_<timestamp>.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runPack,
}

func init() {
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "Output document path (default: outputs/<name>_<timestamp>.json)")
	packCmd.Flags().StringVarP(&packConfig, "config", "c", "config.json", "Policy file path")
	packCmd.Flags().BoolVarP(&packVerbose, "verbose", "v", false, "Enable verbose output")

	RootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	// 1. Load Configuration
	cfg, err := config.Load(packConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if packVerbose {
		cfg.Log.Level = "debug"
	}

	// 2. Initialize Logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	l.Info("Scanning directory", zap.String("root", args[0]), zap.String("config", packConfig))

	// 3. Scan
	p := packager.New(cfg, ignore.NewMatcher(cfg.IgnoreRules()), l)
	root, err := p.Scan(args[0])
	if err != nil {
		return err
	}

	// 4. Resolve the output path and write the document
	outputPath := packOutput
	if outputPath == "" {
		outputPath = defaultPackOutput(root.Name, time.Now())
	} else {
		outputPath = resolveOutputPath(outputPath, "outputs")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := tree.Save(outputPath, root); err != nil {
		return err
	}

	stats := p.Stats()
	fields := []zap.Field{
		zap.String("output", outputPath),
		zap.Int("directories", stats.Directories),
		zap.Int("files", stats.Files),
		zap.Int("ignored", stats.Ignored),
	}
	if info, statErr := os.Stat(outputPath); statErr == nil {
		fields = append(fields, zap.String("size", humanize.Bytes(uint64(info.Size()))))
	}
	l.Info("Successfully generated packaged document", fields...)
	return nil
}
