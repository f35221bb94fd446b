package config

import (
	"fmt"
	"os"
	"strings"

	"dirpack/core/ignore"
	"dirpack/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the packaging policy and ambient settings.
// The same policy drives the packager's scan and the validator's
// re-scan, so both sides of a comparison see the same tree.
type Config struct {
	// CaptureContents globally enables or disables content capture.
	CaptureContents bool `mapstructure:"capture_contents"`

	// MaxContentSize is the ceiling in bytes above which file content
	// is not captured.
	MaxContentSize int64 `mapstructure:"max_content_size"`

	// CaptureExtensions, when non-empty, is a whitelist: only files
	// with these extensions get content captured.
	CaptureExtensions []string `mapstructure:"capture_extensions"`

	// NoCaptureExtensions is a blacklist: these extensions never get
	// content captured, even under the whitelist.
	NoCaptureExtensions []string `mapstructure:"no_capture_extensions"`

	// IgnoreExtensions excludes files with these suffixes from the
	// tree entirely.
	IgnoreExtensions []string `mapstructure:"ignore_extensions"`

	// IgnoreFilePatterns excludes files matching these glob patterns.
	IgnoreFilePatterns []string `mapstructure:"ignore_file_patterns"`

	// IgnoreFolderPatterns excludes directories matching these glob
	// patterns.
	IgnoreFolderPatterns []string `mapstructure:"ignore_folder_patterns"`

	// IgnorePaths excludes entries whose relative path or name
	// matches exactly.
	IgnorePaths []string `mapstructure:"ignore_paths"`

	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// Default returns the built-in packaging policy.
func Default() Config {
	return Config{
		CaptureContents: true,
		MaxContentSize:  10 * 1024 * 1024,
		NoCaptureExtensions: []string{
			".exe", ".dll", ".so", ".dylib", ".bin", ".img", ".iso",
			".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz",
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
			".mp3", ".mp4", ".avi", ".mkv", ".wav", ".flac",
			".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp", ".ico",
		},
		IgnoreExtensions: []string{
			".pyc", ".pyo", ".pyd", ".so", ".dll", ".dylib", ".o", ".obj",
			".exe", ".bin", ".log", ".tmp", ".temp", ".cache", ".bak",
			".swp", ".swo", "~", ".DS_Store", "Thumbs.db",
		},
		IgnoreFilePatterns: []string{
			"*.tmp", "*.temp", "*.log", "*.cache", "*.bak", ".*", "#*#", "*~",
		},
		IgnoreFolderPatterns: []string{
			"__pycache__", "*.egg-info", ".git", ".svn", ".hg", ".bzr", "CVS",
			".vscode", ".idea", "node_modules", "venv", "env", ".env",
			"virtualenv", ".venv", "build", "dist", "target", "bin", "obj",
			".pytest_cache", ".coverage", ".tox", ".mypy_cache", "outputs",
		},
		IgnorePaths: []string{
			".gitignore", ".gitattributes", "LICENSE",
		},
		Log: logger.Config{Level: "info", Format: "console"},
	}
}

// Load reads the policy file at path, merging it over the defaults. When
// the file does not exist, the default policy is written there and
// returned. Environment variables prefixed DIRPACK_ (optionally from a
// .env file) override individual keys. A malformed policy file is a
// fatal configuration error.
func Load(path string) (*Config, error) {
	// Load .env file if it exists; ignore the error when it doesn't.
	_ = godotenv.Overload(".env")

	v := viper.New()
	bindDefaults(v, Default())

	v.SetConfigFile(path)
	v.SetConfigType("json")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("failed to create default config %s: %w", path, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	// Map environment variables to nested keys (e.g. DIRPACK_LOG_LEVEL -> log.level)
	v.SetEnvPrefix("dirpack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &config, nil
}

// IgnoreRules converts the policy's exclusion lists into matcher rules.
func (c *Config) IgnoreRules() ignore.Rules {
	return ignore.Rules{
		Extensions:     c.IgnoreExtensions,
		FilePatterns:   c.IgnoreFilePatterns,
		FolderPatterns: c.IgnoreFolderPatterns,
		Paths:          c.IgnorePaths,
	}
}

func (c *Config) validate() error {
	if c.MaxContentSize <= 0 {
		return fmt.Errorf("max_content_size must be a positive integer, got %d", c.MaxContentSize)
	}
	return nil
}

// bindDefaults registers every policy key in Viper with its default value
// so file values merge over them and AutomaticEnv can see the keys.
func bindDefaults(v *viper.Viper, def Config) {
	v.SetDefault("capture_contents", def.CaptureContents)
	v.SetDefault("max_content_size", def.MaxContentSize)
	v.SetDefault("capture_extensions", def.CaptureExtensions)
	v.SetDefault("no_capture_extensions", def.NoCaptureExtensions)
	v.SetDefault("ignore_extensions", def.IgnoreExtensions)
	v.SetDefault("ignore_file_patterns", def.IgnoreFilePatterns)
	v.SetDefault("ignore_folder_patterns", def.IgnoreFolderPatterns)
	v.SetDefault("ignore_paths", def.IgnorePaths)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
}
