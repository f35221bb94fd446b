// Package config provides configuration management for dirpack.
//
// It utilizes Viper for loading the packaging policy from a JSON file
// (config.json by default), with environment variable overrides
// (DIRPACK_ prefix, optionally via a .env file).
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings:
//   - Capture policy: capture_contents, max_content_size,
//     capture_extensions (whitelist), no_capture_extensions (blacklist)
//   - Ignore rules: ignore_extensions, ignore_file_patterns,
//     ignore_folder_patterns, ignore_paths
//   - Log: logging level and format
//
// When the policy file does not exist, the default policy is written to
// it so the user has a starting point to edit. A malformed policy file
// aborts the operation at startup; no command runs with undefined policy.
//
// # Usage
//
//	cfg, err := config.Load("config.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	matcher := ignore.NewMatcher(cfg.IgnoreRules())
package config
