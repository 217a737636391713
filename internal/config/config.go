// Package config provides application configuration with support for
// environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Library LibraryConfig
	Media   MediaConfig
	Data    DataConfig
	Cache   CacheConfig
	Server  ServerConfig
	VRChat  VRChatConfig
	Watcher WatcherConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// LibraryConfig holds the source tree configuration.
type LibraryConfig struct {
	// ScanRoot contains one directory per world, named by world ID.
	ScanRoot string
}

// MediaConfig holds rendition output configuration.
type MediaConfig struct {
	ThumbRoot    string // Root for thumbnail renditions, mirrored by world ID
	ViewRoot     string // Root for view renditions, mirrored by world ID
	ThumbQuality int    // JPEG quality for thumbnails, 1-100 (default: 15)
	ViewQuality  int    // JPEG quality for view renditions, 1-100 (default: 95)
	Workers      int    // Conversion worker count (default: 1)
}

// DataConfig holds catalog database configuration.
type DataConfig struct {
	// BasePath is the directory for the badger database.
	BasePath string
}

// CacheConfig holds freshness configuration.
type CacheConfig struct {
	MetadataTTL  time.Duration // World metadata freshness window (default: 24h)
	ScanInterval time.Duration // Periodic scan cadence (default: 1m)
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// VRChatConfig holds remote metadata API configuration.
type VRChatConfig struct {
	BaseURL   string
	UserAgent string
}

// WatcherConfig holds filesystem watcher configuration.
type WatcherConfig struct {
	Enabled  bool
	Debounce time.Duration
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. .env file.
// 4. Defaults.
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	scanRoot := flag.String("scan-root", "", "Path to the worlds source tree")
	thumbRoot := flag.String("thumb-root", "", "Output root for thumbnail renditions")
	viewRoot := flag.String("view-root", "", "Output root for view renditions")
	dataPath := flag.String("data-path", "", "Directory for the catalog database")
	thumbQuality := flag.String("thumb-quality", "", "Thumbnail JPEG quality 1-100 (default: 15)")
	viewQuality := flag.String("view-quality", "", "View JPEG quality 1-100 (default: 95)")
	convertWorkers := flag.String("convert-workers", "", "Conversion worker count (default: 1)")
	metadataTTL := flag.String("metadata-ttl", "", "Metadata freshness window (default: 24h)")
	scanInterval := flag.String("scan-interval", "", "Periodic scan cadence (default: 1m)")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	watchEnabled := flag.String("watch", "", "Watch the scan root for changes (default: true)")
	watchDebounce := flag.String("watch-debounce", "", "Watcher debounce window (default: 2s)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env if present; env vars already set take precedence.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Library: LibraryConfig{
			ScanRoot: getConfigValue(*scanRoot, "SCAN_ROOT", ""),
		},
		Media: MediaConfig{
			ThumbRoot:    getConfigValue(*thumbRoot, "THUMB_ROOT", ""),
			ViewRoot:     getConfigValue(*viewRoot, "VIEW_ROOT", ""),
			ThumbQuality: getIntConfigValue(*thumbQuality, "THUMB_QUALITY", 15),
			ViewQuality:  getIntConfigValue(*viewQuality, "VIEW_QUALITY", 95),
			Workers:      getIntConfigValue(*convertWorkers, "CONVERT_WORKERS", 1),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		VRChat: VRChatConfig{
			BaseURL:   getConfigValue("", "VRCHAT_API_BASE_URL", "https://api.vrchat.cloud/api/1"),
			UserAgent: getConfigValue("", "VRCHAT_USER_AGENT", "worlds-album/1.0"),
		},
		Watcher: WatcherConfig{
			Enabled: getBoolConfigValue(*watchEnabled, "WATCH_SCAN_ROOT", true),
		},
	}

	var err error
	if cfg.Cache.MetadataTTL, err = parseDurationValue(*metadataTTL, "METADATA_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.Cache.ScanInterval, err = parseDurationValue(*scanInterval, "SCAN_INTERVAL", "1m"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Watcher.Debounce, err = parseDurationValue(*watchDebounce, "WATCH_DEBOUNCE", "2s"); err != nil {
		return nil, err
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Library.ScanRoot == "" {
		return errors.New("scan root cannot be empty after expansion")
	}
	if c.Media.ThumbRoot == "" || c.Media.ViewRoot == "" {
		return errors.New("rendition output roots cannot be empty after expansion")
	}
	if c.Data.BasePath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Media.Workers < 1 {
		return fmt.Errorf("convert workers must be at least 1, got %d", c.Media.Workers)
	}
	if c.Cache.MetadataTTL <= 0 {
		return fmt.Errorf("metadata TTL must be positive, got %s", c.Cache.MetadataTTL)
	}
	if c.Cache.ScanInterval <= 0 {
		return fmt.Errorf("scan interval must be positive, got %s", c.Cache.ScanInterval)
	}

	return nil
}

// expandPaths expands ~ and relative paths, applying defaults relative to the
// working directory where unset.
func (c *Config) expandPaths() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	paths := []struct {
		target      *string
		defaultPath string
	}{
		{&c.Library.ScanRoot, filepath.Join(cwd, "static", "worlds")},
		{&c.Media.ThumbRoot, filepath.Join(cwd, "static", "thumb")},
		{&c.Media.ViewRoot, filepath.Join(cwd, "static", "view")},
		{&c.Data.BasePath, filepath.Join(cwd, "data")},
	}

	for _, p := range paths {
		expanded, err := expandPath(*p.target, p.defaultPath)
		if err != nil {
			return err
		}
		*p.target = expanded
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, the default is used.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts "true", "1", "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// parseDurationValue resolves a duration from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(strings.ReplaceAll(envKey, "_", " ")), strValue, err)
	}
	return d, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value, one per line, # for comments.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- config file path comes from the operator
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
