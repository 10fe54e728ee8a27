package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file locations that override the platform defaults.
type Paths struct {
	StorageFile string `toml:"storage_file"`
}

// Feeds contains settings for RSS feed requests.
type Feeds struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Downloads contains settings for episode audio downloads.
type Downloads struct {
	// TimeoutSeconds bounds a single enclosure download. Zero disables the limit.
	TimeoutSeconds int  `toml:"timeout_seconds"`
	Progress       bool `toml:"progress"`
}

// Storage contains settings for the subscription storage file.
type Storage struct {
	LockTimeoutSeconds int `toml:"lock_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for podclaw.
//
// Configuration sections:
//   - Paths: storage file override
//   - Feeds: feed request user agent and timeout
//   - Downloads: enclosure download timeout and progress display
//   - Storage: storage lock behaviour
//   - Logging: log format, level, and destination
type Config struct {
	Paths     Paths     `toml:"paths"`
	Feeds     Feeds     `toml:"feeds"`
	Downloads Downloads `toml:"downloads"`
	Storage   Storage   `toml:"storage"`
	Logging   Logging   `toml:"logging"`

	// storageFallback records that the platform config directory could not be
	// resolved and the storage file lives in the working directory.
	storageFallback bool
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		// Without a config directory only the project file can apply.
		if info, statErr := os.Stat(projectPath); statErr == nil && !info.IsDir() {
			return projectPath, true, nil
		}
		return projectPath, false, nil
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// StoragePath returns the resolved location of the subscription storage file.
func (c *Config) StoragePath() string {
	return c.Paths.StorageFile
}

// StorageFallback reports whether the storage file was placed in the working
// directory because no platform config directory could be resolved.
func (c *Config) StorageFallback() bool {
	return c.storageFallback
}

// FeedTimeout returns the per-request timeout for feed fetches.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.Feeds.TimeoutSeconds) * time.Second
}

// DownloadTimeout returns the per-request timeout for enclosure downloads.
// Zero means no limit.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.Downloads.TimeoutSeconds) * time.Second
}

// LockTimeout returns how long to wait for the storage lock.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Storage.LockTimeoutSeconds) * time.Second
}

// EnsureDirectories creates the directories podclaw writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.StorageFile)}
	if file := c.Logging.File; file != "" && file != "stdout" && file != "stderr" {
		dirs = append(dirs, filepath.Dir(file))
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// DefaultStoragePath returns the platform storage location. When the user
// config directory cannot be resolved the file falls back to the working
// directory and fallback is true.
func DefaultStoragePath() (path string, fallback bool) {
	dir, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(dir) == "" {
		return storageFileName, true
	}
	return filepath.Join(dir, appDirName, storageFileName), false
}

func defaultLogFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(dir) == "" {
		return "stderr"
	}
	return filepath.Join(dir, appDirName, logFileName)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
