// Package config loads projdump configuration from global and local YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/projdump/internal/filter"
	"github.com/temirov/projdump/internal/report"
	"github.com/temirov/projdump/internal/utils"
)

const defaultTokenModel = "gpt-4o"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	HomeDirectory    string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the configuration file. Unset fields stay nil or empty so
// that later sources only override what they actually set.
type ApplicationConfiguration struct {
	Root         string             `mapstructure:"root" yaml:"root,omitempty"`
	Output       string             `mapstructure:"output" yaml:"output,omitempty"`
	IncludeDirs  []string           `mapstructure:"include_dirs" yaml:"include_dirs,omitempty"`
	IgnoreFiles  []string           `mapstructure:"ignore_files" yaml:"ignore_files,omitempty"`
	IgnoreDirs   []string           `mapstructure:"ignore_dirs" yaml:"ignore_dirs,omitempty"`
	IDEPrefix    *string            `mapstructure:"ide_prefix" yaml:"ide_prefix,omitempty"`
	PreviewLimit *int               `mapstructure:"preview_limit" yaml:"preview_limit,omitempty"`
	Tokens       TokenConfiguration `mapstructure:"tokens" yaml:"tokens,omitempty"`
	Clipboard    *bool              `mapstructure:"clipboard" yaml:"clipboard,omitempty"`
}

// TokenConfiguration controls token counting of the written report.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Model   string `mapstructure:"model" yaml:"model,omitempty"`
}

// Settings is the fully resolved configuration of one run.
type Settings struct {
	Root          string
	Output        string
	Rules         filter.Rules
	PreviewLimit  int
	TokensEnabled bool
	TokenModel    string
	Clipboard     bool
}

// DefaultConfiguration returns the built-in defaults with every field set.
func DefaultConfiguration() ApplicationConfiguration {
	rules := filter.DefaultRules()
	idePrefix := rules.IDEPrefix
	previewLimit := report.DefaultPreviewLimit
	tokensEnabled := false
	clipboardEnabled := false
	return ApplicationConfiguration{
		Root:         ".",
		Output:       report.DefaultOutputPath,
		IncludeDirs:  rules.IncludeDirs,
		IgnoreFiles:  rules.IgnoreFiles,
		IgnoreDirs:   rules.IgnoreDirs,
		IDEPrefix:    &idePrefix,
		PreviewLimit: &previewLimit,
		Tokens:       TokenConfiguration{Enabled: &tokensEnabled, Model: defaultTokenModel},
		Clipboard:    &clipboardEnabled,
	}
}

// LoadApplicationConfiguration merges the defaults, the global file and the local or explicit file,
// in that order. Missing files are skipped.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	merged := DefaultConfiguration()

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

// loadConfigurationFromPath reads one file. A missing file yields an empty configuration unless required.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Non-empty lists replace, they are not appended.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Root != "" {
		result.Root = override.Root
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if len(override.IncludeDirs) > 0 {
		result.IncludeDirs = utils.DeduplicatePatterns(override.IncludeDirs)
	}
	if len(override.IgnoreFiles) > 0 {
		result.IgnoreFiles = utils.DeduplicatePatterns(override.IgnoreFiles)
	}
	if len(override.IgnoreDirs) > 0 {
		result.IgnoreDirs = utils.DeduplicatePatterns(override.IgnoreDirs)
	}
	if override.IDEPrefix != nil {
		result.IDEPrefix = cloneString(override.IDEPrefix)
	}
	if override.PreviewLimit != nil {
		result.PreviewLimit = cloneInt(override.PreviewLimit)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// Settings resolves the configuration into concrete run settings, falling back to defaults for unset fields.
func (config ApplicationConfiguration) Settings() (Settings, error) {
	resolved := DefaultConfiguration().Merge(config)
	if *resolved.PreviewLimit <= 0 {
		return Settings{}, fmt.Errorf("preview_limit must be positive, got %d", *resolved.PreviewLimit)
	}
	rules := filter.Rules{
		IncludeDirs: resolved.IncludeDirs,
		IgnoreFiles: resolved.IgnoreFiles,
		IgnoreDirs:  resolved.IgnoreDirs,
		IDEPrefix:   *resolved.IDEPrefix,
	}.Normalized()
	return Settings{
		Root:          resolved.Root,
		Output:        resolved.Output,
		Rules:         rules,
		PreviewLimit:  *resolved.PreviewLimit,
		TokensEnabled: *resolved.Tokens.Enabled,
		TokenModel:    resolved.Tokens.Model,
		Clipboard:     *resolved.Clipboard,
	}, nil
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
