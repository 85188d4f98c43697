// Package config loads application configuration defaults from optional
// global and local configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/promptpack/promptpack/internal/utils"
)

// ConfigFileName is the file name of both the global and local
// configuration files. The global copy lives in the user's home directory.
const ConfigFileName = ".promptpack.yaml"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds run defaults. Pointer fields distinguish
// "unset" from an explicit false or zero so later layers can overlay them.
type ApplicationConfiguration struct {
	Format            string             `mapstructure:"format"`
	Depth             *int               `mapstructure:"depth"`
	UseGitignore      *bool              `mapstructure:"use_gitignore"`
	AutoExclude       *bool              `mapstructure:"auto_exclude"`
	ExcludeEmpty      *bool              `mapstructure:"exclude_empty"`
	IncludeExtensions []string           `mapstructure:"include_extensions"`
	ExcludeExtensions []string           `mapstructure:"exclude_extensions"`
	ForceInclude      []string           `mapstructure:"force_include"`
	MaxBytes          *int64             `mapstructure:"max_bytes"`
	MaxTokens         *int               `mapstructure:"max_tokens"`
	Workers           *int               `mapstructure:"workers"`
	Tree              *bool              `mapstructure:"tree"`
	TreeDepth         *int               `mapstructure:"tree_depth"`
	Dependencies      *bool              `mapstructure:"dependencies"`
	Group             *bool              `mapstructure:"group"`
	Compress          *bool              `mapstructure:"compress"`
	Summary           *bool              `mapstructure:"summary"`
	Tokens            TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls exact token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads and merges configuration from the
// global and local files. Missing files contribute nothing; unreadable or
// malformed files are configuration errors.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalConfiguration, loadError := loadConfigurationFromPath(filepath.Join(homeDirectory, ConfigFileName))
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath := options.ExplicitFilePath
	if localPath == "" {
		localPath = filepath.Join(workingDirectory, ConfigFileName)
	} else if !filepath.IsAbs(localPath) {
		localPath = filepath.Join(workingDirectory, localPath)
	}
	localConfiguration, loadError := loadConfigurationFromPath(localPath)
	if loadError != nil {
		return ApplicationConfiguration{}, loadError
	}
	merged = merged.Merge(localConfiguration)

	merged.IncludeExtensions = utils.NormalizeExtensionTokens(merged.IncludeExtensions)
	merged.ExcludeExtensions = utils.NormalizeExtensionTokens(merged.ExcludeExtensions)
	merged.ForceInclude = utils.DeduplicateStrings(merged.ForceInclude)

	return merged, nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	information, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if information.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined
// configuration. Set fields in the override win; unset pointer fields leave
// the receiver's values in place.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	if override.Format != "" {
		result.Format = override.Format
	}
	result.Depth = mergeInt(result.Depth, override.Depth)
	result.UseGitignore = mergeBool(result.UseGitignore, override.UseGitignore)
	result.AutoExclude = mergeBool(result.AutoExclude, override.AutoExclude)
	result.ExcludeEmpty = mergeBool(result.ExcludeEmpty, override.ExcludeEmpty)
	if len(override.IncludeExtensions) > 0 {
		result.IncludeExtensions = append([]string{}, override.IncludeExtensions...)
	}
	if len(override.ExcludeExtensions) > 0 {
		result.ExcludeExtensions = append([]string{}, override.ExcludeExtensions...)
	}
	if len(override.ForceInclude) > 0 {
		result.ForceInclude = append([]string{}, override.ForceInclude...)
	}
	result.MaxBytes = mergeInt64(result.MaxBytes, override.MaxBytes)
	result.MaxTokens = mergeInt(result.MaxTokens, override.MaxTokens)
	result.Workers = mergeInt(result.Workers, override.Workers)
	result.Tree = mergeBool(result.Tree, override.Tree)
	result.TreeDepth = mergeInt(result.TreeDepth, override.TreeDepth)
	result.Dependencies = mergeBool(result.Dependencies, override.Dependencies)
	result.Group = mergeBool(result.Group, override.Group)
	result.Compress = mergeBool(result.Compress, override.Compress)
	result.Summary = mergeBool(result.Summary, override.Summary)
	result.Tokens.Enabled = mergeBool(result.Tokens.Enabled, override.Tokens.Enabled)
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	return result
}

func mergeBool(current *bool, override *bool) *bool {
	if override == nil {
		return current
	}
	cloned := *override
	return &cloned
}

func mergeInt(current *int, override *int) *int {
	if override == nil {
		return current
	}
	cloned := *override
	return &cloned
}

func mergeInt64(current *int64, override *int64) *int64 {
	if override == nil {
		return current
	}
	cloned := *override
	return &cloned
}
