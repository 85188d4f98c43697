// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptpack/promptpack/internal/budget"
	"github.com/promptpack/promptpack/internal/config"
	"github.com/promptpack/promptpack/internal/extract"
	"github.com/promptpack/promptpack/internal/load"
	"github.com/promptpack/promptpack/internal/render"
	"github.com/promptpack/promptpack/internal/resolve"
	"github.com/promptpack/promptpack/internal/sink"
	"github.com/promptpack/promptpack/internal/token"
	"github.com/promptpack/promptpack/internal/types"
	"github.com/promptpack/promptpack/internal/utils"
)

const (
	rootUse              = "promptpack [paths...]"
	rootShortDescription = "pack directory trees into a single prompt-ready artifact"
	rootLongDescription  = `promptpack discovers files under configurable inclusion and exclusion rules,
normalizes their text content, enforces cumulative size budgets, and renders
the result in a chosen layout. The artifact lands on the clipboard by default
or in one or more files with --output.`
	rootUsageExample = `  # Pack the current directory onto the clipboard
  promptpack

  # Markdown layout with a directory tree, written to a file
  promptpack --format markdown --tree -o context.md ./src

  # Rescue log files that .gitignore would drop
  promptpack --force-include '*.log' .`

	depthFlagName         = "depth"
	noGitignoreFlagName   = "no-gitignore"
	includeExtFlagName    = "include-ext"
	excludeExtFlagName    = "exclude-ext"
	forceIncludeFlagName  = "force-include"
	noAutoExcludeFlagName = "no-auto-exclude"
	excludeEmptyFlagName  = "exclude-empty"
	maxBytesFlagName      = "max-bytes"
	maxTokensFlagName     = "max-tokens"
	formatFlagName        = "format"
	treeFlagName          = "tree"
	treeDepthFlagName     = "tree-depth"
	dependenciesFlagName  = "deps"
	groupFlagName         = "group"
	compressFlagName      = "compress"
	outputFlagName        = "output"
	appendFlagName        = "append"
	chunkSizeFlagName     = "chunk-size"
	workersFlagName       = "workers"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	summaryFlagName       = "summary"
	configFileFlagName    = "config"
	versionFlagName       = "version"

	depthFlagDescription         = "maximum traversal depth, 0 means unlimited"
	noGitignoreFlagDescription   = "do not apply .gitignore rules"
	includeExtFlagDescription    = "only include files with these extensions"
	excludeExtFlagDescription    = "exclude files with these extensions"
	forceIncludeFlagDescription  = "glob pattern that re-includes otherwise ignored files"
	noAutoExcludeFlagDescription = "do not drop well-known build and VCS artifacts"
	excludeEmptyFlagDescription  = "skip files whose trimmed content is empty"
	maxBytesFlagDescription      = "cumulative byte budget for admitted files"
	maxTokensFlagDescription     = "cumulative estimated-token budget, 0 means unset"
	formatFlagDescription        = "output layout: plain, markdown, or json"
	treeFlagDescription          = "prepend a directory-structure section"
	treeDepthFlagDescription     = "depth of the directory-structure section, 0 selects the default"
	dependenciesFlagDescription  = "prepend a dependency-manifest section"
	groupFlagDescription         = "group files into named categories"
	compressFlagDescription      = "collapse redundant whitespace in file content"
	outputFlagDescription        = "write the artifact to a file instead of the clipboard"
	appendFlagDescription        = "append to the output file instead of overwriting"
	chunkSizeFlagDescription     = "split the artifact into chunks of this many bytes"
	workersFlagDescription       = "number of extraction workers, 0 selects GOMAXPROCS"
	tokensFlagDescription        = "report exact token counts instead of estimates"
	modelFlagDescription         = "tokenizer model used for exact token counting"
	summaryFlagDescription       = "print a run summary on stderr"
	configFileFlagDescription    = "path to a configuration file"
	versionFlagDescription       = "display application version"

	versionTemplate = "promptpack version: %s\n"
	defaultPath     = "."

	defaultMaxBytes       = 10 * 1024 * 1024
	defaultTokenizerModel = "gpt-4o"

	invalidFormatMessage    = "invalid format value '%s'"
	noFilesMatchedMessage   = "No files found matching the criteria."
	clipboardCopiedTemplate = "Copied content of %d file(s) to clipboard.\n"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorPathMissingFormat      = "path '%s' does not exist"
	errorStatFormat             = "stat failed for '%s': %w"
	errorNoValidPaths           = "no valid paths"
)

// isSupportedFormat reports whether the provided layout is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatPlain, types.FormatMarkdown, types.FormatJSON:
		return true
	default:
		return false
	}
}

// Execute runs the promptpack application.
func Execute() error {
	return createRootCommand().Execute()
}

// packOptions collects every flag value of the root command.
type packOptions struct {
	depth             int
	disableGitignore  bool
	includeExtensions []string
	excludeExtensions []string
	forceInclude      []string
	disableAutoExcl   bool
	excludeEmpty      bool
	maxBytes          int64
	maxTokens         int
	format            string
	includeTree       bool
	treeDepth         int
	includeManifests  bool
	groupByCategory   bool
	compress          bool
	outputPath        string
	appendOutput      bool
	chunkSize         int64
	workers           int
	tokensEnabled     bool
	model             string
	summaryEnabled    bool
	configFilePath    string
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var options packOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			return runPack(command, arguments, options)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	flags := rootCommand.Flags()
	flags.IntVar(&options.depth, depthFlagName, 0, depthFlagDescription)
	flags.BoolVar(&options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	flags.StringSliceVarP(&options.includeExtensions, includeExtFlagName, "i", nil, includeExtFlagDescription)
	flags.StringSliceVarP(&options.excludeExtensions, excludeExtFlagName, "x", nil, excludeExtFlagDescription)
	flags.StringArrayVar(&options.forceInclude, forceIncludeFlagName, nil, forceIncludeFlagDescription)
	flags.BoolVar(&options.disableAutoExcl, noAutoExcludeFlagName, false, noAutoExcludeFlagDescription)
	flags.BoolVar(&options.excludeEmpty, excludeEmptyFlagName, false, excludeEmptyFlagDescription)
	flags.Int64Var(&options.maxBytes, maxBytesFlagName, defaultMaxBytes, maxBytesFlagDescription)
	flags.IntVar(&options.maxTokens, maxTokensFlagName, 0, maxTokensFlagDescription)
	flags.StringVar(&options.format, formatFlagName, types.FormatPlain, formatFlagDescription)
	flags.BoolVar(&options.includeTree, treeFlagName, false, treeFlagDescription)
	flags.IntVar(&options.treeDepth, treeDepthFlagName, 0, treeDepthFlagDescription)
	flags.BoolVar(&options.includeManifests, dependenciesFlagName, false, dependenciesFlagDescription)
	flags.BoolVar(&options.groupByCategory, groupFlagName, false, groupFlagDescription)
	flags.BoolVar(&options.compress, compressFlagName, false, compressFlagDescription)
	flags.StringVarP(&options.outputPath, outputFlagName, "o", "", outputFlagDescription)
	flags.BoolVar(&options.appendOutput, appendFlagName, false, appendFlagDescription)
	flags.Int64Var(&options.chunkSize, chunkSizeFlagName, 0, chunkSizeFlagDescription)
	flags.IntVar(&options.workers, workersFlagName, 0, workersFlagDescription)
	flags.BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	flags.StringVar(&options.model, modelFlagName, defaultTokenizerModel, modelFlagDescription)
	flags.BoolVar(&options.summaryEnabled, summaryFlagName, true, summaryFlagDescription)
	flags.StringVar(&options.configFilePath, configFileFlagName, "", configFileFlagDescription)

	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runPack executes the full discovery, extraction, rendering, and delivery
// pipeline for one invocation.
func runPack(command *cobra.Command, arguments []string, options packOptions) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}
	applyConfigurationDefaults(command, &options, applicationConfiguration)

	layout := strings.ToLower(options.format)
	if !isSupportedFormat(layout) {
		return fmt.Errorf(invalidFormatMessage, layout)
	}

	logger, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		return fmt.Errorf("initialize logger: %w", loggerError)
	}
	defer func() { _ = logger.Sync() }()

	validatedPaths, pathValidationError := resolveAndValidatePaths(arguments)
	if pathValidationError != nil {
		return pathValidationError
	}

	filterConfiguration := resolve.Config{
		MaxDepth:          options.depth,
		UseGitignore:      !options.disableGitignore,
		OverridePatterns:  options.forceInclude,
		IncludeExtensions: utils.NormalizeExtensionTokens(options.includeExtensions),
		ExcludeExtensions: utils.NormalizeExtensionTokens(options.excludeExtensions),
		AutoExclude:       !options.disableAutoExcl,
	}

	candidates, resolveError := resolve.Resolve(validatedPaths, filterConfiguration, logger)
	if resolveError != nil {
		return resolveError
	}

	artifactSink, selfReferencePath, sinkError := buildSink(options)
	if sinkError != nil {
		return sinkError
	}

	tracker := budget.NewTracker(budget.Limits{MaxBytes: options.maxBytes, MaxTokens: options.maxTokens})
	extractionResult, extractionError := extract.Run(context.Background(), candidates, tracker, extract.Options{
		Workers:           options.workers,
		Load:              load.Options{ExcludeEmpty: options.excludeEmpty},
		SelfReferencePath: selfReferencePath,
	}, logger)
	if extractionError != nil {
		return extractionError
	}

	if len(extractionResult.Files) == 0 {
		fmt.Fprintln(os.Stderr, noFilesMatchedMessage)
		return nil
	}

	renderOptions := render.Options{
		Layout:           layout,
		IncludeTree:      options.includeTree,
		TreeDepth:        options.treeDepth,
		IncludeManifests: options.includeManifests,
		GroupByCategory:  options.groupByCategory,
		Compress:         options.compress,
	}
	if options.tokensEnabled {
		counter, resolvedModel, counterError := token.NewCounter(options.model)
		if counterError != nil {
			return counterError
		}
		renderOptions.Counter = counter
		renderOptions.ModelName = resolvedModel
	}

	artifact, renderError := render.Render(validatedPaths, extractionResult.Files, renderOptions)
	if renderError != nil {
		return renderError
	}

	if deliveryError := artifactSink.Deliver(artifact); deliveryError != nil {
		return deliveryError
	}
	if options.outputPath == "" {
		fmt.Fprintf(os.Stderr, clipboardCopiedTemplate, len(extractionResult.Files))
	}

	if options.summaryEnabled {
		printRunSummary(os.Stderr, extractionResult)
	}
	return nil
}

// buildSink constructs the configured destination and reports the absolute
// output path the extractor must skip, if any.
func buildSink(options packOptions) (sink.Sink, string, error) {
	if options.outputPath == "" {
		if options.appendOutput {
			return nil, "", fmt.Errorf("--%s requires --%s", appendFlagName, outputFlagName)
		}
		if options.chunkSize != 0 {
			return nil, "", fmt.Errorf("--%s requires --%s", chunkSizeFlagName, outputFlagName)
		}
		return sink.NewClipboardSink(nil), "", nil
	}
	fileSink, sinkError := sink.NewFileSink(options.outputPath, options.appendOutput, options.chunkSize)
	if sinkError != nil {
		return nil, "", sinkError
	}
	selfReferencePath, absoluteError := fileSink.Path()
	if absoluteError != nil {
		return nil, "", fmt.Errorf(errorAbsolutePathFormat, options.outputPath, absoluteError)
	}
	return fileSink, selfReferencePath, nil
}

// resolveAndValidatePaths converts input paths to absolute form and validates
// their existence.
func resolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seenPaths := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, alreadySeen := seenPaths[cleanPath]; alreadySeen {
			continue
		}
		information, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seenPaths[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{
			AbsolutePath: cleanPath,
			DisplayPath:  filepath.Clean(inputPath),
			IsDir:        information.IsDir(),
		})
	}
	if len(result) == 0 {
		return nil, fmt.Errorf(errorNoValidPaths)
	}
	return result, nil
}

// applyConfigurationDefaults overlays configuration-file values onto flags
// the user did not set explicitly.
func applyConfigurationDefaults(command *cobra.Command, options *packOptions, configuration config.ApplicationConfiguration) {
	flags := command.Flags()

	if !flags.Changed(formatFlagName) && configuration.Format != "" {
		options.format = configuration.Format
	}
	if !flags.Changed(depthFlagName) && configuration.Depth != nil {
		options.depth = *configuration.Depth
	}
	if !flags.Changed(noGitignoreFlagName) && configuration.UseGitignore != nil {
		options.disableGitignore = !*configuration.UseGitignore
	}
	if !flags.Changed(noAutoExcludeFlagName) && configuration.AutoExclude != nil {
		options.disableAutoExcl = !*configuration.AutoExclude
	}
	if !flags.Changed(excludeEmptyFlagName) && configuration.ExcludeEmpty != nil {
		options.excludeEmpty = *configuration.ExcludeEmpty
	}
	if !flags.Changed(includeExtFlagName) && len(configuration.IncludeExtensions) > 0 {
		options.includeExtensions = configuration.IncludeExtensions
	}
	if !flags.Changed(excludeExtFlagName) && len(configuration.ExcludeExtensions) > 0 {
		options.excludeExtensions = configuration.ExcludeExtensions
	}
	if !flags.Changed(forceIncludeFlagName) && len(configuration.ForceInclude) > 0 {
		options.forceInclude = configuration.ForceInclude
	}
	if !flags.Changed(maxBytesFlagName) && configuration.MaxBytes != nil {
		options.maxBytes = *configuration.MaxBytes
	}
	if !flags.Changed(maxTokensFlagName) && configuration.MaxTokens != nil {
		options.maxTokens = *configuration.MaxTokens
	}
	if !flags.Changed(workersFlagName) && configuration.Workers != nil {
		options.workers = *configuration.Workers
	}
	if !flags.Changed(treeFlagName) && configuration.Tree != nil {
		options.includeTree = *configuration.Tree
	}
	if !flags.Changed(treeDepthFlagName) && configuration.TreeDepth != nil {
		options.treeDepth = *configuration.TreeDepth
	}
	if !flags.Changed(dependenciesFlagName) && configuration.Dependencies != nil {
		options.includeManifests = *configuration.Dependencies
	}
	if !flags.Changed(groupFlagName) && configuration.Group != nil {
		options.groupByCategory = *configuration.Group
	}
	if !flags.Changed(compressFlagName) && configuration.Compress != nil {
		options.compress = *configuration.Compress
	}
	if !flags.Changed(summaryFlagName) && configuration.Summary != nil {
		options.summaryEnabled = *configuration.Summary
	}
	if !flags.Changed(tokensFlagName) && configuration.Tokens.Enabled != nil {
		options.tokensEnabled = *configuration.Tokens.Enabled
	}
	if !flags.Changed(modelFlagName) && configuration.Tokens.Model != "" {
		options.model = configuration.Tokens.Model
	}
}
