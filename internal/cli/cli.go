// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/projdump/internal/config"
	"github.com/temirov/projdump/internal/discover"
	"github.com/temirov/projdump/internal/report"
	"github.com/temirov/projdump/internal/services/clipboard"
	"github.com/temirov/projdump/internal/tokenizer"
	"github.com/temirov/projdump/internal/utils"
)

const (
	outputFlagName      = "output"
	outputFlagShorthand = "o"
	includeFlagName     = "include"
	ignoreFileFlagName  = "ignore-file"
	ignoreDirFlagName   = "ignore-dir"
	idePrefixFlagName   = "ide-prefix"
	limitFlagName       = "limit"
	configFlagName      = "config"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	copyFlagName        = "copy"
	versionFlagName     = "version"
	globalFlagName      = "global"
	forceFlagName       = "force"

	versionTemplate      = "projdump version: %s\n"
	rootUse              = "projdump [root]"
	rootShortDescription = "dump a project tree with file previews into a text report"
	rootLongDescription  = `projdump walks a directory tree and writes a plain text report.
Directories whose path contains one of the included names are listed with their files,
and every listed file is followed by a preview of its first characters.
Ignored directories and anything beneath them are never visited.`
	rootUsageExample = `  # Dump the current directory with the default filters
  projdump

  # Dump another project into a custom report, also including internal/
  projdump ../service -o service.txt --include cmd --include internal

  # Count report tokens and copy the report to the clipboard
  projdump --tokens --copy`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ` + utils.ConfigFileName + ` in the working directory,
or to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + ` with --global.`

	outputFlagDescription     = "report file to write (truncated)"
	includeFlagDescription    = "directory name that marks a branch for reporting (repeatable, replaces defaults)"
	ignoreFileFlagDescription = "file name to leave out (repeatable, replaces defaults)"
	ignoreDirFlagDescription  = "directory name to prune (repeatable, replaces defaults)"
	idePrefixFlagDescription  = "prune directories starting with this prefix (empty disables)"
	limitFlagDescription      = "number of characters previewed per file"
	configFlagDescription     = "configuration file to use instead of " + utils.ConfigFileName
	tokensFlagDescription     = "count tokens of the written report"
	modelFlagDescription      = "tokenizer model used with --tokens"
	copyFlagDescription       = "copy the written report to the clipboard"
	versionFlagDescription    = "display application version"
	globalFlagDescription     = "write the global configuration instead of the local one"
	forceFlagDescription      = "overwrite an existing configuration file"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	readReportErrorFormat       = "read report %s: %w"
	copyReportErrorFormat       = "copy report to clipboard: %w"
	countTokensErrorFormat      = "count report tokens: %w"
)

// Dependencies holds the collaborators a command run uses.
type Dependencies struct {
	Logger           *zap.Logger
	Copier           clipboard.Copier
	NewCounter       func(tokenizer.Config) (tokenizer.Counter, string, error)
	WorkingDirectory string
	HomeDirectory    string
	Stdout           io.Writer
}

func (dependencies Dependencies) withDefaults() (Dependencies, error) {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.WorkingDirectory == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return Dependencies{}, fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		dependencies.WorkingDirectory = workingDirectory
	}
	return dependencies, nil
}

// Execute runs the projdump application with the provided logger.
func Execute(logger *zap.Logger) error {
	return NewRootCommand(Dependencies{Logger: logger}).Execute()
}

// runOptions stores the flag values of the root command.
type runOptions struct {
	output      string
	includeDirs []string
	ignoreFiles []string
	ignoreDirs  []string
	idePrefix   string
	limit       int
	configPath  string
	tokens      bool
	model       string
	copy        bool
	showVersion bool
}

// NewRootCommand builds the root Cobra command. Running it produces the report.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var options runOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			resolvedDependencies, err := dependencies.withDefaults()
			if err != nil {
				return err
			}
			settings, err := resolveSettings(command, arguments, options, resolvedDependencies)
			if err != nil {
				return err
			}
			return runReport(settings, resolvedDependencies)
		},
	}

	defaults := config.DefaultConfiguration()
	flags := rootCommand.Flags()
	flags.StringVarP(&options.output, outputFlagName, outputFlagShorthand, defaults.Output, outputFlagDescription)
	flags.StringArrayVar(&options.includeDirs, includeFlagName, nil, includeFlagDescription)
	flags.StringArrayVar(&options.ignoreFiles, ignoreFileFlagName, nil, ignoreFileFlagDescription)
	flags.StringArrayVar(&options.ignoreDirs, ignoreDirFlagName, nil, ignoreDirFlagDescription)
	flags.StringVar(&options.idePrefix, idePrefixFlagName, *defaults.IDEPrefix, idePrefixFlagDescription)
	flags.IntVar(&options.limit, limitFlagName, *defaults.PreviewLimit, limitFlagDescription)
	flags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flags.BoolVar(&options.tokens, tokensFlagName, false, tokensFlagDescription)
	flags.StringVar(&options.model, modelFlagName, defaults.Tokens.Model, modelFlagDescription)
	flags.BoolVar(&options.copy, copyFlagName, false, copyFlagDescription)
	flags.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(newInitCommand(dependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// resolveSettings loads configuration files and applies explicitly set flags and the root argument on top.
func resolveSettings(command *cobra.Command, arguments []string, options runOptions, dependencies Dependencies) (config.Settings, error) {
	loaded, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		HomeDirectory:    dependencies.HomeDirectory,
		ExplicitFilePath: options.configPath,
	})
	if err != nil {
		return config.Settings{}, err
	}

	var override config.ApplicationConfiguration
	if len(arguments) == 1 {
		override.Root = arguments[0]
	}
	flags := command.Flags()
	if flags.Changed(outputFlagName) {
		override.Output = options.output
	}
	if flags.Changed(includeFlagName) {
		override.IncludeDirs = options.includeDirs
	}
	if flags.Changed(ignoreFileFlagName) {
		override.IgnoreFiles = options.ignoreFiles
	}
	if flags.Changed(ignoreDirFlagName) {
		override.IgnoreDirs = options.ignoreDirs
	}
	if flags.Changed(idePrefixFlagName) {
		override.IDEPrefix = &options.idePrefix
	}
	if flags.Changed(limitFlagName) {
		override.PreviewLimit = &options.limit
	}
	if flags.Changed(tokensFlagName) {
		override.Tokens.Enabled = &options.tokens
	}
	if flags.Changed(modelFlagName) {
		override.Tokens.Model = options.model
	}
	if flags.Changed(copyFlagName) {
		override.Clipboard = &options.copy
	}

	return loaded.Merge(override).Settings()
}

// runReport writes the report and performs the optional post-processing steps.
func runReport(settings config.Settings, dependencies Dependencies) error {
	logger := dependencies.Logger
	root := resolveAgainst(dependencies.WorkingDirectory, settings.Root)
	output := resolveAgainst(dependencies.WorkingDirectory, settings.Output)

	if module, found, detectErr := discover.DetectGoModule(root); detectErr == nil && found {
		logger.Info("dumping go module",
			zap.String("module", module.Path),
			zap.String("go", module.GoVersion),
			zap.Int("requirements", module.Requirements),
		)
	}

	summary, err := report.Generate(report.Options{
		Root:         root,
		OutputPath:   output,
		Rules:        settings.Rules,
		PreviewLimit: settings.PreviewLimit,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	logger.Info("report written",
		zap.String("output", output),
		zap.Int("directories", summary.ReportedDirectories),
		zap.Int("files", summary.ListedFiles),
		zap.Int("unreadable", summary.UnreadableFiles),
		zap.Int("pruned", summary.PrunedDirectories),
	)

	if settings.TokensEnabled {
		if err := countReportTokens(output, settings.TokenModel, dependencies); err != nil {
			return err
		}
	}

	if settings.Clipboard {
		// #nosec G304
		reportText, readErr := os.ReadFile(output)
		if readErr != nil {
			return fmt.Errorf(readReportErrorFormat, output, readErr)
		}
		if copyErr := dependencies.Copier.Copy(string(reportText)); copyErr != nil {
			return fmt.Errorf(copyReportErrorFormat, copyErr)
		}
		logger.Info("report copied to clipboard")
	}
	return nil
}

func countReportTokens(output string, model string, dependencies Dependencies) error {
	counter, resolvedModel, err := dependencies.NewCounter(tokenizer.Config{Model: model})
	if err != nil {
		return fmt.Errorf(countTokensErrorFormat, err)
	}
	result, err := tokenizer.CountFile(counter, output)
	if err != nil {
		return fmt.Errorf(countTokensErrorFormat, err)
	}
	if !result.Counted {
		dependencies.Logger.Warn("report is not valid UTF-8, tokens not counted", zap.String("output", output))
		return nil
	}
	dependencies.Logger.Info("report tokens",
		zap.Int("tokens", result.Tokens),
		zap.String("model", resolvedModel),
		zap.String("encoding", counter.Name()),
	)
	return nil
}

// resolveAgainst joins relative paths onto the working directory. A relative path is kept as typed
// when the working directory is the process directory, so include matching sees the user's path.
func resolveAgainst(workingDirectory string, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	currentDirectory, err := os.Getwd()
	if err == nil && currentDirectory == workingDirectory {
		return path
	}
	return filepath.Join(workingDirectory, path)
}
