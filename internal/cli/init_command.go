package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/projdump/internal/config"
)

const initWrittenTemplate = "wrote %s\n"

// newInitCommand builds the init subcommand that writes a default configuration file.
func newInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			resolvedDependencies, err := dependencies.withDefaults()
			if err != nil {
				return err
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: resolvedDependencies.WorkingDirectory,
				HomeDirectory:    resolvedDependencies.HomeDirectory,
			})
			if err != nil {
				return err
			}
			resolvedDependencies.Logger.Debug("configuration initialized", zap.String("path", writtenPath))
			_, err = fmt.Fprintf(resolvedDependencies.Stdout, initWrittenTemplate, writtenPath)
			return err
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
