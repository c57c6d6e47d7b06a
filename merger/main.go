package main

import (
	"context"
	"fmt"
	"os"

	setup "github.com/JPETTomography/modular_setup_go/pkg"
	"github.com/spf13/cobra"
)

var logger setup.SlogLogger

func init() {
	logger = setup.NewSlogLogger(os.Stdout, os.Stderr)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFilename, xmlFilename, setupKey string

	cmd := &cobra.Command{
		Use:           "merger INPUT_JSON OUTPUT_JSON",
		Short:         "Add the DAQ data sources and modules to a setup description",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configuration, err := setup.LoadConfiguration(configFilename)
			if err != nil {
				return fmt.Errorf("Error reading configuration file: %w", err)
			}
			if cmd.Flags().Changed("xml") {
				configuration.DAQConfigFile = xmlFilename
			}
			if cmd.Flags().Changed("setup-id") {
				configuration.SetupKey = setupKey
			}
			return run(cmd.Context(), configuration, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&configFilename, "config", "", "Configuration file path")
	cmd.Flags().StringVar(&xmlFilename, "xml", "", "DAQ configuration XML file")
	cmd.Flags().StringVar(&setupKey, "setup-id", "", "Top level key of the setup to update")
	return cmd
}

func run(ctx context.Context, configuration setup.Configuration, fileIn string, fileOut string) error {
	setup.SetLogger(logger)
	setup.SetVerbosity(configuration.Verbosity)
	if configuration.Verbosity > 0 {
		printConfiguration(configuration, fileIn, fileOut, logger)
	}

	daq, err := setup.ReadDAQConfig(configuration.DAQConfigFile)
	if err != nil {
		return fmt.Errorf("Error reading DAQ configuration: %w", err)
	}

	file, err := setup.ReadSetupFile(fileIn, configuration.SetupKey)
	if err != nil {
		return fmt.Errorf("Error reading setup: %w", err)
	}

	if _, err := setup.Merge(file.Document, daq, configuration.StrictRanges); err != nil {
		return fmt.Errorf("Error merging data sources: %w", err)
	}

	// the JSON file is replaced last, only once every other output succeeded
	if err := setup.ExportSetup(ctx, configuration, file.Document); err != nil {
		return err
	}
	return setup.WriteSetupFile(fileOut, file)
}
