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
	var configFilename, geometryFilename, fileOut string

	cmd := &cobra.Command{
		Use:           "generator",
		Short:         "Generate the modular J-PET setup description",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configuration, err := setup.LoadConfiguration(configFilename)
			if err != nil {
				return fmt.Errorf("Error reading configuration file: %w", err)
			}
			if cmd.Flags().Changed("geometry") {
				configuration.GeometryFile = geometryFilename
			}
			if cmd.Flags().Changed("out") {
				configuration.FileOut = fileOut
			}
			return run(cmd.Context(), configuration)
		},
	}
	cmd.Flags().StringVar(&configFilename, "config", "", "Configuration file path")
	cmd.Flags().StringVar(&geometryFilename, "geometry", "", "Geometry file path (YAML)")
	cmd.Flags().StringVar(&fileOut, "out", "", "Output JSON file")
	return cmd
}

func run(ctx context.Context, configuration setup.Configuration) error {
	setup.SetLogger(logger)
	setup.SetVerbosity(configuration.Verbosity)
	if configuration.Verbosity > 0 {
		printConfiguration(configuration, logger)
	}

	geometry, err := setup.LoadGeometry(configuration.GeometryFile)
	if err != nil {
		return fmt.Errorf("Error reading geometry: %w", err)
	}

	doc, err := setup.Build(geometry)
	if err != nil {
		return fmt.Errorf("Error generating setup: %w", err)
	}

	// the JSON file is replaced last, only once every other output succeeded
	if err := setup.ExportSetup(ctx, configuration, doc); err != nil {
		return err
	}
	return setup.WriteSetupFile(configuration.FileOut, setup.Wrap(geometry, doc))
}
