package main

import (
	"fmt"

	setup "github.com/JPETTomography/modular_setup_go/pkg"
)

func printConfiguration(config setup.Configuration, fileIn string, fileOut string, logger setup.Logger) {
	logger.Info(fmt.Sprintf("File in: %s", fileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", fileOut), "config")
	logger.Info(fmt.Sprintf("DAQ config: %s", config.DAQConfigFile), "config")
	logger.Info(fmt.Sprintf("Setup key: %q", config.SetupKey), "config")
	logger.Info(fmt.Sprintf("Strict ranges: %t", config.StrictRanges), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Write DB: %t", config.WriteDB), "config")
	if config.WriteDB {
		logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
		logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
		logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	}
	logger.Info(fmt.Sprintf("Write HDF5: %t", config.WriteHDF5), "config")
	if config.WriteHDF5 {
		logger.Info(fmt.Sprintf("File HDF5: %s", config.FileHDF5), "config")
	}
}
