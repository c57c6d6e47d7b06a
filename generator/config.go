package main

import (
	"fmt"

	setup "github.com/JPETTomography/modular_setup_go/pkg"
)

func printConfiguration(config setup.Configuration, logger setup.Logger) {
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Geometry file: %s", config.GeometryFile), "config")
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
		logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	}
}
