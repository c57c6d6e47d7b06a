package setup

import (
	"encoding/json"
	"fmt"
	"os"
)

type Configuration struct {
	Verbosity        int    `json:"verbosity"`
	FileOut          string `json:"file_out"`
	GeometryFile     string `json:"geometry_file"`
	DAQConfigFile    string `json:"daq_config"`
	SetupKey         string `json:"setup_key"`
	StrictRanges     bool   `json:"strict_ranges"`
	WriteDB          bool   `json:"write_db"`
	DBDriver         string `json:"db_driver"`
	Host             string `json:"host"`
	User             string `json:"user"`
	Passwd           string `json:"pass"`
	DBName           string `json:"dbname"`
	DBPath           string `json:"db_path"`
	WriteHDF5        bool   `json:"write_hdf5"`
	FileHDF5         string `json:"file_hdf5"`
	CompressionLevel int    `json:"compression_level"`
}

func DefaultConfiguration() Configuration {
	var config Configuration

	config.Verbosity = 0
	config.FileOut = "modular_setup_clinical.json"
	config.GeometryFile = ""
	config.DAQConfigFile = "conf_djpet.xml"
	config.SetupKey = ""
	config.StrictRanges = false
	config.WriteDB = false
	config.DBDriver = "mysql"
	config.Host = "localhost"
	config.User = "jpet"
	config.Passwd = ""
	config.DBName = "JPET_SETUP"
	config.DBPath = "jpet_setup.sqlite"
	config.WriteHDF5 = false
	config.FileHDF5 = "modular_setup_clinical.h5"
	config.CompressionLevel = 4
	return config
}

// LoadConfiguration reads a JSON configuration file over the defaults. An
// empty filename returns the defaults.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, &ErrOpenFile{Filename: filename, Err: err}
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, fmt.Errorf("%s: %w", filename, err)
	}
	return config, nil
}
