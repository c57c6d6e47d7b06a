package setup

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type daqConfigXML struct {
	DataSources []dataSourceXML `xml:"DATA_SOURCE"`
}

type dataSourceXML struct {
	Type          *string         `xml:"TYPE"`
	TrbnetAddress *string         `xml:"TRBNET_ADDRESS"`
	HubAddress    *string         `xml:"HUB_ADDRESS"`
	Modules       []dataModuleXML `xml:"MODULES>MODULE"`
}

type dataModuleXML struct {
	Type             *string `xml:"TYPE"`
	TrbnetAddress    *string `xml:"TRBNET_ADDRESS"`
	NumberOfChannels *string `xml:"NUMBER_OF_CHANNELS"`
	ChannelOffset    *string `xml:"CHANNEL_OFFSET"`
}

// DAQConfig is the flat form of the acquisition configuration. DataModules[i]
// belongs to DataSources[i].
type DAQConfig struct {
	DataSources []DataSource
	DataModules []DataModule
}

// ReadDAQConfig parses the DAQ XML file.
func ReadDAQConfig(filename string) (DAQConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return DAQConfig{}, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()

	config, err := ParseDAQConfig(file)
	if err != nil {
		return DAQConfig{}, fmt.Errorf("%s: %w", filename, err)
	}
	if verbosity > 0 {
		message := fmt.Sprintf("Read %d data sources from %s", len(config.DataSources), filename)
		logger.Info(message, "daq")
	}
	return config, nil
}

// ParseDAQConfig reads every DATA_SOURCE below the root element. Only the
// first MODULES/MODULE of a source is used, so the n-th source and the n-th
// module both get id n.
func ParseDAQConfig(r io.Reader) (DAQConfig, error) {
	var root daqConfigXML
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return DAQConfig{}, fmt.Errorf("error parsing DAQ configuration: %w", err)
	}

	config := DAQConfig{
		DataSources: make([]DataSource, 0, len(root.DataSources)),
		DataModules: make([]DataModule, 0, len(root.DataSources)),
	}

	sourceID := 1
	moduleID := 1
	for i, xmlSource := range root.DataSources {
		fields := xmlFields{element: "DATA_SOURCE", index: i + 1}
		source := DataSource{
			ID:            sourceID,
			Type:          fields.text("TYPE", xmlSource.Type),
			TrbnetAddress: fields.text("TRBNET_ADDRESS", xmlSource.TrbnetAddress),
			HubAddress:    fields.text("HUB_ADDRESS", xmlSource.HubAddress),
		}
		if fields.err != nil {
			return DAQConfig{}, fields.err
		}
		if len(xmlSource.Modules) == 0 {
			return DAQConfig{}, &ErrMissingXMLField{Element: "DATA_SOURCE", Index: i + 1, Field: "MODULES/MODULE"}
		}
		if len(xmlSource.Modules) > 1 && verbosity > 1 {
			message := fmt.Sprintf("DATA_SOURCE #%d has %d modules, using the first one", i+1, len(xmlSource.Modules))
			logger.Info(message, "daq")
		}

		xmlModule := xmlSource.Modules[0]
		fields.element = "DATA_SOURCE/MODULES/MODULE"
		module := DataModule{
			ID:             moduleID,
			Type:           fields.text("TYPE", xmlModule.Type),
			TrbnetAddress:  fields.text("TRBNET_ADDRESS", xmlModule.TrbnetAddress),
			ChannelsNumber: fields.integer("NUMBER_OF_CHANNELS", xmlModule.NumberOfChannels),
			ChannelsOffset: fields.integer("CHANNEL_OFFSET", xmlModule.ChannelOffset),
			DataSourceID:   sourceID,
		}
		if fields.err != nil {
			return DAQConfig{}, fields.err
		}

		sourceID++
		moduleID++

		config.DataSources = append(config.DataSources, source)
		config.DataModules = append(config.DataModules, module)
	}
	return config, nil
}

// xmlFields extracts element texts, keeping the first error.
type xmlFields struct {
	element string
	index   int
	err     error
}

func (f *xmlFields) text(name string, value *string) string {
	if value == nil {
		if f.err == nil {
			f.err = &ErrMissingXMLField{Element: f.element, Index: f.index, Field: name}
		}
		return ""
	}
	return strings.TrimSpace(*value)
}

func (f *xmlFields) integer(name string, value *string) int {
	text := f.text(name, value)
	if value == nil {
		return 0
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		if f.err == nil {
			f.err = &ErrInvalidXMLField{Element: f.element, Index: f.index, Field: name, Value: text, Err: err}
		}
		return 0
	}
	return n
}
