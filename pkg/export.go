package setup

import (
	"context"
	"fmt"
)

// ExportSetup writes the optional secondary outputs selected in the
// configuration: the setup database and the HDF5 channel map.
func ExportSetup(ctx context.Context, config Configuration, doc *Document) error {
	if config.WriteDB {
		db, err := OpenDatabase(config)
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer db.Close()
		if err := SaveSetup(ctx, db, doc); err != nil {
			return err
		}
	}
	if config.WriteHDF5 {
		if err := WriteChannelMap(config.FileHDF5, doc, config.CompressionLevel); err != nil {
			return err
		}
	}
	return nil
}
