package setup

import (
	"fmt"

	"github.com/google/renameio/v2"
	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Writer stores the flattened channel map and the scintillator geometry in
// an HDF5 file:
//
//	/Setup/info
//	/Setup/scintillators
//	/Sensors/channels
type Writer struct {
	File               *hdf5.File
	Filename           string
	SetupGroup         *hdf5.Group
	SensorsGroup       *hdf5.Group
	InfoTable          *hdf5.Dataset
	ScintillatorsTable *hdf5.Dataset
	ChannelsTable      *hdf5.Dataset
}

func NewWriter(filename string, compressionLevel int) (*Writer, error) {
	// Set string size for HDF5
	hdf5.SetStringLength(STRLEN)

	var err error
	writer := &Writer{Filename: filename}
	if writer.File, err = openFile(filename); err != nil {
		return nil, err
	}
	if writer.SetupGroup, err = createGroup(writer.File, "Setup"); err != nil {
		writer.Close()
		return nil, err
	}
	if writer.SensorsGroup, err = createGroup(writer.File, "Sensors"); err != nil {
		writer.Close()
		return nil, err
	}
	if writer.InfoTable, err = createTable(writer.SetupGroup, "info", SetupInfoHDF5{}, compressionLevel); err != nil {
		writer.Close()
		return nil, err
	}
	if writer.ScintillatorsTable, err = createTable(writer.SetupGroup, "scintillators", ScintillatorHDF5{}, compressionLevel); err != nil {
		writer.Close()
		return nil, err
	}
	if writer.ChannelsTable, err = createTable(writer.SensorsGroup, "channels", ChannelMapHDF5{}, compressionLevel); err != nil {
		writer.Close()
		return nil, err
	}
	return writer, nil
}

func (w *Writer) WriteSetup(doc *Document) error {
	info := make([]SetupInfoHDF5, len(doc.Setup))
	for i, s := range doc.Setup {
		info[i] = SetupInfoHDF5{setupID: int32(s.ID), description: convertToHdf5String(s.Description)}
	}
	if err := writeArrayToTable(w.InfoTable, &info, 0); err != nil {
		return fmt.Errorf("error writing setup info: %w", err)
	}

	scins := ScintillatorTable(doc)
	if err := writeArrayToTable(w.ScintillatorsTable, &scins, 0); err != nil {
		return fmt.Errorf("error writing scintillators: %w", err)
	}

	channels, err := ChannelMap(doc)
	if err != nil {
		return err
	}
	if err := writeArrayToTable(w.ChannelsTable, &channels, 0); err != nil {
		return fmt.Errorf("error writing channel map: %w", err)
	}
	if verbosity > 0 {
		message := fmt.Sprintf("%d channels and %d scintillators written to %s", len(channels), len(scins), w.Filename)
		logger.Info(message, "hdf5writer")
	}
	return nil
}

func (w *Writer) Close() {
	for _, dset := range []*hdf5.Dataset{w.InfoTable, w.ScintillatorsTable, w.ChannelsTable} {
		if dset != nil {
			dset.Close()
		}
	}
	for _, group := range []*hdf5.Group{w.SetupGroup, w.SensorsGroup} {
		if group != nil {
			group.Close()
		}
	}
	if w.File != nil {
		w.File.Close()
	}
}

// ChannelMap joins every channel with its PM, matrix, scintillator and slot.
// Unlinked channels get data module -1.
func ChannelMap(doc *Document) ([]ChannelMapHDF5, error) {
	pms := make(map[int]PM, len(doc.PM))
	for _, pm := range doc.PM {
		pms[pm.ID] = pm
	}
	matrices := make(map[int]Matrix, len(doc.Matrix))
	for _, matrix := range doc.Matrix {
		matrices[matrix.ID] = matrix
	}
	scins := make(map[int]Scintillator, len(doc.Scin))
	for _, scin := range doc.Scin {
		scins[scin.ID] = scin
	}

	// The array MUST be allocated at creation, HDF5 writes from its backing store
	rows := make([]ChannelMapHDF5, len(doc.Channel))
	for i, channel := range doc.Channel {
		pm, ok := pms[channel.PMID]
		if !ok {
			return nil, fmt.Errorf("channel %d: unknown PM %d", channel.ID, channel.PMID)
		}
		matrix, ok := matrices[pm.MatrixID]
		if !ok {
			return nil, fmt.Errorf("PM %d: unknown matrix %d", pm.ID, pm.MatrixID)
		}
		scin, ok := scins[matrix.ScinID]
		if !ok {
			return nil, fmt.Errorf("matrix %d: unknown scintillator %d", matrix.ID, matrix.ScinID)
		}
		side := int32(0)
		if matrix.Side == SideB {
			side = 1
		}
		dataModuleID := int32(-1)
		if channel.DataModuleID != nil {
			dataModuleID = int32(*channel.DataModuleID)
		}
		rows[i] = ChannelMapHDF5{
			channel:      int32(channel.ID),
			pmID:         int32(pm.ID),
			matrixID:     int32(matrix.ID),
			scinID:       int32(scin.ID),
			slotID:       int32(scin.SlotID),
			side:         side,
			posInMatrix:  int32(pm.PosInMatrix),
			thrNum:       int32(channel.ThrNum),
			thrVal:       int32(channel.ThrVal),
			dataModuleID: dataModuleID,
		}
	}
	return rows, nil
}

func ScintillatorTable(doc *Document) []ScintillatorHDF5 {
	thetas := make(map[int]float64, len(doc.Slot))
	for _, slot := range doc.Slot {
		thetas[slot.ID] = slot.Theta
	}
	rows := make([]ScintillatorHDF5, len(doc.Scin))
	for i, scin := range doc.Scin {
		rows[i] = ScintillatorHDF5{
			scinID:  int32(scin.ID),
			slotID:  int32(scin.SlotID),
			theta:   thetas[scin.SlotID],
			xcenter: scin.XCenter,
			ycenter: scin.YCenter,
			zcenter: scin.ZCenter,
			height:  int32(scin.Height),
			width:   int32(scin.Width),
			length:  int32(scin.Length),
		}
	}
	return rows
}

// WriteChannelMap writes doc to an HDF5 file that replaces filename only once
// it is complete.
func WriteChannelMap(filename string, doc *Document, compressionLevel int) error {
	pendingFile, err := renameio.NewPendingFile(filename, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file %q: %w", filename, err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Error(fmt.Sprintf("cleanup pending file %q: %v", filename, err))
		}
	}()

	// HDF5 needs a path, so it writes through the pending file name
	writer, err := NewWriter(pendingFile.Name(), compressionLevel)
	if err != nil {
		return err
	}
	err = writer.WriteSetup(doc)
	writer.Close()
	if err != nil {
		return err
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %q: %w", filename, err)
	}
	return nil
}
