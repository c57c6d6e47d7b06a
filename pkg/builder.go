package setup

import (
	"fmt"
	"strconv"
)

// Build generates the complete setup description top-down:
// setup, layers, then for every slot its scintillators, their A and B
// matrices, the PMs of every matrix and the two threshold channels per PM.
func Build(g Geometry) (*Document, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	nScins := g.NumSlots * g.ScinsPerSlot
	nMatrices := nScins * len(Sides)
	nPMs := nMatrices * g.PMsPerMatrix
	doc := &Document{
		Setup:   []Setup{{Description: g.SetupDescription, ID: g.SetupID}},
		Layer:   make([]Layer, 0, len(g.LayerIDs)),
		Slot:    make([]Slot, 0, g.NumSlots),
		Scin:    make([]Scintillator, 0, nScins),
		Matrix:  make([]Matrix, 0, nMatrices),
		PM:      make([]PM, 0, nPMs),
		Channel: make([]Channel, 0, nPMs*FtabThresholds),
	}

	for _, layerID := range g.LayerIDs {
		doc.Layer = append(doc.Layer, Layer{
			ID:      layerID,
			Name:    fmt.Sprintf(g.LayerNameFormat, layerID),
			Radius:  g.LayerRadii[layerID],
			SetupID: g.SetupID,
		})
	}

	matrixID := g.MatrixIDOffset
	pmID := g.PMIDOffset

	for nslot := 1; nslot <= g.NumSlots; nslot++ {
		slotID := g.SlotIDOffset + nslot
		slotTheta := g.SlotTheta(nslot)

		doc.Slot = append(doc.Slot, Slot{
			ID:      slotID,
			LayerID: g.LayerIDs[0], // single layer only
			Theta:   slotTheta,
			Type:    g.SlotType,
		})

		for nscin := 1; nscin <= g.ScinsPerSlot; nscin++ {
			scinID := g.ScinIDOffset + (nslot-1)*g.ScinsPerSlot + nscin
			x, y := g.CalcScinPosition(slotTheta, nscin)

			doc.Scin = append(doc.Scin, Scintillator{
				ID:      scinID,
				SlotID:  slotID,
				Height:  g.ScinHeight,
				Width:   g.ScinWidth,
				Length:  g.ScinLength,
				XCenter: x,
				YCenter: y,
			})

			for _, side := range Sides {
				matrixID++
				doc.Matrix = append(doc.Matrix, Matrix{
					ID:     matrixID,
					Side:   side,
					ScinID: scinID,
				})

				for pos := 1; pos <= g.PMsPerMatrix; pos++ {
					pmID++
					doc.PM = append(doc.PM, PM{
						ID:          pmID,
						Description: strconv.Itoa(pmID),
						PosInMatrix: pos,
						MatrixID:    matrixID,
					})

					for thr := 1; thr <= FtabThresholds; thr++ {
						channelID, err := g.ChannelID(nslot, nscin, side, pos, thr)
						if err != nil {
							return nil, fmt.Errorf("slot %d, scin %d, side %s: %w", nslot, nscin, side, err)
						}
						doc.Channel = append(doc.Channel, Channel{
							ID:     channelID,
							ThrNum: thr,
							PMID:   pmID,
							ThrVal: g.Thresholds[pos][thr-1],
						})
						if verbosity > 2 {
							message := fmt.Sprintf("Channel %d: slot %d, scin %d, side %s, pos %d, thr %d",
								channelID, nslot, nscin, side, pos, thr)
							logger.Info(message, "builder")
						}
					}
				}
			}
		}
		if verbosity > 1 {
			message := fmt.Sprintf("Slot %d at theta %.2f generated", slotID, slotTheta)
			logger.Info(message, "builder")
		}
	}

	if verbosity > 0 {
		message := fmt.Sprintf("Setup %d: %d layers, %d slots, %d scintillators, %d matrices, %d PMs, %d channels",
			g.SetupID, len(doc.Layer), len(doc.Slot), len(doc.Scin), len(doc.Matrix), len(doc.PM), len(doc.Channel))
		logger.Info(message, "builder")
	}
	return doc, nil
}

// Wrap places the document under the setup id, the form in which it is
// written to disk.
func Wrap(g Geometry, doc *Document) SetupFile {
	return SetupFile{Key: strconv.Itoa(g.SetupID), Document: doc}
}
