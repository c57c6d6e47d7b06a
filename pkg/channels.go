package setup

// ChannelID returns the TDC channel number read out for threshold thr of
// the PM at posInMatrix on the given side of scintillator scin in slot.
// Slot and scin are 1-based.
func (g Geometry) ChannelID(slot int, scin int, side Side, posInMatrix int, thr int) (int, error) {
	// B side FTABs are mounted mirrored w.r.t. the scintillator numbering
	sideOffset := 0
	switch side {
	case SideA:
	case SideB:
		scin = g.ScinsPerSlot + 1 - scin
		sideOffset = g.ChannelsPerSide
	default:
		return 0, &ErrInvalidSide{Side: side}
	}

	offset, err := FtabOffset(FtabKey{Scin: scin, Pos: posInMatrix, Thr: thr})
	if err != nil {
		return 0, err
	}
	id := g.ChannelIDOffset + (slot-1)*2*g.ChannelsPerSide + sideOffset + offset
	return id, nil
}
