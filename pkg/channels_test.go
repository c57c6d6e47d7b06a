package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelIDsAreUnique(t *testing.T) {
	g := DefaultGeometry()
	seen := make(map[int]bool)
	for slot := 1; slot <= g.NumSlots; slot++ {
		for scin := 1; scin <= g.ScinsPerSlot; scin++ {
			for _, side := range Sides {
				for pos := 1; pos <= g.PMsPerMatrix; pos++ {
					for thr := 1; thr <= FtabThresholds; thr++ {
						id, err := g.ChannelID(slot, scin, side, pos, thr)
						require.NoError(t, err)
						assert.False(t, seen[id], "duplicated channel %d", id)
						seen[id] = true
					}
				}
			}
		}
	}
	assert.Len(t, seen, 24*13*2*4*2)
}

func TestChannelIDMirroring(t *testing.T) {
	g := DefaultGeometry()
	for slot := 1; slot <= g.NumSlots; slot++ {
		for scin := 1; scin <= g.ScinsPerSlot; scin++ {
			for pos := 1; pos <= g.PMsPerMatrix; pos++ {
				for thr := 1; thr <= FtabThresholds; thr++ {
					idA, err := g.ChannelID(slot, scin, SideA, pos, thr)
					require.NoError(t, err)
					idB, err := g.ChannelID(slot, 14-scin, SideB, pos, thr)
					require.NoError(t, err)
					assert.Equal(t, 105, idB-idA)
				}
			}
		}
	}
}

func TestChannelIDBlocks(t *testing.T) {
	g := DefaultGeometry()

	id, err := g.ChannelID(1, 1, SideA, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2101, id)

	// B side of scin 1 is cabled like scin 13
	id, err = g.ChannelID(1, 1, SideB, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2100+105+FtabMapping[FtabKey{13, 1, 1}], id)

	id, err = g.ChannelID(2, 1, SideA, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2100+210+1, id)

	for slot := 1; slot <= g.NumSlots; slot++ {
		for scin := 1; scin <= g.ScinsPerSlot; scin++ {
			idA, err := g.ChannelID(slot, scin, SideA, 4, 2)
			require.NoError(t, err)
			idB, err := g.ChannelID(slot, scin, SideB, 4, 2)
			require.NoError(t, err)
			blockA := 2100 + (slot-1)*210
			assert.True(t, idA > blockA && idA < blockA+105, "channel %d", idA)
			assert.True(t, idB > blockA+105 && idB < blockA+210, "channel %d", idB)
		}
	}
}

func TestChannelIDErrors(t *testing.T) {
	g := DefaultGeometry()

	_, err := g.ChannelID(1, 1, Side("C"), 1, 1)
	var sideErr *ErrInvalidSide
	assert.ErrorAs(t, err, &sideErr)

	_, err = g.ChannelID(1, 1, SideA, 5, 1)
	var mappingErr *ErrMappingKeyNotFound
	require.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, FtabKey{Scin: 1, Pos: 5, Thr: 1}, mappingErr.Key)

	// the mirrored key is reported for side B
	_, err = g.ChannelID(1, 3, SideB, 1, 3)
	require.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, FtabKey{Scin: 11, Pos: 1, Thr: 3}, mappingErr.Key)
}
