package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFtabMappingIsTotal(t *testing.T) {
	assert.Len(t, FtabMapping, FtabMaxOffset)
	for scin := 1; scin <= FtabScins; scin++ {
		for pos := 1; pos <= FtabPositions; pos++ {
			for thr := 1; thr <= FtabThresholds; thr++ {
				_, err := FtabOffset(FtabKey{Scin: scin, Pos: pos, Thr: thr})
				assert.NoError(t, err)
			}
		}
	}
}

func TestFtabMappingIsInjective(t *testing.T) {
	seen := make(map[int]FtabKey, len(FtabMapping))
	for key, offset := range FtabMapping {
		if other, ok := seen[offset]; ok {
			t.Errorf("offset %d used by %v and %v", offset, key, other)
		}
		seen[offset] = key
		// offset 0 is the reference channel of the board
		assert.GreaterOrEqual(t, offset, 1, "key %v", key)
		assert.LessOrEqual(t, offset, FtabMaxOffset, "key %v", key)
	}
}

func TestFtabMappingConnectors(t *testing.T) {
	// both thresholds of a PM are on the same connector, 4 pins apart
	for key, offset := range FtabMapping {
		if key.Thr != 1 {
			continue
		}
		other := FtabMapping[FtabKey{Scin: key.Scin, Pos: key.Pos, Thr: 2}]
		assert.Equal(t, offset+4, other, "key %v", key)
		assert.Equal(t, (offset-1)/8, (other-1)/8, "key %v", key)
	}
	assert.Equal(t, 1, FtabMapping[FtabKey{1, 1, 1}])
	assert.Equal(t, 57, FtabMapping[FtabKey{2, 1, 1}])
	assert.Equal(t, 104, FtabMapping[FtabKey{12, 4, 2}])
}

func TestFtabOffsetMissingKey(t *testing.T) {
	tests := []FtabKey{
		{Scin: 0, Pos: 1, Thr: 1},
		{Scin: 14, Pos: 1, Thr: 1},
		{Scin: 1, Pos: 5, Thr: 1},
		{Scin: 1, Pos: 1, Thr: 3},
	}
	for _, key := range tests {
		_, err := FtabOffset(key)
		var mappingErr *ErrMappingKeyNotFound
		require.ErrorAs(t, err, &mappingErr)
		assert.Equal(t, key, mappingErr.Key)
	}
}
