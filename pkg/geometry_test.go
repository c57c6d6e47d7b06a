package setup

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcScinPositionOnRadius(t *testing.T) {
	g := DefaultGeometry()
	for nslot := 1; nslot <= g.NumSlots; nslot++ {
		theta := g.SlotTheta(nslot)
		for nscin := 1; nscin <= g.ScinsPerSlot; nscin++ {
			x, y := g.CalcScinPosition(theta, nscin)
			radius := g.ScinRadii[nscin-1]
			assert.InDelta(t, radius, math.Hypot(x, y), 1e-3, "slot %d scin %d", nslot, nscin)
		}
	}
}

func TestCalcScinPositionCentralScintillator(t *testing.T) {
	g := DefaultGeometry()

	x, y := g.CalcScinPosition(0, 7)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 38.186, y)

	// no angular offset for the central strip: it sits at the module angle
	x, y = g.CalcScinPosition(7.5, 7)
	angle := 7.5 * math.Pi / 180
	assert.InDelta(t, 38.186*math.Sin(angle), x, 5e-4)
	assert.InDelta(t, 38.186*math.Cos(angle), y, 5e-4)
	assert.Equal(t, 4.984, x)
	assert.Equal(t, 37.859, y)
}

func TestCalcScinPositionSymmetry(t *testing.T) {
	g := DefaultGeometry()
	for nscin := 1; nscin <= 6; nscin++ {
		x1, y1 := g.CalcScinPosition(0, nscin)
		x2, y2 := g.CalcScinPosition(0, g.ScinsPerSlot+1-nscin)
		assert.Equal(t, -x1, x2, "scin %d", nscin)
		assert.Equal(t, y1, y2, "scin %d", nscin)
		assert.Less(t, x1, 0.0)
	}
}

func TestSlotTheta(t *testing.T) {
	g := DefaultGeometry()
	assert.Equal(t, 7.5, g.SlotTheta(1))
	assert.Equal(t, 22.5, g.SlotTheta(2))
	assert.Equal(t, 352.5, g.SlotTheta(24))
}

func TestValidateDefaultGeometry(t *testing.T) {
	require.NoError(t, DefaultGeometry().Validate())
}

func TestValidateRejectsInconsistentTables(t *testing.T) {
	tests := []struct {
		name   string
		modify func(g *Geometry)
	}{
		{"missing layer radius", func(g *Geometry) { g.LayerIDs = []int{4, 5} }},
		{"no layers", func(g *Geometry) { g.LayerIDs = nil }},
		{"short radii table", func(g *Geometry) { g.ScinRadii = g.ScinRadii[:12] }},
		{"scins outside mapping", func(g *Geometry) { g.ScinsPerSlot = 12 }},
		{"missing thresholds", func(g *Geometry) { delete(g.Thresholds, 3) }},
		{"side block too small", func(g *Geometry) { g.ChannelsPerSide = 100 }},
		{"no slots", func(g *Geometry) { g.NumSlots = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := DefaultGeometry()
			tt.modify(&g)
			var geometryErr *ErrInvalidGeometry
			assert.ErrorAs(t, g.Validate(), &geometryErr)
		})
	}
}

func TestLoadGeometryOverridesDefaults(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "geometry.yaml")
	content := `
setup_id: 45
setup_description: "Modular J-PET - test bench"
num_slots: 2
thresholds:
  1: [40, 80]
`
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))

	g, err := LoadGeometry(filename)
	require.NoError(t, err)
	assert.Equal(t, 45, g.SetupID)
	assert.Equal(t, "Modular J-PET - test bench", g.SetupDescription)
	assert.Equal(t, 2, g.NumSlots)
	assert.Equal(t, [2]int{40, 80}, g.Thresholds[1])
	assert.Equal(t, [2]int{30, 70}, g.Thresholds[2])
	assert.Equal(t, 7.5, g.FirstModuleTheta)
	assert.Len(t, g.ScinRadii, 13)
}

func TestLoadGeometryEmptyFilename(t *testing.T) {
	g, err := LoadGeometry("")
	require.NoError(t, err)
	assert.Equal(t, DefaultGeometry(), g)
}

func TestLoadGeometryMissingFile(t *testing.T) {
	_, err := LoadGeometry(filepath.Join(t.TempDir(), "missing.yaml"))
	var openErr *ErrOpenFile
	assert.ErrorAs(t, err, &openErr)
}
