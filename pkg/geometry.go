package setup

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Geometry holds every constant of the modular layer that the builder needs.
type Geometry struct {
	SetupID          int             `yaml:"setup_id"`
	SetupDescription string          `yaml:"setup_description"`
	LayerIDs         []int           `yaml:"layer_ids"`
	LayerRadii       map[int]float64 `yaml:"layer_radii"`
	LayerNameFormat  string          `yaml:"layer_name_format"`

	SlotIDOffset     int     `yaml:"slot_id_offset"`
	NumSlots         int     `yaml:"num_slots"`
	FirstModuleTheta float64 `yaml:"first_module_theta"`
	SlotThetaStep    float64 `yaml:"slot_theta_step"`
	SlotType         string  `yaml:"slot_type"`

	ScinIDOffset  int       `yaml:"scin_id_offset"`
	ScinsPerSlot  int       `yaml:"scins_per_slot"`
	ScinRadii     []float64 `yaml:"scin_radii"`
	ScinAngleStep float64   `yaml:"scin_angle_step"`
	ScinHeight    int       `yaml:"scin_height"`
	ScinWidth     int       `yaml:"scin_width"`
	ScinLength    int       `yaml:"scin_length"`

	MatrixIDOffset  int `yaml:"matrix_id_offset"`
	PMIDOffset      int `yaml:"pm_id_offset"`
	PMsPerMatrix    int `yaml:"pms_per_matrix"`
	ChannelIDOffset int `yaml:"channel_id_offset"`
	ChannelsPerSide int `yaml:"channels_per_side"`

	// Threshold values [thr1, thr2] by PM position in the matrix
	Thresholds map[int][2]int `yaml:"thresholds"`
}

// DefaultGeometry returns the clinical modular J-PET setup.
func DefaultGeometry() Geometry {
	return Geometry{
		SetupID:          38,
		SetupDescription: "Modular J-PET - version for clinical scans",
		LayerIDs:         []int{4},
		LayerRadii:       map[int]float64{4: 38.186},
		LayerNameFormat:  "Digital J-PET layer %d",

		SlotIDOffset:     200,
		NumSlots:         24,
		FirstModuleTheta: 7.5,
		SlotThetaStep:    360.0 / 24.0,
		SlotType:         "module",

		ScinIDOffset: 200,
		ScinsPerSlot: 13,
		ScinRadii: []float64{38.416, 38.346, 38.289, 38.244, 38.212, 38.192, 38.186,
			38.192, 38.212, 38.244, 38.289, 38.346, 38.416},
		ScinAngleStep: 1.04,
		ScinHeight:    25,
		ScinWidth:     6,
		ScinLength:    500,

		MatrixIDOffset:  400,
		PMIDOffset:      400,
		PMsPerMatrix:    4,
		ChannelIDOffset: 2100,
		ChannelsPerSide: 105,

		Thresholds: map[int][2]int{
			1: {30, 70},
			2: {30, 70},
			3: {30, 70},
			4: {30, 70},
		},
	}
}

// LoadGeometry reads a YAML file over the default geometry. An empty
// filename returns the defaults.
func LoadGeometry(filename string) (Geometry, error) {
	geometry := DefaultGeometry()
	if filename == "" {
		return geometry, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return geometry, &ErrOpenFile{Filename: filename, Err: err}
	}
	if err := yaml.Unmarshal(data, &geometry); err != nil {
		return geometry, fmt.Errorf("error parsing geometry file %q: %w", filename, err)
	}
	if err := geometry.Validate(); err != nil {
		return geometry, err
	}
	return geometry, nil
}

// Validate checks that the tables agree with each other and with the FTAB
// mapping domain.
func (g Geometry) Validate() error {
	if len(g.LayerIDs) == 0 {
		return &ErrInvalidGeometry{Reason: "no layers"}
	}
	for _, id := range g.LayerIDs {
		if _, ok := g.LayerRadii[id]; !ok {
			return &ErrInvalidGeometry{Reason: fmt.Sprintf("no radius for layer %d", id)}
		}
	}
	if g.NumSlots <= 0 {
		return &ErrInvalidGeometry{Reason: fmt.Sprintf("number of slots is %d", g.NumSlots)}
	}
	if g.ScinsPerSlot != FtabScins {
		return &ErrInvalidGeometry{Reason: fmt.Sprintf("%d scintillators per slot, FTAB mapping covers %d",
			g.ScinsPerSlot, FtabScins)}
	}
	if len(g.ScinRadii) != g.ScinsPerSlot {
		return &ErrInvalidGeometry{Reason: fmt.Sprintf("%d scintillator radii for %d scintillators",
			len(g.ScinRadii), g.ScinsPerSlot)}
	}
	if g.PMsPerMatrix != FtabPositions {
		return &ErrInvalidGeometry{Reason: fmt.Sprintf("%d PMs per matrix, FTAB mapping covers %d",
			g.PMsPerMatrix, FtabPositions)}
	}
	for pos := 1; pos <= g.PMsPerMatrix; pos++ {
		if _, ok := g.Thresholds[pos]; !ok {
			return &ErrInvalidGeometry{Reason: fmt.Sprintf("no thresholds for PM position %d", pos)}
		}
	}
	if g.ChannelsPerSide <= FtabMaxOffset {
		return &ErrInvalidGeometry{Reason: fmt.Sprintf("%d channels per side cannot hold FTAB offset %d",
			g.ChannelsPerSide, FtabMaxOffset)}
	}
	return nil
}

// SlotTheta returns the angular position in degrees of the 1-based slot.
func (g Geometry) SlotTheta(nslot int) float64 {
	return g.FirstModuleTheta + g.SlotThetaStep*float64(nslot-1)
}

// CalcScinPosition returns the x, y centre of the 1-based scintillator
// scinInModule of a module placed at moduleTheta degrees. The central
// scintillator lies on the module axis.
func (g Geometry) CalcScinPosition(moduleTheta float64, scinInModule int) (float64, float64) {
	radius := g.ScinRadii[scinInModule-1]
	centre := (g.ScinsPerSlot + 1) / 2
	angle := moduleTheta + g.ScinAngleStep*float64(scinInModule-centre)
	angle = angle * math.Pi / 180.0

	x := roundTo(radius*math.Sin(angle), 3)
	y := roundTo(radius*math.Cos(angle), 3)
	return x, y
}

func roundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	rounded := math.Round(value*scale) / scale
	// avoid -0 in the output
	if rounded == 0 {
		return 0
	}
	return rounded
}
