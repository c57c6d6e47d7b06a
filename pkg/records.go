package setup

import "math"

// Side identifies one of the two readout ends of a scintillator strip.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

var Sides = []Side{SideA, SideB}

type Setup struct {
	Description string `json:"description" db:"description"`
	ID          int    `json:"id" db:"id"`
}

type Layer struct {
	ID      int     `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Radius  float64 `json:"radius" db:"radius"`
	SetupID int     `json:"setup_id" db:"setup_id"`
}

type Slot struct {
	ID      int     `json:"id" db:"id"`
	LayerID int     `json:"layer_id" db:"layer_id"`
	Theta   float64 `json:"theta" db:"theta"`
	Type    string  `json:"type" db:"type"`
}

type Scintillator struct {
	ID      int     `json:"id" db:"id"`
	SlotID  int     `json:"slot_id" db:"slot_id"`
	Height  int     `json:"height" db:"height"`
	Width   int     `json:"width" db:"width"`
	Length  int     `json:"length" db:"length"`
	XCenter float64 `json:"xcenter" db:"xcenter"`
	YCenter float64 `json:"ycenter" db:"ycenter"`
	ZCenter float64 `json:"zcenter" db:"zcenter"`
	RotX    float64 `json:"rot_x" db:"rot_x"`
	RotY    float64 `json:"rot_y" db:"rot_y"`
	RotZ    float64 `json:"rot_z" db:"rot_z"`
}

type Matrix struct {
	ID     int  `json:"id" db:"id"`
	Side   Side `json:"side" db:"side"`
	ScinID int  `json:"scin_id" db:"scin_id"`
}

type PM struct {
	ID          int    `json:"id" db:"id"`
	Description string `json:"description" db:"description"`
	PosInMatrix int    `json:"pos_in_matrix" db:"pos_in_matrix"`
	MatrixID    int    `json:"matrix_id" db:"matrix_id"`
}

// Channel is one threshold readout line of a PM. DataModuleID is only
// present once the channel has been linked to a DAQ module.
type Channel struct {
	ID           int  `json:"id" db:"id"`
	ThrNum       int  `json:"thr_num" db:"thr_num"`
	PMID         int  `json:"pm_id" db:"pm_id"`
	ThrVal       int  `json:"thr_val" db:"thr_val"`
	DataModuleID *int `json:"data_module_id,omitempty" db:"data_module_id"`
}

type DataSource struct {
	ID            int    `json:"id" db:"id"`
	Type          string `json:"type" db:"type"`
	TrbnetAddress string `json:"trbnet_address" db:"trbnet_address"`
	HubAddress    string `json:"hub_address" db:"hub_address"`
}

type DataModule struct {
	ID             int    `json:"id" db:"id"`
	Type           string `json:"type" db:"type"`
	TrbnetAddress  string `json:"trbnet_address" db:"trbnet_address"`
	ChannelsNumber int    `json:"channels_number" db:"channels_number"`
	ChannelsOffset int    `json:"channels_offset" db:"channels_offset"`
	DataSourceID   int    `json:"data_source_id" db:"data_source_id"`
}

// ChannelRange returns the half-open interval of channel ids read out by the
// module. The end saturates at math.MaxInt.
func (m DataModule) ChannelRange() (first int, end int) {
	if m.ChannelsNumber <= 0 {
		return m.ChannelsOffset, m.ChannelsOffset
	}
	if m.ChannelsOffset > math.MaxInt-m.ChannelsNumber {
		return m.ChannelsOffset, math.MaxInt
	}
	return m.ChannelsOffset, m.ChannelsOffset + m.ChannelsNumber
}

// Contains reports whether channelID is read out by the module.
func (m DataModule) Contains(channelID int) bool {
	if m.ChannelsNumber <= 0 || channelID < m.ChannelsOffset {
		return false
	}
	// the difference of two ints always fits in a uint
	return uint(channelID)-uint(m.ChannelsOffset) < uint(m.ChannelsNumber)
}
