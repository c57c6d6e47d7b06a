package setup

// FtabKey addresses one input of an FTAB board: scintillator in the module
// (after mirroring for side B), PM position in the matrix and threshold.
type FtabKey struct {
	Scin int
	Pos  int
	Thr  int
}

const (
	FtabScins      = 13
	FtabPositions  = 4
	FtabThresholds = 2
	// Offset 0 of every side block is the FTAB reference time channel
	FtabMaxOffset  = FtabScins * FtabPositions * FtabThresholds
)

// FtabMapping gives the offset of every input inside the 105 channel block
// of one module side. Each scintillator occupies one 8 pin front connector;
// odd scintillators are cabled to connectors 1-7 and even ones to 8-13.
// Pins carry threshold 1 of positions 1-4 then threshold 2.
var FtabMapping = map[FtabKey]int{
	// scin 1
	{1, 1, 1}: 1, {1, 1, 2}: 5, {1, 2, 1}: 2, {1, 2, 2}: 6,
	{1, 3, 1}: 3, {1, 3, 2}: 7, {1, 4, 1}: 4, {1, 4, 2}: 8,
	// scin 2
	{2, 1, 1}: 57, {2, 1, 2}: 61, {2, 2, 1}: 58, {2, 2, 2}: 62,
	{2, 3, 1}: 59, {2, 3, 2}: 63, {2, 4, 1}: 60, {2, 4, 2}: 64,
	// scin 3
	{3, 1, 1}: 9, {3, 1, 2}: 13, {3, 2, 1}: 10, {3, 2, 2}: 14,
	{3, 3, 1}: 11, {3, 3, 2}: 15, {3, 4, 1}: 12, {3, 4, 2}: 16,
	// scin 4
	{4, 1, 1}: 65, {4, 1, 2}: 69, {4, 2, 1}: 66, {4, 2, 2}: 70,
	{4, 3, 1}: 67, {4, 3, 2}: 71, {4, 4, 1}: 68, {4, 4, 2}: 72,
	// scin 5
	{5, 1, 1}: 17, {5, 1, 2}: 21, {5, 2, 1}: 18, {5, 2, 2}: 22,
	{5, 3, 1}: 19, {5, 3, 2}: 23, {5, 4, 1}: 20, {5, 4, 2}: 24,
	// scin 6
	{6, 1, 1}: 73, {6, 1, 2}: 77, {6, 2, 1}: 74, {6, 2, 2}: 78,
	{6, 3, 1}: 75, {6, 3, 2}: 79, {6, 4, 1}: 76, {6, 4, 2}: 80,
	// scin 7
	{7, 1, 1}: 25, {7, 1, 2}: 29, {7, 2, 1}: 26, {7, 2, 2}: 30,
	{7, 3, 1}: 27, {7, 3, 2}: 31, {7, 4, 1}: 28, {7, 4, 2}: 32,
	// scin 8
	{8, 1, 1}: 81, {8, 1, 2}: 85, {8, 2, 1}: 82, {8, 2, 2}: 86,
	{8, 3, 1}: 83, {8, 3, 2}: 87, {8, 4, 1}: 84, {8, 4, 2}: 88,
	// scin 9
	{9, 1, 1}: 33, {9, 1, 2}: 37, {9, 2, 1}: 34, {9, 2, 2}: 38,
	{9, 3, 1}: 35, {9, 3, 2}: 39, {9, 4, 1}: 36, {9, 4, 2}: 40,
	// scin 10
	{10, 1, 1}: 89, {10, 1, 2}: 93, {10, 2, 1}: 90, {10, 2, 2}: 94,
	{10, 3, 1}: 91, {10, 3, 2}: 95, {10, 4, 1}: 92, {10, 4, 2}: 96,
	// scin 11
	{11, 1, 1}: 41, {11, 1, 2}: 45, {11, 2, 1}: 42, {11, 2, 2}: 46,
	{11, 3, 1}: 43, {11, 3, 2}: 47, {11, 4, 1}: 44, {11, 4, 2}: 48,
	// scin 12
	{12, 1, 1}: 97, {12, 1, 2}: 101, {12, 2, 1}: 98, {12, 2, 2}: 102,
	{12, 3, 1}: 99, {12, 3, 2}: 103, {12, 4, 1}: 100, {12, 4, 2}: 104,
	// scin 13
	{13, 1, 1}: 49, {13, 1, 2}: 53, {13, 2, 1}: 50, {13, 2, 2}: 54,
	{13, 3, 1}: 51, {13, 3, 2}: 55, {13, 4, 1}: 52, {13, 4, 2}: 56,
}

// FtabOffset returns the channel offset for key.
func FtabOffset(key FtabKey) (int, error) {
	offset, ok := FtabMapping[key]
	if !ok {
		return 0, &ErrMappingKeyNotFound{Key: key}
	}
	return offset, nil
}
