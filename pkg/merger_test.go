package setup

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tdcModule(id int, offset int, number int) DataModule {
	return DataModule{ID: id, Type: "LATTICE_TDC", TrbnetAddress: "a110", ChannelsNumber: number,
		ChannelsOffset: offset, DataSourceID: id}
}

func daqWithModules(modules ...DataModule) DAQConfig {
	daq := DAQConfig{DataModules: modules}
	for _, module := range modules {
		daq.DataSources = append(daq.DataSources,
			DataSource{ID: module.DataSourceID, Type: "TRB3_S", TrbnetAddress: module.TrbnetAddress, HubAddress: "8000"})
	}
	return daq
}

func buildDefault(t *testing.T) *Document {
	t.Helper()
	doc, err := Build(DefaultGeometry())
	require.NoError(t, err)
	return doc
}

func TestMergeLinksChannelRange(t *testing.T) {
	doc := buildDefault(t)
	daq := daqWithModules(tdcModule(1, 2100, 105))

	report, err := Merge(doc, daq, false)
	require.NoError(t, err)
	assert.Equal(t, 104, report.LinkedChannels)
	assert.Equal(t, len(doc.Channel)-104, report.UnlinkedChannels)
	assert.Empty(t, report.Overlaps)

	for _, channel := range doc.Channel {
		if channel.ID >= 2100 && channel.ID < 2205 {
			require.NotNil(t, channel.DataModuleID, "channel %d", channel.ID)
			assert.Equal(t, 1, *channel.DataModuleID)
		} else {
			assert.Nil(t, channel.DataModuleID, "channel %d", channel.ID)
		}
	}
	assert.Equal(t, daq.DataSources, doc.DataSource)
	assert.Equal(t, daq.DataModules, doc.DataModule)
}

func TestMergeIsIdempotent(t *testing.T) {
	daq := daqWithModules(tdcModule(1, 2100, 105), tdcModule(2, 2205, 105))

	once := buildDefault(t)
	_, err := Merge(once, daq, false)
	require.NoError(t, err)

	twice := buildDefault(t)
	_, err = Merge(twice, daq, false)
	require.NoError(t, err)
	_, err = Merge(twice, daq, false)
	require.NoError(t, err)

	if diff := cmp.Diff(once, twice, ignoreInputFields); diff != "" {
		t.Errorf("second merge changed the document (-once +twice):\n%s", diff)
	}
}

func TestMergeClearsStaleLinks(t *testing.T) {
	doc := buildDefault(t)
	_, err := Merge(doc, daqWithModules(tdcModule(1, 2100, 105)), false)
	require.NoError(t, err)

	_, err = Merge(doc, daqWithModules(tdcModule(1, 2205, 105)), false)
	require.NoError(t, err)
	for _, channel := range doc.Channel {
		if channel.ID < 2205 {
			assert.Nil(t, channel.DataModuleID, "channel %d kept a stale module", channel.ID)
		}
	}
}

func TestMergeOverlapLaterModuleWins(t *testing.T) {
	doc := buildDefault(t)
	daq := daqWithModules(tdcModule(1, 2100, 105), tdcModule(2, 2150, 10))

	report, err := Merge(doc, daq, false)
	require.NoError(t, err)
	require.Len(t, report.Overlaps, 1)
	assert.Equal(t, ErrChannelRangeOverlap{FirstModule: 1, SecondModule: 2, From: 2150, To: 2160}, *report.Overlaps[0])

	for _, channel := range doc.Channel {
		switch {
		case channel.ID >= 2150 && channel.ID < 2160:
			assert.Equal(t, 2, *channel.DataModuleID, "channel %d", channel.ID)
		case channel.ID >= 2100 && channel.ID < 2205:
			assert.Equal(t, 1, *channel.DataModuleID, "channel %d", channel.ID)
		}
	}
}

func TestMergeStrictRejectsOverlap(t *testing.T) {
	doc := buildDefault(t)
	original := buildDefault(t)
	daq := daqWithModules(tdcModule(1, 2100, 105), tdcModule(2, 2150, 10))

	_, err := Merge(doc, daq, true)
	require.Error(t, err)
	assert.True(t, IsRangeOverlap(err))
	if diff := cmp.Diff(original, doc, ignoreInputFields); diff != "" {
		t.Errorf("strict merge modified the document (-want +got):\n%s", diff)
	}
}

func TestMergeEmptyDAQ(t *testing.T) {
	doc := buildDefault(t)
	report, err := Merge(doc, DAQConfig{}, false)
	require.NoError(t, err)
	assert.Zero(t, report.LinkedChannels)
	assert.Equal(t, len(doc.Channel), report.UnlinkedChannels)
}

func TestFindRangeOverlaps(t *testing.T) {
	tests := []struct {
		name    string
		modules []DataModule
		want    []*ErrChannelRangeOverlap
	}{
		{"disjoint", []DataModule{tdcModule(1, 2100, 105), tdcModule(2, 2205, 105)}, nil},
		{"adjacent unordered", []DataModule{tdcModule(2, 2205, 105), tdcModule(1, 2100, 105)}, nil},
		{"empty module", []DataModule{tdcModule(1, 2100, 105), tdcModule(2, 2150, 0)}, nil},
		{
			"partial",
			[]DataModule{tdcModule(1, 2100, 105), tdcModule(2, 2200, 10)},
			[]*ErrChannelRangeOverlap{{FirstModule: 1, SecondModule: 2, From: 2200, To: 2205}},
		},
		{
			"nested and chained",
			[]DataModule{tdcModule(3, 2300, 10), tdcModule(1, 2100, 300), tdcModule(2, 2150, 10)},
			[]*ErrChannelRangeOverlap{
				{FirstModule: 1, SecondModule: 2, From: 2150, To: 2160},
				{FirstModule: 1, SecondModule: 3, From: 2300, To: 2310},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindRangeOverlaps(tt.modules))
		})
	}
}

func TestDataModuleContains(t *testing.T) {
	module := tdcModule(1, 2100, 105)
	assert.True(t, module.Contains(2100))
	assert.True(t, module.Contains(2204))
	assert.False(t, module.Contains(2205))
	assert.False(t, module.Contains(2099))

	huge := tdcModule(2, 2100, math.MaxInt)
	assert.True(t, huge.Contains(2101))
	assert.True(t, huge.Contains(math.MaxInt))
	assert.False(t, huge.Contains(2099))

	negative := tdcModule(3, math.MinInt, math.MaxInt)
	assert.True(t, negative.Contains(-2))
	assert.False(t, negative.Contains(-1))

	assert.False(t, tdcModule(4, 2100, 0).Contains(2100))
	assert.False(t, tdcModule(5, 2100, -5).Contains(2100))
}

func TestDataModuleChannelRange(t *testing.T) {
	first, end := tdcModule(1, 2100, 105).ChannelRange()
	assert.Equal(t, [2]int{2100, 2205}, [2]int{first, end})

	first, end = tdcModule(2, 2100, math.MaxInt).ChannelRange()
	assert.Equal(t, [2]int{2100, math.MaxInt}, [2]int{first, end})

	first, end = tdcModule(3, 2100, -5).ChannelRange()
	assert.Equal(t, [2]int{2100, 2100}, [2]int{first, end})
}

func TestMergeLargeRanges(t *testing.T) {
	tests := []struct {
		name     string
		module   DataModule
		linksLow bool
	}{
		{"wide", tdcModule(1, 0, 1<<50), true},
		{"up to the largest id", tdcModule(1, 2100, math.MaxInt), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Channel: []Channel{{ID: 2101}, {ID: 2000}}}
			report, err := Merge(doc, daqWithModules(tt.module), false)
			require.NoError(t, err)
			require.NotNil(t, doc.Channel[0].DataModuleID)
			assert.Equal(t, 1, *doc.Channel[0].DataModuleID)
			assert.Equal(t, tt.linksLow, doc.Channel[1].DataModuleID != nil)
			assert.Equal(t, len(doc.Channel), report.LinkedChannels+report.UnlinkedChannels)
		})
	}
}

func TestMergeModuleWithIDZero(t *testing.T) {
	doc := &Document{Channel: []Channel{{ID: 2101}}}
	_, err := Merge(doc, daqWithModules(tdcModule(0, 2100, 105)), false)
	require.NoError(t, err)
	require.NotNil(t, doc.Channel[0].DataModuleID)
	assert.Equal(t, 0, *doc.Channel[0].DataModuleID)
}
