package setup

import (
	"cmp"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// MergeReport summarises a merge.
type MergeReport struct {
	LinkedChannels   int
	UnlinkedChannels int
	Overlaps         []*ErrChannelRangeOverlap
}

// Merge attaches the DAQ data sources and modules to the setup document and
// links every channel to the module whose channel range contains its id.
// When ranges overlap the later module wins; with strict set an overlap is an
// error instead and the document is left untouched.
func Merge(doc *Document, daq DAQConfig, strict bool) (MergeReport, error) {
	report := MergeReport{Overlaps: FindRangeOverlaps(daq.DataModules)}
	for _, overlap := range report.Overlaps {
		if strict {
			return report, overlap
		}
		logger.Error(fmt.Sprintf("warning: %v, later module wins", overlap))
	}

	// later modules overwrite earlier ones
	assigned := make(map[int]int, len(doc.Channel))
	linked := make(map[int]int, len(daq.DataModules))
	for i, channel := range doc.Channel {
		for _, module := range daq.DataModules {
			if module.Contains(channel.ID) {
				assigned[i] = module.ID
			}
		}
	}

	doc.DataSource = daq.DataSources
	doc.DataModule = daq.DataModules
	doc.forgetRecords("data_source", "data_module")
	for i := range doc.Channel {
		moduleID, ok := assigned[i]
		if !ok {
			doc.Channel[i].DataModuleID = nil
			report.UnlinkedChannels++
			continue
		}
		doc.Channel[i].DataModuleID = &moduleID
		linked[moduleID]++
		report.LinkedChannels++
	}

	if verbosity > 1 {
		for _, module := range daq.DataModules {
			first, end := module.ChannelRange()
			message := fmt.Sprintf("Data module %d (%s): channels [%d, %d), %d linked",
				module.ID, module.TrbnetAddress, first, end, linked[module.ID])
			logger.Info(message, "merger")
		}
	}

	if verbosity > 0 {
		message := fmt.Sprintf("%d data sources, %d data modules, %d channels linked, %d unlinked",
			len(doc.DataSource), len(doc.DataModule), report.LinkedChannels, report.UnlinkedChannels)
		logger.Info(message, "merger")
	}
	return report, nil
}

// FindRangeOverlaps returns every pair of modules whose channel ranges
// intersect, ordered by the start of the intersection.
func FindRangeOverlaps(modules []DataModule) []*ErrChannelRangeOverlap {
	sorted := slices.Clone(modules)
	slices.SortStableFunc(sorted, func(a, b DataModule) int {
		return cmp.Compare(a.ChannelsOffset, b.ChannelsOffset)
	})

	var overlaps []*ErrChannelRangeOverlap
	for i := range sorted {
		_, endI := sorted[i].ChannelRange()
		for j := i + 1; j < len(sorted); j++ {
			firstJ, endJ := sorted[j].ChannelRange()
			if firstJ >= endI {
				break
			}
			if sorted[j].ChannelsNumber <= 0 || sorted[i].ChannelsNumber <= 0 {
				continue
			}
			overlaps = append(overlaps, &ErrChannelRangeOverlap{
				FirstModule:  sorted[i].ID,
				SecondModule: sorted[j].ID,
				From:         firstJ,
				To:           min(endI, endJ),
			})
		}
	}
	return overlaps
}

// IsRangeOverlap reports whether err was caused by overlapping modules.
func IsRangeOverlap(err error) bool {
	var overlap *ErrChannelRangeOverlap
	return errors.As(err, &overlap)
}
