// Package timeline queries data-quality segment lists for a flag and
// GPS interval.
package timeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gwarc/gwarc/pkg/api"
	"github.com/gwarc/gwarc/pkg/datasets"
	"github.com/gwarc/gwarc/pkg/segments"
)

// GetSegments returns the [start, end) GPS segments for a flag, e.g.
// "H1_DATA", within the given interval.
func GetSegments(c *api.Client, flag string, start, end int64) ([]segments.Segment, error) {
	dataset, err := findRunDataset(c, flag, start, end)
	if err != nil {
		return nil, err
	}
	resp, err := c.FetchTimelineSegments(dataset, flag, start, end-start)
	if err != nil {
		return nil, err
	}
	segs := make([]segments.Segment, len(resp.Segments))
	for i, s := range resp.Segments {
		segs[i] = segments.Segment{Start: s[0], End: s[1]}
	}
	return segs, nil
}

// URL returns the timeline segment endpoint URL for a flag name and GPS
// interval.
func URL(c *api.Client, flag string, start, end int64) (string, error) {
	dataset, err := findRunDataset(c, flag, start, end)
	if err != nil {
		return "", err
	}
	return c.TimelineURL(dataset, flag, start, end-start), nil
}

// findRunDataset picks the run dataset with the largest overlap with
// the query interval for the flag's detector, breaking ties by name.
func findRunDataset(c *api.Client, flag string, start, end int64) (string, error) {
	detector, _, _ := strings.Cut(flag, "_")
	target := segments.Segment{Start: start, End: end}

	runs, err := datasets.ListDatasets(c, datasets.FindOptions{
		Type:     "run",
		Detector: detector,
		Segment:  &target,
	})
	if err != nil {
		return "", err
	}

	type scored struct {
		name    string
		missing int64 // seconds of the query not covered by the run
	}
	var epochs []scored
	for _, run := range runs {
		seg, err := datasets.RunSegment(c, run)
		if err != nil {
			return "", err
		}
		overlap := min(end, seg.End) - max(start, seg.Start)
		epochs = append(epochs, scored{name: run, missing: (end - start) - overlap})
	}
	if len(epochs) == 0 {
		return "", fmt.Errorf("no run datasets found matching [%d, %d)", start, end)
	}

	sort.Slice(epochs, func(i, j int) bool {
		if epochs[i].missing != epochs[j].missing {
			return epochs[i].missing < epochs[j].missing
		}
		return epochs[i].name < epochs[j].name
	})
	return epochs[0].name, nil
}
