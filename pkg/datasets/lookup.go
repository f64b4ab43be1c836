package datasets

import (
	"fmt"
	"math"
	"sort"

	"github.com/gwarc/gwarc/pkg/api"
	"github.com/gwarc/gwarc/pkg/segments"
	"github.com/gwarc/gwarc/pkg/strainurl"
)

// EventGPS returns the GPS time of an open-data event. An empty catalog
// or zero version leaves that qualifier unpinned.
func EventGPS(c *api.Client, event, catalog string, version int) (float64, error) {
	_, meta, err := resolveEvent(c, event, catalog, version, false)
	if err != nil {
		return 0, err
	}
	return meta.GPS, nil
}

// EventSegment returns the GPS [start, end) interval covered by an
// event dataset's strain files, optionally restricted to one detector.
func EventSegment(c *api.Client, event, detector, catalog string, version int) (segments.Segment, error) {
	_, meta, err := resolveEvent(c, event, catalog, version, true)
	if err != nil {
		return segments.Segment{}, err
	}
	if len(meta.Strain) == 0 {
		return segments.Segment{}, fmt.Errorf("event %q has no strain files", event)
	}

	criteria := map[string]any{}
	if detector != "" {
		criteria["detector"] = detector
	}
	strain, err := strainurl.SieveList(meta.Strain, nil, criteria)
	if err != nil {
		return segments.Segment{}, err
	}
	return api.StrainExtent(strain)
}

// EventDetectors returns the sorted set of detectors with data files in
// an event's release.
func EventDetectors(c *api.Client, event, catalog string, version int) ([]string, error) {
	_, meta, err := resolveEvent(c, event, catalog, version, true)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var detectors []string
	for _, r := range meta.Strain {
		if _, ok := seen[r.Detector]; ok {
			continue
		}
		seen[r.Detector] = struct{}{}
		detectors = append(detectors, r.Detector)
	}
	sort.Strings(detectors)
	return detectors, nil
}

// EventAtGPS returns the common name of the first event whose GPS time
// lies within tolerance seconds (inclusive) of gps.
func EventAtGPS(c *api.Client, gps, tolerance float64) (string, error) {
	all, err := c.FetchAllEvents(false)
	if err != nil {
		return "", err
	}
	for _, key := range sortedEventKeys(all.Events) {
		meta := all.Events[key]
		if math.Abs(meta.GPS-gps) <= tolerance {
			return meta.CommonName, nil
		}
	}
	return "", notFoundf("no event found within %v seconds of %v", tolerance, gps)
}

// RunSegment returns the GPS [start, end) interval covered by a run
// dataset.
func RunSegment(c *api.Client, run string) (segments.Segment, error) {
	index, err := c.FetchDatasetIndex(0, api.MaxGPS)
	if err != nil {
		return segments.Segment{}, err
	}
	meta, ok := index.Runs[run]
	if !ok {
		return segments.Segment{}, notFoundf("no run dataset found for %q", run)
	}
	return meta.Segment(), nil
}

// RunAtGPS returns the name of the first run dataset whose interval
// contains gps.
func RunAtGPS(c *api.Client, gps float64) (string, error) {
	index, err := c.FetchDatasetIndex(0, api.MaxGPS)
	if err != nil {
		return "", err
	}
	keys := make([]string, 0, len(index.Runs))
	for name := range index.Runs {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		if _, skip := ignoredRuns[name]; skip {
			continue
		}
		meta := index.Runs[name]
		if float64(meta.GPSStart) <= gps && gps < float64(meta.GPSEnd) {
			return name, nil
		}
	}
	return "", notFoundf("no run dataset found containing GPS %v", gps)
}

// DatasetType returns the type of the named dataset, one of "run",
// "catalog", or "event".
func DatasetType(c *api.Client, dataset string) (string, error) {
	for _, typ := range []string{"run", "catalog", "event"} {
		names, err := FindDatasets(c, FindOptions{Type: typ})
		if err != nil {
			return "", err
		}
		for _, name := range names {
			if name == dataset {
				return typ, nil
			}
		}
	}
	return "", notFoundf("failed to determine type for dataset %q", dataset)
}
