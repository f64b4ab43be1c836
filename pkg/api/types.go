package api

import (
	"encoding/json"

	"github.com/gwarc/gwarc/pkg/segments"
)

// FileRecord describes one remote strain data file as listed by the
// archive. Records are decoded from API responses and never mutated.
type FileRecord struct {
	URL          string `json:"url"`
	Detector     string `json:"detector"`
	Format       string `json:"format"`
	SamplingRate int    `json:"sampling_rate"`
	GPSStart     int64  `json:"GPSstart"`
	Duration     int64  `json:"duration"`
}

// Segment returns the half-open GPS interval covered by the file.
func (f FileRecord) Segment() segments.Segment {
	return segments.Segment{Start: f.GPSStart, End: f.GPSStart + f.Duration}
}

// StrainExtent returns the GPS [start, end) interval spanned by a list
// of strain file records.
func StrainExtent(records []FileRecord) (segments.Segment, error) {
	segs := make([]segments.Segment, len(records))
	for i, r := range records {
		segs[i] = r.Segment()
	}
	return segments.Extent(segs)
}

// RunMetadata describes one observing-run dataset.
type RunMetadata struct {
	GPSStart  int64    `json:"GPSstart"`
	GPSEnd    int64    `json:"GPSend"`
	Detectors []string `json:"detectors"`
}

// Segment returns the [GPSstart, GPSend) interval of the run.
func (r RunMetadata) Segment() segments.Segment {
	return segments.Segment{Start: r.GPSStart, End: r.GPSEnd}
}

// DatasetIndex is the archive's top-level dataset listing.
type DatasetIndex struct {
	Runs map[string]RunMetadata `json:"runs"`
}

// EventMetadata describes one event dataset release.
type EventMetadata struct {
	GPS              float64      `json:"GPS"`
	CommonName       string       `json:"commonName"`
	Version          int          `json:"version"`
	CatalogShortName string       `json:"catalog.shortName"`
	JSONURL          string       `json:"jsonurl"`
	Strain           []FileRecord `json:"strain"`
}

// AllEvents is the event API listing, keyed by fully qualified dataset
// name (commonName plus release suffix).
type AllEvents struct {
	Events map[string]EventMetadata `json:"events"`
}

// RunLinks is the per-run file listing for one detector and interval.
type RunLinks struct {
	Dataset  string       `json:"dataset"`
	GPSStart int64        `json:"GPSstart"`
	GPSEnd   int64        `json:"GPSend"`
	Strain   []FileRecord `json:"strain"`
}

// TimelineSegments is the response of the timeline segment API.
type TimelineSegments struct {
	Segments [][2]int64 `json:"segments"`
}

// LegacyCatalog is the legacy per-catalog file listing. The per-event
// files object mixes fixed keys with per-detector URL trees, so it is
// kept raw and reshaped by the catalog package.
type LegacyCatalog struct {
	Data map[string]LegacyCatalogEvent `json:"data"`
}

// LegacyCatalogEvent is one event entry in a legacy catalog listing.
type LegacyCatalogEvent struct {
	Files map[string]json.RawMessage `json:"files"`
}
