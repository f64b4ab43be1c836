// Package locate finds the remote strain file URLs covering a GPS
// interval for a detector.
package locate

import (
	"fmt"

	"github.com/gwarc/gwarc/pkg/api"
	"github.com/gwarc/gwarc/pkg/datasets"
	"github.com/gwarc/gwarc/pkg/segments"
	"github.com/gwarc/gwarc/pkg/strainurl"
)

const (
	defaultSampleRate = 4096
	defaultFormat     = "hdf5"
)

// CoverageError reports that no candidate dataset fully covered the
// requested interval.
type CoverageError struct {
	Detector string
	Segment  segments.Segment
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("cannot find a dataset for %s covering [%d, %d)",
		e.Detector, e.Segment.Start, e.Segment.End)
}

// Options narrows a URL search. Zero values select the defaults
// (4096 Hz hdf5 files, all datasets, highest version).
type Options struct {
	Dataset    string
	Version    int
	Tag        string
	SampleRate int
	Format     string
}

// GetURLs returns the remote file URLs covering [start, end) for a
// detector. Event datasets are tried before runs since their file sets
// are smaller and more specific; the first candidate whose matched URLs
// fully cover the interval wins. Coverage is all-or-nothing: partial
// results are never returned.
func GetURLs(c *api.Client, detector string, start, end int64, opts Options) ([]string, error) {
	if opts.SampleRate == 0 {
		opts.SampleRate = defaultSampleRate
	}
	if opts.Format == "" {
		opts.Format = defaultFormat
	}
	target := segments.Segment{Start: start, End: end}

	var dstypes []string
	if opts.Dataset != "" {
		typ, err := datasets.DatasetType(c, opts.Dataset)
		if err != nil {
			return nil, err
		}
		dstypes = []string{typ}
	} else {
		dstypes = []string{"event", "run"}
	}

	for _, typ := range dstypes {
		var dsets []string
		if opts.Dataset != "" {
			dsets = []string{opts.Dataset}
		} else {
			var err error
			dsets, err = datasets.ListDatasets(c, datasets.FindOptions{
				Type:     typ,
				Detector: detector,
				Segment:  &target,
				Version:  opts.Version,
			})
			if err != nil {
				return nil, err
			}
		}

		for _, dset := range dsets {
			var urls []string
			var err error
			if typ == "run" {
				urls, err = GetRunURLs(c, dset, detector, start, end, opts)
			} else {
				urls, err = GetEventURLs(c, dset, EventOptions{
					Detector:   detector,
					Start:      start,
					End:        end,
					Version:    opts.Version,
					Tag:        opts.Tag,
					SampleRate: opts.SampleRate,
					Format:     opts.Format,
				})
			}
			if err != nil {
				return nil, err
			}
			if segments.FullCoverage(urls, target) {
				return urls, nil
			}
		}
	}

	return nil, &CoverageError{Detector: detector, Segment: target}
}

// GetRunURLs returns the matching file URLs within one run dataset.
func GetRunURLs(c *api.Client, run, detector string, start, end int64, opts Options) ([]string, error) {
	if opts.SampleRate == 0 {
		opts.SampleRate = defaultSampleRate
	}
	if opts.Format == "" {
		opts.Format = defaultFormat
	}

	links, err := c.FetchRunLinks(run, detector, start, end)
	if err != nil {
		return nil, err
	}

	strain, err := strainurl.SieveList(links.Strain, nil, map[string]any{
		"format":        opts.Format,
		"sampling_rate": opts.SampleRate,
	})
	if err != nil {
		return nil, err
	}

	return strainurl.Match(recordURLs(strain), strainurl.MatchOptions{
		Detector:   detector,
		Start:      start,
		End:        end,
		Tag:        opts.Tag,
		SampleRate: opts.SampleRate,
		Version:    opts.Version,
		Ext:        opts.Format,
	})
}

// EventOptions narrows an event URL search. Zero Start and End leave
// the time window open.
type EventOptions struct {
	Catalog    string
	Version    int
	Detector   string
	Start      int64
	End        int64
	Tag        string
	SampleRate int
	Format     string
}

// GetEventURLs returns the matching file URLs for one event dataset.
func GetEventURLs(c *api.Client, event string, opts EventOptions) ([]string, error) {
	if opts.SampleRate == 0 {
		opts.SampleRate = defaultSampleRate
	}
	if opts.Format == "" {
		opts.Format = defaultFormat
	}

	meta, err := datasets.ResolveEventStrain(c, event, opts.Catalog, opts.Version)
	if err != nil {
		return nil, err
	}

	var window *segments.Segment
	if opts.Start != 0 || opts.End != 0 {
		seg := segments.Segment{Start: opts.Start, End: api.MaxGPS}
		if opts.End != 0 {
			seg.End = opts.End
		}
		window = &seg
	}

	criteria := map[string]any{
		"format":        opts.Format,
		"sampling_rate": opts.SampleRate,
	}
	if opts.Detector != "" {
		criteria["detector"] = opts.Detector
	}
	strain, err := strainurl.SieveList(meta.Strain, window, criteria)
	if err != nil {
		return nil, err
	}

	return strainurl.Match(recordURLs(strain), strainurl.MatchOptions{
		Detector:   opts.Detector,
		Start:      opts.Start,
		End:        opts.End,
		Tag:        opts.Tag,
		SampleRate: opts.SampleRate,
		Version:    opts.Version,
		Ext:        opts.Format,
	})
}

func recordURLs(records []api.FileRecord) []string {
	urls := make([]string, len(records))
	for i, r := range records {
		urls[i] = r.URL
	}
	return urls
}
