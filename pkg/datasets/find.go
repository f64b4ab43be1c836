// Package datasets resolves and discovers the run, event, and catalog
// datasets published by the archive.
package datasets

import (
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/gwarc/gwarc/pkg/api"
	"github.com/gwarc/gwarc/pkg/segments"
	"github.com/gwarc/gwarc/pkg/strainurl"
)

// internal bookkeeping epochs published alongside the real runs
var ignoredRuns = map[string]struct{}{
	"tenyear":    {},
	"history":    {},
	"oldhistory": {},
}

// FindOptions narrows a dataset search. Zero values leave a field
// unconstrained. Catalog and Version only apply to event datasets.
type FindOptions struct {
	Detector string
	Type     string // "run", "event", or "catalog"; empty matches all
	Segment  *segments.Segment
	Match    string // regular expression applied to dataset names
	Catalog  string
	Version  int
}

// FindDatasets returns the sorted names of all datasets matching the
// options.
func FindDatasets(c *api.Client, opts FindOptions) ([]string, error) {
	names, err := ListDatasets(c, opts)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// ListDatasets returns matching dataset names in search priority order:
// runs, catalogs, then events ranked by proximity to the query segment,
// catalog confidence, and version (highest first).
func ListDatasets(c *api.Client, opts FindOptions) ([]string, error) {
	typ := strings.TrimSuffix(strings.ToLower(opts.Type), "s")
	needRuns := typ == "" || typ == "run"
	needCatalogs := typ == "" || typ == "catalog"
	needEvents := typ == "" || typ == "event"

	var matchRe *regexp.Regexp
	if opts.Match != "" {
		var err error
		if matchRe, err = regexp.Compile(opts.Match); err != nil {
			return nil, err
		}
	}

	names := []string{}
	keep := func(name string) {
		if matchRe == nil || matchRe.MatchString(name) {
			names = append(names, name)
		}
	}

	if needRuns {
		runs, err := runDatasets(c, opts.Detector, opts.Segment)
		if err != nil {
			return nil, err
		}
		for _, name := range runs {
			keep(name)
		}
	}

	if needCatalogs {
		catalogs, err := catalogDatasets(c)
		if err != nil {
			return nil, err
		}
		for _, name := range catalogs {
			keep(name)
		}
	}

	if needEvents {
		events, err := eventDatasets(c, opts)
		if err != nil {
			return nil, err
		}
		for _, name := range events {
			keep(name)
		}
	}

	return names, nil
}

func runDatasets(c *api.Client, detector string, segment *segments.Segment) ([]string, error) {
	index, err := c.FetchDatasetIndex(0, api.MaxGPS)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(index.Runs))
	for name := range index.Runs {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	var names []string
	for _, name := range keys {
		if _, skip := ignoredRuns[name]; skip {
			continue
		}
		meta := index.Runs[name]
		if detector != "" && !slices.Contains(meta.Detectors, detector) {
			continue
		}
		if segment != nil && !segments.Overlaps(meta.Segment(), *segment) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func catalogDatasets(c *api.Client) ([]string, error) {
	list, err := c.FetchCatalogList()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for name := range list {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func eventDatasets(c *api.Client, opts FindOptions) ([]string, error) {
	full := opts.Detector != "" || opts.Segment != nil
	all, err := c.FetchAllEvents(full)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		key     string
		dist    int64
		rank    int
		version int
	}
	var cands []ranked
	for _, key := range sortedEventKeys(all.Events) {
		meta := all.Events[key]
		if opts.Version != 0 && meta.Version != opts.Version {
			continue
		}
		if opts.Catalog != "" && meta.CatalogShortName != opts.Catalog {
			continue
		}
		if full {
			ok, err := strainMatches(meta.Strain, opts.Detector, opts.Segment)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		cands = append(cands, ranked{
			key:     key,
			dist:    gpsDistance(meta.GPS, opts.Segment),
			rank:    catalogRank(meta.CatalogShortName),
			version: meta.Version,
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.version > b.version
	})

	names := make([]string, len(cands))
	for i, cand := range cands {
		names[i] = cand.key
	}
	return names, nil
}

// strainMatches reports whether an event's strain file list includes
// the detector and overlaps the segment.
func strainMatches(strain []api.FileRecord, detector string, segment *segments.Segment) (bool, error) {
	if detector != "" {
		found := false
		for _, r := range strain {
			if r.Detector == detector {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	if segment == nil {
		return true, nil
	}
	if len(strain) == 0 {
		return false, nil
	}

	criteria := map[string]any{}
	if detector != "" {
		criteria["detector"] = detector
	}
	filtered, err := strainurl.SieveList(strain, nil, criteria)
	if err != nil {
		return false, err
	}
	extent, err := api.StrainExtent(filtered)
	if err != nil {
		return false, nil // nothing left after the sieve
	}
	return segments.Overlaps(*segment, extent), nil
}

func gpsDistance(gps float64, segment *segments.Segment) int64 {
	if segment == nil {
		return 0
	}
	return int64(math.Abs(float64(segment.Start) - gps))
}

// catalogRank orders catalogs by confidence: confident detections
// first, marginal and preliminary releases last.
func catalogRank(shortName string) int {
	name := strings.ToLower(shortName)
	if strings.Contains(name, "confident") {
		return 1
	}
	if strings.Contains(name, "marginal") || strings.Contains(name, "preliminary") {
		return 10
	}
	return 5
}
