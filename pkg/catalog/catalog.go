// Package catalog reshapes the archive's legacy per-catalog file
// listings into dataset and event name lists.
package catalog

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/gwarc/gwarc/pkg/api"
	"github.com/gwarc/gwarc/pkg/segments"
)

// Datasets returns the "<event>_<revision>" dataset names in a legacy
// catalog, optionally filtered by detector and overlap segment.
func Datasets(c *api.Client, catalog, detector string, segment *segments.Segment) ([]string, error) {
	legacy, err := c.FetchLegacyCatalog(catalog)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(legacy.Data))
	for event := range legacy.Data {
		keys = append(keys, event)
	}
	sort.Strings(keys)

	var names []string
	for _, event := range keys {
		files := legacy.Data[event].Files

		revision, err := stringField(files, "DataRevisionNum")
		if err != nil {
			return nil, fmt.Errorf("catalog %q event %q: %w", catalog, event, err)
		}
		operating, err := stringField(files, "OperatingIFOs")
		if err != nil {
			return nil, fmt.Errorf("catalog %q event %q: %w", catalog, event, err)
		}
		detectors := strings.Fields(operating)

		if detector != "" && !slices.Contains(detectors, detector) {
			continue
		}

		if segment != nil {
			var urls []string
			for _, det := range detectors {
				raw, ok := files[det]
				if !ok {
					continue
				}
				urls = append(urls, nestedStrings(raw)...)
			}
			if len(urls) == 0 {
				continue
			}
			extent, err := segments.URLExtent(urls)
			if err != nil {
				return nil, err
			}
			if !segments.Overlaps(*segment, extent) {
				continue
			}
		}

		names = append(names, fmt.Sprintf("%s_%s", event, revision))
	}
	return names, nil
}

// Events returns the event names in a legacy catalog, with revision
// suffixes stripped.
func Events(c *api.Client, catalog, detector string, segment *segments.Segment) ([]string, error) {
	names, err := Datasets(c, catalog, detector, segment)
	if err != nil {
		return nil, err
	}
	events := make([]string, len(names))
	for i, name := range names {
		if idx := strings.LastIndex(name, "_"); idx >= 0 {
			name = name[:idx]
		}
		events[i] = name
	}
	return events, nil
}

func stringField(files map[string]json.RawMessage, key string) (string, error) {
	raw, ok := files[key]
	if !ok {
		return "", fmt.Errorf("missing %q", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	// some listings carry the revision as a bare number
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("cannot decode %q", key)
}

// nestedStrings walks an arbitrarily nested JSON object and collects
// its string leaves, which in legacy listings are file URLs.
func nestedStrings(raw json.RawMessage) []string {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return stringLeaves(value)
}

func stringLeaves(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var out []string
		for _, key := range keys {
			out = append(out, stringLeaves(v[key])...)
		}
		return out
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, stringLeaves(item)...)
		}
		return out
	}
	return nil
}
