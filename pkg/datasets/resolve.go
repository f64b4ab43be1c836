package datasets

import (
	"sort"
	"strings"

	"github.com/gwarc/gwarc/pkg/api"
)

type candidate struct {
	key  string
	meta api.EventMetadata
}

// ResolveEvent disambiguates a human-supplied event name into one fully
// qualified dataset release. A candidate matches when the name equals
// its dataset key, its common name, or the date prefix of its common
// name (the text before the first underscore). When several releases of
// the same event match, the highest version wins unless version pins
// one (a zero version leaves it unpinned); an empty catalog leaves the
// catalog unpinned.
//
// If the surviving candidates span more than one distinct common name
// the resolution is ambiguous and fails, unless one candidate's common
// name equals the query verbatim, in which case that event wins.
func ResolveEvent(c *api.Client, name, catalog string, version int) (string, api.EventMetadata, error) {
	return resolveEvent(c, name, catalog, version, false)
}

// ResolveEventStrain resolves an event like ResolveEvent but consults
// the full listing, so the returned metadata carries the strain file
// list.
func ResolveEventStrain(c *api.Client, name, catalog string, version int) (api.EventMetadata, error) {
	_, meta, err := resolveEvent(c, name, catalog, version, true)
	return meta, err
}

func resolveEvent(c *api.Client, name, catalog string, version int, full bool) (string, api.EventMetadata, error) {
	all, err := c.FetchAllEvents(full)
	if err != nil {
		return "", api.EventMetadata{}, err
	}

	var cands []candidate
	for _, key := range sortedEventKeys(all.Events) {
		meta := all.Events[key]
		if name == key || name == meta.CommonName || name == datePrefix(meta.CommonName) {
			cands = append(cands, candidate{key: key, meta: meta})
		}
	}
	if len(cands) == 0 {
		return "", api.EventMetadata{}, notFoundf("no event dataset found for %q", name)
	}

	if version != 0 {
		kept := cands[:0:0]
		for _, cand := range cands {
			if cand.meta.Version == version {
				kept = append(kept, cand)
			}
		}
		if len(kept) == 0 {
			return "", api.EventMetadata{}, notFoundf(
				"no event dataset found for %q at version %d", name, version)
		}
		cands = kept
	}

	if catalog != "" {
		kept := cands[:0:0]
		for _, cand := range cands {
			if cand.meta.CatalogShortName == catalog {
				kept = append(kept, cand)
			}
		}
		if len(kept) == 0 {
			return "", api.EventMetadata{}, notFoundf(
				"no event dataset found for %q in catalog %q", name, catalog)
		}
		cands = kept
	}

	if names := distinctCommonNames(cands); len(names) > 1 {
		// an exact common-name hit overrides the ambiguity
		exact := cands[:0:0]
		for _, cand := range cands {
			if cand.meta.CommonName == name {
				exact = append(exact, cand)
			}
		}
		if len(exact) == 0 {
			return "", api.EventMetadata{}, &AmbiguousDatasetError{Name: name, CommonNames: names}
		}
		cands = exact
	}

	best := cands[0]
	for _, cand := range cands[1:] {
		if cand.meta.Version > best.meta.Version {
			best = cand
		}
	}
	return best.key, best.meta, nil
}

// datePrefix returns the portion of an event common name before the
// first underscore, e.g. "GW190828_063405" -> "GW190828".
func datePrefix(commonName string) string {
	prefix, _, _ := strings.Cut(commonName, "_")
	return prefix
}

func distinctCommonNames(cands []candidate) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, cand := range cands {
		if _, ok := seen[cand.meta.CommonName]; ok {
			continue
		}
		seen[cand.meta.CommonName] = struct{}{}
		names = append(names, cand.meta.CommonName)
	}
	sort.Strings(names)
	return names
}

func sortedEventKeys(events map[string]api.EventMetadata) []string {
	keys := make([]string, 0, len(events))
	for key := range events {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
