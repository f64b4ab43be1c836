package strainurl

import (
	"path"
	"slices"
	"sort"
	"strings"
)

// MatchOptions narrows a URL match. Zero values leave a field
// unconstrained. Version must be supplied as an integer; use
// ParseVersion to normalize tagged version strings first.
type MatchOptions struct {
	Detector   string
	Start      int64
	End        int64
	Tag        string
	SampleRate int
	Version    int
	Duration   int64
	Ext        string
}

// Match selects the URLs that satisfy the given options for a
// [start, end) interval. Files that only partially overlap the window
// are accepted. Matched URLs are grouped by data-release version and
// the highest version group is returned, unless Version pins one; an
// empty result is not an error.
//
// If the matched URLs carry more than one distinct tag and none was
// pinned, Match fails with an AmbiguousTagError: tags distinguish
// different data products and the caller must choose.
func Match(urls []string, opts MatchOptions) ([]string, error) {
	// sort by reversed basename components: duration, then start time
	sorted := make([]string, len(urls))
	copy(sorted, urls)
	keys := make(map[string][]string, len(urls))
	for _, u := range sorted {
		keys[u] = reverseNameComponents(u)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return slices.Compare(keys[sorted[i]], keys[sorted[j]]) < 0
	})

	matched := make(map[int][]string)
	tags := make(map[string]struct{})

	for _, u := range sorted {
		parsed, err := Parse(u)
		if err != nil {
			return nil, err
		}
		if !matchParsed(parsed, opts) {
			continue
		}
		tags[parsed.Tag] = struct{}{}
		matched[parsed.Version] = append(matched[parsed.Version], u)
	}

	if len(tags) > 1 {
		found := make([]string, 0, len(tags))
		for tag := range tags {
			found = append(found, tag)
		}
		sort.Strings(found)
		return nil, &AmbiguousTagError{Tags: found}
	}

	best := -1
	for version := range matched {
		if version > best {
			best = version
		}
	}
	if best < 0 {
		return []string{}, nil
	}
	return matched[best], nil
}

func matchParsed(p ParsedFilename, opts MatchOptions) bool {
	if opts.Detector != "" && p.Detector != opts.Detector {
		return false
	}
	if opts.Tag != "" && p.Tag != opts.Tag {
		return false
	}
	if opts.Version != 0 && p.Version != opts.Version {
		return false
	}
	if opts.SampleRate != 0 && p.SampleRate != opts.SampleRate {
		return false
	}
	if opts.Duration != 0 && p.Duration != opts.Duration {
		return false
	}
	if opts.Ext != "" && p.Ext != opts.Ext {
		return false
	}
	if opts.End != 0 && p.Start >= opts.End {
		return false // file starts after the window
	}
	if opts.Start != 0 && p.Start+p.Duration <= opts.Start {
		return false // file ends before the window
	}
	return true
}

// reverseNameComponents splits an extension-less basename on '-' and
// reverses the parts, yielding a duration-then-start sort key that is
// stable regardless of input order.
func reverseNameComponents(url string) []string {
	base := path.Base(url)
	base = strings.TrimSuffix(base, path.Ext(base))
	parts := strings.Split(base, "-")
	slices.Reverse(parts)
	return parts
}
