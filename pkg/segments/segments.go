// Package segments provides utilities for half-open GPS time intervals
// and for deriving the interval covered by an archive data file from its
// name.
package segments

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// ErrNoSegments is returned by Extent when given an empty input.
var ErrNoSegments = errors.New("cannot compute extent of zero segments")

// Segment is a half-open [Start, End) GPS interval.
type Segment struct {
	Start int64
	End   int64
}

// Overlaps reports whether two half-open GPS segments overlap.
// Touching endpoints do not count as overlap.
func Overlaps(a, b Segment) bool {
	return a.End > b.Start && a.Start < b.End
}

// Extent returns the [min(start), max(end)) interval spanned by segs.
func Extent(segs []Segment) (Segment, error) {
	if len(segs) == 0 {
		return Segment{}, ErrNoSegments
	}
	ext := segs[0]
	for _, s := range segs[1:] {
		if s.Start < ext.Start {
			ext.Start = s.Start
		}
		if s.End > ext.End {
			ext.End = s.End
		}
	}
	return ext, nil
}

// URLSegment returns the GPS segment covered by a URL following the
// LIGO-T050017 file naming convention, where the basename ends with
// the GPS start integer and integer duration:
//
//	<description>-<source>-<start>-<duration>.<ext>
func URLSegment(url string) (Segment, error) {
	base := path.Base(url)
	parts := strings.Split(base, "-")
	if len(parts) != 4 {
		return Segment{}, fmt.Errorf("cannot parse GPS segment from %q", base)
	}
	start, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Segment{}, fmt.Errorf("cannot parse GPS start from %q", base)
	}
	durStr, _, _ := strings.Cut(parts[3], ".")
	dur, err := strconv.ParseInt(durStr, 10, 64)
	if err != nil {
		return Segment{}, fmt.Errorf("cannot parse duration from %q", base)
	}
	return Segment{Start: start, End: start + dur}, nil
}

// URLOverlapsSegment reports whether the file named by url covers any
// part of the given segment.
func URLOverlapsSegment(url string, seg Segment) (bool, error) {
	useg, err := URLSegment(url)
	if err != nil {
		return false, err
	}
	return Overlaps(useg, seg), nil
}

// URLExtent returns the GPS [start, end) interval spanned by a list of
// file URLs.
func URLExtent(urls []string) (Segment, error) {
	segs := make([]Segment, 0, len(urls))
	for _, u := range urls {
		seg, err := URLSegment(u)
		if err != nil {
			return Segment{}, err
		}
		segs = append(segs, seg)
	}
	return Extent(segs)
}

// FullCoverage reports whether the list of URLs completely covers a GPS
// interval. The URL list is presumed contiguous, so this only checks
// that the extreme files reach both edges of the target; internal gaps
// are not detected.
func FullCoverage(urls []string, target Segment) bool {
	if len(urls) == 0 {
		return false
	}
	ext, err := URLExtent(urls)
	if err != nil {
		return false
	}
	return ext.Start <= target.Start && ext.End >= target.End
}
