// Package strainurl parses, filters, and matches strain data file URLs
// against query parameters.
package strainurl

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/gwarc/gwarc/pkg/segments"
)

// filenameRegex captures the archive file naming grammar:
//
//	<OBS>-<DET><digit>_<L|GW>OSC_[<TAG>_]<RATE>[KHZ]_<R|V><VERSION>-<START>-<DURATION>.<EXT>
var filenameRegex = regexp.MustCompile(
	`^(?:.*/)*` +
		`(?P<obs>[^/]+)-` +
		`(?P<det>[A-Z][0-9])_` +
		`(?:L|GW)OSC_` +
		`(?:(?P<tag>[^/]+)_)?` +
		`(?P<rate>[0-9]+)(?P<khz>KHZ)?_` +
		`[RV](?P<version>[0-9]+)-` +
		`(?P<start>[^/]+)-` +
		`(?P<dur>[^/.]+)\.` +
		`(?P<ext>[^/]+)$`,
)

var versionRegex = regexp.MustCompile(`^[RV][0-9]+$`)

// ParsedFilename is the structured form of an archive file basename.
// Parsing the same URL always yields the same result; names outside the
// grammar fail with a FormatError.
type ParsedFilename struct {
	Obs        string
	Detector   string
	Tag        string // empty when the name carries no tag
	SampleRate int    // Hz; a KHZ-suffixed rate is multiplied by 1024
	Version    int
	Start      int64
	Duration   int64
	Ext        string
}

// Segment returns the half-open GPS interval covered by the file.
func (p ParsedFilename) Segment() segments.Segment {
	return segments.Segment{Start: p.Start, End: p.Start + p.Duration}
}

// Parse extracts the structured fields from an archive file URL or
// basename.
func Parse(url string) (ParsedFilename, error) {
	base := path.Base(url)
	m := filenameRegex.FindStringSubmatch(base)
	if m == nil {
		return ParsedFilename{}, &FormatError{Name: base}
	}

	group := func(name string) string {
		return m[filenameRegex.SubexpIndex(name)]
	}

	rate, err := strconv.Atoi(group("rate"))
	if err != nil {
		return ParsedFilename{}, &FormatError{Name: base}
	}
	if group("khz") != "" {
		// archive convention: KHZ means units of 1024 Hz, not 1000
		rate *= 1024
	}
	version, err := strconv.Atoi(group("version"))
	if err != nil {
		return ParsedFilename{}, &FormatError{Name: base}
	}
	start, err := strconv.ParseInt(group("start"), 10, 64)
	if err != nil {
		return ParsedFilename{}, &FormatError{Name: base}
	}
	dur, err := strconv.ParseInt(group("dur"), 10, 64)
	if err != nil {
		return ParsedFilename{}, &FormatError{Name: base}
	}

	return ParsedFilename{
		Obs:        group("obs"),
		Detector:   group("det"),
		Tag:        group("tag"),
		SampleRate: rate,
		Version:    version,
		Start:      start,
		Duration:   dur,
		Ext:        group("ext"),
	}, nil
}

// ParseVersion normalizes a data-release version given either as a bare
// integer string or in tagged form ("R3", "V3") into an integer.
func ParseVersion(s string) (int, error) {
	s = strings.TrimSpace(s)
	if versionRegex.MatchString(s) {
		s = s[1:]
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FormatError{Name: s}
	}
	return v, nil
}
