package strainurl

import (
	"iter"

	"github.com/gwarc/gwarc/pkg/api"
	"github.com/gwarc/gwarc/pkg/segments"
)

// Sieve filters a strain file listing by exact-match criteria and an
// optional overlap segment. Criteria keys name file record attributes
// ("url", "detector", "format", "sampling_rate", "GPSstart",
// "duration"); nil values are ignored. An unknown key fails the whole
// call before any record is considered.
//
// The returned sequence is lazy and preserves the input order; ranging
// over it again restarts from the beginning.
func Sieve(records []api.FileRecord, segment *segments.Segment, criteria map[string]any) (iter.Seq[api.FileRecord], error) {
	active := make(map[string]any)
	for key, value := range criteria {
		if value == nil {
			continue
		}
		if !knownCriterion(key) {
			return nil, &UnknownCriterionError{Key: key}
		}
		active[key] = value
	}

	seq := func(yield func(api.FileRecord) bool) {
		for _, record := range records {
			if !recordMatches(record, active) {
				continue
			}
			if segment != nil && !segments.Overlaps(record.Segment(), *segment) {
				continue
			}
			if !yield(record) {
				return
			}
		}
	}
	return seq, nil
}

// SieveList is a convenience wrapper around Sieve collecting the
// matches into a slice.
func SieveList(records []api.FileRecord, segment *segments.Segment, criteria map[string]any) ([]api.FileRecord, error) {
	seq, err := Sieve(records, segment, criteria)
	if err != nil {
		return nil, err
	}
	var out []api.FileRecord
	for record := range seq {
		out = append(out, record)
	}
	return out, nil
}

func knownCriterion(key string) bool {
	switch key {
	case "url", "detector", "format", "sampling_rate", "GPSstart", "duration":
		return true
	}
	return false
}

func recordMatches(r api.FileRecord, criteria map[string]any) bool {
	for key, want := range criteria {
		var got any
		switch key {
		case "url":
			got = r.URL
		case "detector":
			got = r.Detector
		case "format":
			got = r.Format
		case "sampling_rate":
			got = r.SamplingRate
		case "GPSstart":
			got = r.GPSStart
		case "duration":
			got = r.Duration
		}
		if !criterionEqual(want, got) {
			return false
		}
	}
	return true
}

// criterionEqual compares a caller-supplied criterion value against a
// record attribute, tolerating the int/int64 split across record
// fields.
func criterionEqual(want, got any) bool {
	wi, wok := toInt64(want)
	gi, gok := toInt64(got)
	if wok && gok {
		return wi == gi
	}
	return want == got
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
