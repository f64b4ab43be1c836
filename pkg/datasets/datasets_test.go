package datasets

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gwarc/gwarc/pkg/api"
	"github.com/gwarc/gwarc/pkg/cache"
	"github.com/gwarc/gwarc/pkg/segments"
)

const runsJSON = `{
	"runs": {
		"S1":      {"GPSstart": 1000, "GPSend": 2000, "detectors": ["L1", "V1"]},
		"S2":      {"GPSstart": 3000, "GPSend": 4000, "detectors": ["H1", "L1"]},
		"tenyear": {"GPSstart": 0, "GPSend": 99999999999, "detectors": ["H1", "L1", "V1"]}
	}
}`

const catalogListJSON = `{
	"GWTC-1-confident":   {},
	"GWTC-2.1-confident": {}
}`

const allEventsJSON = `{
	"events": {
		"GW190828_063405-v1": {
			"GPS": 1251009263.8, "commonName": "GW190828_063405",
			"version": 1, "catalog.shortName": "GWTC-1-confident"
		},
		"GW190828_063405-v2": {
			"GPS": 1251009263.8, "commonName": "GW190828_063405",
			"version": 2, "catalog.shortName": "GWTC-2.1-confident"
		},
		"GW190828_065509-v1": {
			"GPS": 1251010527.9, "commonName": "GW190828_065509",
			"version": 1, "catalog.shortName": "GWTC-1-confident"
		}
	}
}`

const allEventsFullJSON = `{
	"events": {
		"GW190828_063405-v1": {
			"GPS": 1251009263.8, "commonName": "GW190828_063405",
			"version": 1, "catalog.shortName": "GWTC-1-confident",
			"strain": [
				{"url": "https://example.org/H-H1_GWOSC_4KHZ_R1-1251009218-32.hdf5",
				 "detector": "H1", "format": "hdf5", "sampling_rate": 4096,
				 "GPSstart": 1251009218, "duration": 32}
			]
		},
		"GW190828_063405-v2": {
			"GPS": 1251009263.8, "commonName": "GW190828_063405",
			"version": 2, "catalog.shortName": "GWTC-2.1-confident",
			"strain": [
				{"url": "https://example.org/H-H1_GWOSC_4KHZ_R2-1251009218-32.hdf5",
				 "detector": "H1", "format": "hdf5", "sampling_rate": 4096,
				 "GPSstart": 1251009218, "duration": 32},
				{"url": "https://example.org/L-L1_GWOSC_4KHZ_R2-1251009218-32.hdf5",
				 "detector": "L1", "format": "hdf5", "sampling_rate": 4096,
				 "GPSstart": 1251009218, "duration": 32}
			]
		},
		"GW190828_065509-v1": {
			"GPS": 1251010527.9, "commonName": "GW190828_065509",
			"version": 1, "catalog.shortName": "GWTC-1-confident",
			"strain": [
				{"url": "https://example.org/L-L1_GWOSC_4KHZ_R1-1251010496-32.hdf5",
				 "detector": "L1", "format": "hdf5", "sampling_rate": 4096,
				 "GPSstart": 1251010496, "duration": 32}
			]
		}
	}
}`

func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/archive/0/99999999999/json/":
			w.Write([]byte(runsJSON))
		case "/eventapi/json/":
			w.Write([]byte(catalogListJSON))
		case "/eventapi/json/allevents/":
			w.Write([]byte(allEventsJSON))
		case "/eventapi/jsonfull/allevents/":
			w.Write([]byte(allEventsFullJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, cache.NewMemoryCache(), nil)
}

func TestResolveEventDatePrefixAmbiguous(t *testing.T) {
	c := newTestClient(t)

	_, _, err := ResolveEvent(c, "GW190828", "", 0)
	var ambiguous *AmbiguousDatasetError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("error = %v, want *AmbiguousDatasetError", err)
	}
	want := []string{"GW190828_063405", "GW190828_065509"}
	if len(ambiguous.CommonNames) != 2 ||
		ambiguous.CommonNames[0] != want[0] || ambiguous.CommonNames[1] != want[1] {
		t.Errorf("CommonNames = %v, want %v", ambiguous.CommonNames, want)
	}
}

func TestResolveEventExactNameWins(t *testing.T) {
	c := newTestClient(t)

	key, meta, err := ResolveEvent(c, "GW190828_063405", "", 0)
	if err != nil {
		t.Fatalf("ResolveEvent returned error: %v", err)
	}
	if key != "GW190828_063405-v2" {
		t.Errorf("key = %q, want the highest version release", key)
	}
	if meta.Version != 2 {
		t.Errorf("Version = %d, want 2", meta.Version)
	}
}

func TestResolveEventPinnedVersion(t *testing.T) {
	c := newTestClient(t)

	key, _, err := ResolveEvent(c, "GW190828_063405", "", 1)
	if err != nil {
		t.Fatalf("ResolveEvent returned error: %v", err)
	}
	if key != "GW190828_063405-v1" {
		t.Errorf("key = %q, want GW190828_063405-v1", key)
	}
}

func TestResolveEventPinnedCatalog(t *testing.T) {
	c := newTestClient(t)

	key, _, err := ResolveEvent(c, "GW190828_063405", "GWTC-1-confident", 0)
	if err != nil {
		t.Fatalf("ResolveEvent returned error: %v", err)
	}
	if key != "GW190828_063405-v1" {
		t.Errorf("key = %q, want GW190828_063405-v1", key)
	}
}

func TestResolveEventNotFoundMessages(t *testing.T) {
	c := newTestClient(t)

	_, _, err := ResolveEvent(c, "GW000000", "", 0)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	msg := err.Error()
	if strings.Contains(msg, "version") || strings.Contains(msg, "catalog") {
		t.Errorf("plain miss should name neither filter: %q", msg)
	}

	_, _, err = ResolveEvent(c, "GW190828_063405", "", 9)
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if !strings.Contains(err.Error(), "version 9") {
		t.Errorf("version miss should name the version: %q", err.Error())
	}

	_, _, err = ResolveEvent(c, "GW190828_063405", "NOPE", 0)
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if !strings.Contains(err.Error(), `catalog "NOPE"`) {
		t.Errorf("catalog miss should name the catalog: %q", err.Error())
	}
}

func TestFindDatasetsRunDetector(t *testing.T) {
	c := newTestClient(t)

	names, err := FindDatasets(c, FindOptions{Detector: "V1", Type: "run"})
	if err != nil {
		t.Fatalf("FindDatasets returned error: %v", err)
	}
	if len(names) != 1 || names[0] != "S1" {
		t.Errorf("names = %v, want [S1]", names)
	}

	names, err = FindDatasets(c, FindOptions{Detector: "X1", Type: "run"})
	if err != nil {
		t.Fatalf("FindDatasets returned error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}
}

func TestFindDatasetsIgnoresBookkeepingRuns(t *testing.T) {
	c := newTestClient(t)

	names, err := FindDatasets(c, FindOptions{Type: "run"})
	if err != nil {
		t.Fatalf("FindDatasets returned error: %v", err)
	}
	for _, name := range names {
		if name == "tenyear" {
			t.Error("tenyear listed as a run dataset")
		}
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want [S1 S2]", names)
	}
}

func TestFindDatasetsRunSegment(t *testing.T) {
	c := newTestClient(t)

	names, err := FindDatasets(c, FindOptions{
		Type:    "run",
		Segment: &segments.Segment{Start: 1500, End: 1600},
	})
	if err != nil {
		t.Fatalf("FindDatasets returned error: %v", err)
	}
	if len(names) != 1 || names[0] != "S1" {
		t.Errorf("names = %v, want [S1]", names)
	}
}

func TestFindDatasetsMatch(t *testing.T) {
	c := newTestClient(t)

	names, err := FindDatasets(c, FindOptions{Type: "event", Match: "065509"})
	if err != nil {
		t.Fatalf("FindDatasets returned error: %v", err)
	}
	if len(names) != 1 || names[0] != "GW190828_065509-v1" {
		t.Errorf("names = %v, want [GW190828_065509-v1]", names)
	}
}

func TestListDatasetsEventRanking(t *testing.T) {
	c := newTestClient(t)

	// segment closest to GW190828_065509; its release must rank first
	names, err := ListDatasets(c, FindOptions{
		Type:    "event",
		Segment: &segments.Segment{Start: 1251010500, End: 1251010520},
	})
	if err != nil {
		t.Fatalf("ListDatasets returned error: %v", err)
	}
	if len(names) == 0 || names[0] != "GW190828_065509-v1" {
		t.Errorf("names = %v, want GW190828_065509-v1 first", names)
	}
}

func TestEventGPS(t *testing.T) {
	c := newTestClient(t)

	gps, err := EventGPS(c, "GW190828_065509", "", 0)
	if err != nil {
		t.Fatalf("EventGPS returned error: %v", err)
	}
	if gps != 1251010527.9 {
		t.Errorf("gps = %v, want 1251010527.9", gps)
	}
}

func TestEventSegment(t *testing.T) {
	c := newTestClient(t)

	seg, err := EventSegment(c, "GW190828_063405", "", "", 0)
	if err != nil {
		t.Fatalf("EventSegment returned error: %v", err)
	}
	if seg.Start != 1251009218 || seg.End != 1251009250 {
		t.Errorf("segment = [%d, %d), want [1251009218, 1251009250)", seg.Start, seg.End)
	}
}

func TestEventDetectors(t *testing.T) {
	c := newTestClient(t)

	detectors, err := EventDetectors(c, "GW190828_063405", "", 0)
	if err != nil {
		t.Fatalf("EventDetectors returned error: %v", err)
	}
	want := []string{"H1", "L1"}
	if len(detectors) != 2 || detectors[0] != want[0] || detectors[1] != want[1] {
		t.Errorf("detectors = %v, want %v", detectors, want)
	}
}

func TestEventAtGPS(t *testing.T) {
	c := newTestClient(t)

	name, err := EventAtGPS(c, 1251009264, 1)
	if err != nil {
		t.Fatalf("EventAtGPS returned error: %v", err)
	}
	if name != "GW190828_063405" {
		t.Errorf("name = %q, want GW190828_063405", name)
	}

	_, err = EventAtGPS(c, 42, 1)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
}

func TestRunSegmentAndRunAtGPS(t *testing.T) {
	c := newTestClient(t)

	seg, err := RunSegment(c, "S1")
	if err != nil {
		t.Fatalf("RunSegment returned error: %v", err)
	}
	if seg.Start != 1000 || seg.End != 2000 {
		t.Errorf("segment = [%d, %d), want [1000, 2000)", seg.Start, seg.End)
	}

	name, err := RunAtGPS(c, 1500)
	if err != nil {
		t.Fatalf("RunAtGPS returned error: %v", err)
	}
	if name != "S1" {
		t.Errorf("name = %q, want S1", name)
	}

	// the bookkeeping epochs span everything but must never be returned
	if _, err := RunAtGPS(c, 2500); err == nil {
		t.Error("RunAtGPS in the inter-run gap did not fail")
	}
}

func TestDatasetType(t *testing.T) {
	c := newTestClient(t)

	cases := []struct {
		dataset string
		want    string
	}{
		{"S1", "run"},
		{"GWTC-1-confident", "catalog"},
		{"GW190828_063405-v1", "event"},
	}
	for _, tc := range cases {
		typ, err := DatasetType(c, tc.dataset)
		if err != nil {
			t.Errorf("DatasetType(%q) returned error: %v", tc.dataset, err)
			continue
		}
		if typ != tc.want {
			t.Errorf("DatasetType(%q) = %q, want %q", tc.dataset, typ, tc.want)
		}
	}

	_, err := DatasetType(c, "nope")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("DatasetType(nope) error = %v, want *NotFoundError", err)
	}
}
