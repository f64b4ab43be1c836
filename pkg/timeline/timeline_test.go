package timeline

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gwarc/gwarc/pkg/api"
	"github.com/gwarc/gwarc/pkg/cache"
)

const runsJSON = `{
	"runs": {
		"O1":      {"GPSstart": 1126051217, "GPSend": 1137254417, "detectors": ["H1", "L1"]},
		"O1_16KHZ": {"GPSstart": 1126051217, "GPSend": 1137254417, "detectors": ["H1", "L1"]}
	}
}`

const timelineJSON = `{
	"segments": [
		[1126257414, 1126257500],
		[1126257600, 1126257700]
	]
}`

func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/archive/0/99999999999/json/":
			w.Write([]byte(runsJSON))
		case strings.HasPrefix(r.URL.Path, "/timeline/segments/json/O1/H1_DATA/"):
			w.Write([]byte(timelineJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, cache.NewMemoryCache(), nil)
}

func TestGetSegments(t *testing.T) {
	c := newTestClient(t)

	segs, err := GetSegments(c, "H1_DATA", 1126257414, 1126257700)
	if err != nil {
		t.Fatalf("GetSegments returned error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].Start != 1126257414 || segs[0].End != 1126257500 {
		t.Errorf("segs[0] = %+v", segs[0])
	}
	if segs[1].Start != 1126257600 || segs[1].End != 1126257700 {
		t.Errorf("segs[1] = %+v", segs[1])
	}
}

func TestURL(t *testing.T) {
	c := newTestClient(t)

	url, err := URL(c, "H1_DATA", 1126257414, 1126257700)
	if err != nil {
		t.Fatalf("URL returned error: %v", err)
	}
	// ties between equally covering runs break alphabetically
	want := "/timeline/segments/json/O1/H1_DATA/1126257414/286/"
	if !strings.HasSuffix(url, want) {
		t.Errorf("url = %q, want suffix %q", url, want)
	}
}

func TestGetSegmentsNoMatchingRun(t *testing.T) {
	c := newTestClient(t)

	_, err := GetSegments(c, "V1_DATA", 1126257414, 1126257700)
	if err == nil {
		t.Fatal("GetSegments for an uncovered detector did not fail")
	}
	if !strings.Contains(err.Error(), "no run datasets found") {
		t.Errorf("error = %v", err)
	}
}
