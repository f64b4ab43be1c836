// Package api provides the low-level interface to the gravitational-wave
// open-data archive host. All responses are decoded into typed values at
// this boundary; downstream packages never see raw JSON maps.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultHost is the default archive host URL.
	DefaultHost = "https://www.gw-openscience.org"

	// MaxGPS is an upper GPS bound used for unbounded interval queries.
	MaxGPS = 99999999999

	userAgent = "gwarc/1.0"

	requestTimeout = 30 * time.Second
)

// Cache stores fetched response bodies keyed by request URL. Identical
// URLs always map to the same body, so concurrent inserts are benign.
type Cache interface {
	Get(url string) ([]byte, bool)
	Set(url string, body []byte)
}

// Client is an archive API client. Fetched bodies are memoized in the
// cache for the lifetime of the cache object; callers needing fresh
// data should construct a client with a fresh cache or invalidate
// entries explicitly.
type Client struct {
	httpClient *http.Client
	host       string
	cache      Cache
	logger     *log.Logger
}

// NewClient creates an archive client for the given host. An empty host
// selects DefaultHost. A nil cache disables memoization; a nil logger
// disables logging.
func NewClient(host string, cache Cache, logger *log.Logger) *Client {
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		host:   host,
		cache:  cache,
		logger: logger,
	}
}

// Host returns the archive host URL this client queries.
func (c *Client) Host() string { return c.host }

// fetchBody returns the response body for url, consulting the cache
// first.
func (c *Client) fetchBody(url string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(url); ok {
			if c.logger != nil {
				c.logger.Debug("cache hit", "url", url)
			}
			return body, nil
		}
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Info("GET", "endpoint", url)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("request failed", "url", url, "error", err)
		}
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Error("archive error", "status", resp.StatusCode, "url", url)
		}
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if c.cache != nil {
		c.cache.Set(url, body)
	}
	return body, nil
}

// fetchJSON fetches url and decodes the body into v.
func (c *Client) fetchJSON(url string, v any) error {
	body, err := c.fetchBody(url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{URL: url, Err: err}
	}
	return nil
}

// -- endpoint URL builders

func (c *Client) datasetURL(start, end int64) string {
	return fmt.Sprintf("%s/archive/%d/%d/json/", c.host, start, end)
}

func (c *Client) runURL(run, detector string, start, end int64) string {
	return fmt.Sprintf("%s/archive/links/%s/%s/%d/%d/json/", c.host, run, detector, start, end)
}

func (c *Client) eventAPIURL(full bool) string {
	if full {
		return c.host + "/eventapi/jsonfull/"
	}
	return c.host + "/eventapi/json/"
}

func (c *Client) allEventsURL(full bool) string {
	return c.eventAPIURL(full) + "allevents/"
}

func (c *Client) catalogURL(catalog string) string {
	return c.eventAPIURL(false) + catalog + "/"
}

// TimelineURL returns the timeline segment endpoint for a dataset, flag
// and GPS interval.
func (c *Client) TimelineURL(dataset, flag string, start, duration int64) string {
	return fmt.Sprintf("%s/timeline/segments/json/%s/%s/%d/%d/",
		c.host, dataset, flag, start, duration)
}

func (c *Client) legacyCatalogURL(catalog string) string {
	return fmt.Sprintf("%s/catalog/%s/filelist/", c.host, catalog)
}

// -- typed fetchers

// FetchDatasetIndex returns the metadata for all run datasets matching
// the GPS interval.
func (c *Client) FetchDatasetIndex(start, end int64) (*DatasetIndex, error) {
	url := c.datasetURL(start, end)
	var index DatasetIndex
	if err := c.fetchJSON(url, &index); err != nil {
		return nil, err
	}
	if index.Runs == nil {
		return nil, &SchemaError{URL: url, Field: "runs"}
	}
	return &index, nil
}

// FetchRunLinks returns the file listing for a run, detector, and GPS
// interval.
func (c *Client) FetchRunLinks(run, detector string, start, end int64) (*RunLinks, error) {
	url := c.runURL(run, detector, start, end)
	var links RunLinks
	if err := c.fetchJSON(url, &links); err != nil {
		return nil, err
	}
	if links.Strain == nil {
		return nil, &SchemaError{URL: url, Field: "strain"}
	}
	return &links, nil
}

// FetchAllEvents returns the metadata for all event dataset releases.
// The full listing includes the per-event strain file lists.
func (c *Client) FetchAllEvents(full bool) (*AllEvents, error) {
	url := c.allEventsURL(full)
	var events AllEvents
	if err := c.fetchJSON(url, &events); err != nil {
		return nil, err
	}
	if events.Events == nil {
		return nil, &SchemaError{URL: url, Field: "events"}
	}
	return &events, nil
}

// FetchCatalogList returns the raw catalog listing keyed by catalog
// name.
func (c *Client) FetchCatalogList() (map[string]json.RawMessage, error) {
	var list map[string]json.RawMessage
	if err := c.fetchJSON(c.eventAPIURL(false), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FetchCatalog returns the event listing for one catalog.
func (c *Client) FetchCatalog(catalog string) (*AllEvents, error) {
	url := c.catalogURL(catalog)
	var events AllEvents
	if err := c.fetchJSON(url, &events); err != nil {
		return nil, err
	}
	if events.Events == nil {
		return nil, &SchemaError{URL: url, Field: "events"}
	}
	return &events, nil
}

// FetchTimelineSegments returns the [start, end) segments for a data
// quality flag within one run dataset.
func (c *Client) FetchTimelineSegments(dataset, flag string, start, duration int64) (*TimelineSegments, error) {
	url := c.TimelineURL(dataset, flag, start, duration)
	var segs TimelineSegments
	if err := c.fetchJSON(url, &segs); err != nil {
		return nil, err
	}
	if segs.Segments == nil {
		return nil, &SchemaError{URL: url, Field: "segments"}
	}
	return &segs, nil
}

// FetchLegacyCatalog returns the legacy file listing for a catalog.
func (c *Client) FetchLegacyCatalog(catalog string) (*LegacyCatalog, error) {
	url := c.legacyCatalogURL(catalog)
	var cat LegacyCatalog
	if err := c.fetchJSON(url, &cat); err != nil {
		return nil, err
	}
	if cat.Data == nil {
		return nil, &SchemaError{URL: url, Field: "data"}
	}
	return &cat, nil
}
