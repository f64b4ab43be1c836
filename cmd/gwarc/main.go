// gwarc is a command line query tool for the gravitational-wave
// open-data archive.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/gwarc/gwarc/internal/config"
	"github.com/gwarc/gwarc/pkg/api"
	"github.com/gwarc/gwarc/pkg/cache"
	"github.com/gwarc/gwarc/pkg/datasets"
	"github.com/gwarc/gwarc/pkg/locate"
	"github.com/gwarc/gwarc/pkg/timeline"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	countStyle  = lipgloss.NewStyle().Faint(true)
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: gwarc <command> [flags]

commands:
  datasets      list datasets matching a detector/type/interval
  urls          locate strain file URLs covering an interval
  event-gps     print the GPS time of an event
  event-segment print the GPS interval covered by an event
  run-segment   print the GPS interval covered by a run
  timeline      list data-quality segments for a flag
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	// optional .env file for GWARC_* overrides
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("GWARC_CONFIG"))
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "gwarc",
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	var store api.Cache
	if cfg.CachePath != "" {
		db, err := cache.NewSQLiteCache(cfg.CachePath)
		if err != nil {
			log.Fatal("failed to open cache", "path", cfg.CachePath, "error", err)
		}
		defer db.Close()
		store = db
	} else {
		store = cache.NewMemoryCache()
	}

	client := api.NewClient(cfg.Host, store, logger)

	switch os.Args[1] {
	case "datasets":
		runDatasets(client, os.Args[2:])
	case "urls":
		runURLs(client, cfg, os.Args[2:])
	case "event-gps":
		runEventGPS(client, os.Args[2:])
	case "event-segment":
		runEventSegment(client, os.Args[2:])
	case "run-segment":
		runRunSegment(client, os.Args[2:])
	case "timeline":
		runTimeline(client, os.Args[2:])
	default:
		usage()
	}
}

func runDatasets(client *api.Client, args []string) {
	fs := flag.NewFlagSet("datasets", flag.ExitOnError)
	detector := fs.String("detector", "", "detector prefix, e.g. L1")
	dstype := fs.String("type", "", "dataset type: run, event, or catalog")
	match := fs.String("match", "", "regular expression to filter names")
	catalog := fs.String("catalog", "", "restrict events to one catalog")
	fs.Parse(args)

	names, err := datasets.FindDatasets(client, datasets.FindOptions{
		Detector: *detector,
		Type:     *dstype,
		Match:    *match,
		Catalog:  *catalog,
	})
	if err != nil {
		log.Fatal("dataset query failed", "error", err)
	}

	fmt.Println(headerStyle.Render("DATASETS"))
	for _, name := range names {
		fmt.Println(name)
	}
	fmt.Println(countStyle.Render(fmt.Sprintf("%d datasets", len(names))))
}

func runURLs(client *api.Client, cfg config.Config, args []string) {
	fs := flag.NewFlagSet("urls", flag.ExitOnError)
	detector := fs.String("detector", "", "detector prefix, e.g. L1 (required)")
	start := fs.Int64("start", 0, "GPS start time (required)")
	end := fs.Int64("end", 0, "GPS end time (required)")
	dataset := fs.String("dataset", "", "pin a specific dataset")
	version := fs.Int("version", 0, "pin a data-release version")
	rate := fs.Int("sample-rate", cfg.SampleRate, "sampling rate in Hz")
	format := fs.String("format", cfg.Format, "file format (extension)")
	fs.Parse(args)

	if *detector == "" || *start == 0 || *end == 0 {
		fs.Usage()
		os.Exit(2)
	}

	urls, err := locate.GetURLs(client, *detector, *start, *end, locate.Options{
		Dataset:    *dataset,
		Version:    *version,
		SampleRate: *rate,
		Format:     *format,
	})
	if err != nil {
		log.Fatal("URL query failed", "error", err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("URLS %s [%d, %d)", *detector, *start, *end)))
	for _, u := range urls {
		fmt.Println(u)
	}
}

func runEventGPS(client *api.Client, args []string) {
	fs := flag.NewFlagSet("event-gps", flag.ExitOnError)
	catalog := fs.String("catalog", "", "restrict to one catalog")
	version := fs.Int("version", 0, "pin a data-release version")
	fs.Parse(args)
	if fs.NArg() != 1 {
		log.Fatal("usage: gwarc event-gps [flags] <event>")
	}

	gps, err := datasets.EventGPS(client, fs.Arg(0), *catalog, *version)
	if err != nil {
		log.Fatal("event query failed", "error", err)
	}
	fmt.Println(gps)
}

func runEventSegment(client *api.Client, args []string) {
	fs := flag.NewFlagSet("event-segment", flag.ExitOnError)
	detector := fs.String("detector", "", "restrict to one detector")
	catalog := fs.String("catalog", "", "restrict to one catalog")
	version := fs.Int("version", 0, "pin a data-release version")
	fs.Parse(args)
	if fs.NArg() != 1 {
		log.Fatal("usage: gwarc event-segment [flags] <event>")
	}

	seg, err := datasets.EventSegment(client, fs.Arg(0), *detector, *catalog, *version)
	if err != nil {
		log.Fatal("event query failed", "error", err)
	}
	fmt.Printf("[%d, %d)\n", seg.Start, seg.End)
}

func runRunSegment(client *api.Client, args []string) {
	fs := flag.NewFlagSet("run-segment", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		log.Fatal("usage: gwarc run-segment <run>")
	}

	seg, err := datasets.RunSegment(client, fs.Arg(0))
	if err != nil {
		log.Fatal("run query failed", "error", err)
	}
	fmt.Printf("[%d, %d)\n", seg.Start, seg.End)
}

func runTimeline(client *api.Client, args []string) {
	fs := flag.NewFlagSet("timeline", flag.ExitOnError)
	flagName := fs.String("flag", "", "data-quality flag, e.g. H1_DATA (required)")
	start := fs.Int64("start", 0, "GPS start time (required)")
	end := fs.Int64("end", 0, "GPS end time (required)")
	fs.Parse(args)

	if *flagName == "" || *start == 0 || *end == 0 {
		fs.Usage()
		os.Exit(2)
	}

	segs, err := timeline.GetSegments(client, *flagName, *start, *end)
	if err != nil {
		log.Fatal("timeline query failed", "error", err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("SEGMENTS %s", *flagName)))
	for _, seg := range segs {
		fmt.Printf("[%d, %d)\n", seg.Start, seg.End)
	}
	fmt.Println(countStyle.Render(fmt.Sprintf("%d segments", len(segs))))
}
