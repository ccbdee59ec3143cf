package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"songplays/internal/config"
	"songplays/internal/probe"
)

// main is the entrypoint for the data-probing CLI. It scans the song-metadata
// and activity-log trees, computes per-field fill rates and distinct counts
// plus the page distribution, and prints the profile as JSON.
//
// The trees come either from a pipeline config (-config) or from the explicit
// -song-data/-log-data flags. The output is intended for eyeballing a dataset
// before pointing cmd/etl at it.
func main() {
	var (
		flagConfig = flag.String(
			"config",
			"",
			"Pipeline config JSON path; its source.song_data/log_data trees are profiled",
		)
		flagSongData = flag.String(
			"song-data",
			"",
			"Root of the song-metadata tree (overrides -config)",
		)
		flagLogData = flag.String(
			"log-data",
			"",
			"Root of the user-activity log tree (overrides -config)",
		)
		flagPretty = flag.Bool(
			"pretty",
			true,
			"Pretty-print JSON output",
		)
	)
	flag.Parse()

	opts := probe.Options{SongData: *flagSongData, LogData: *flagLogData}
	if *flagConfig != "" {
		f, err := os.Open(*flagConfig)
		if err != nil {
			log.Fatalf("open config: %v", err)
		}
		var p config.Pipeline
		err = json.NewDecoder(f).Decode(&p)
		f.Close()
		if err != nil {
			log.Fatalf("decode config: %v", err)
		}
		if opts.SongData == "" {
			opts.SongData = p.Source.SongData
		}
		if opts.LogData == "" {
			opts.LogData = p.Source.LogData
		}
	}
	if opts.SongData == "" && opts.LogData == "" {
		fmt.Fprintln(os.Stderr, "missing -config or -song-data/-log-data")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	prof, err := probe.Trees(ctx, opts)
	if err != nil {
		log.Fatalf("probe: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	if *flagPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(prof); err != nil {
		log.Fatalf("encode profile: %v", err)
	}
}
