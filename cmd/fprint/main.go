// Command fprint indexes WAV recordings into a SimHash-bucketed badger
// store and queries that store for whole-track matches, mirroring the
// teacher's add/query/compact CLI but over this engine's fingerprint and
// store packages instead of landmark hashes and gob segments.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/afsispa/fprint/internal/config"
	"github.com/afsispa/fprint/internal/store"
)

func main() {
	log.SetFlags(0)

	mode := flag.String("mode", "", "add | query | compact")
	dataset := flag.String("dataset", "", "folder of .wav files to index (mode=add)")
	segmentOut := flag.String("segment", "", "segment output directory (mode=add); default seg-<timestamp>")
	manifestPath := flag.String("manifest", "manifest.json", "segment manifest path")
	queryFile := flag.String("file", "", "query recording (.wav)")
	topK := flag.Int("top", 10, "number of top matches to show (mode=query)")
	workers := flag.Int("workers", defaultWorkers, "concurrent workers for indexing (0=auto)")
	algorithm := flag.Int("algorithm", 0, "fingerprinting algorithm id (mode=add)")
	compactOut := flag.String("compact-into", "", "output segment directory (mode=compact); default seg-merged-<timestamp>")
	flag.Parse()

	switch *mode {
	case "add":
		runAdd(*dataset, *segmentOut, *manifestPath, *algorithm, *workers)
	case "query":
		runQuery(*manifestPath, *queryFile, *topK)
	case "compact":
		runCompact(*manifestPath, *compactOut)
	default:
		printUsage()
	}
}

func runAdd(dataset, segmentOut, manifestPath string, algorithm, workers int) {
	if dataset == "" {
		log.Fatal("missing -dataset")
	}
	seg := segmentOut
	if seg == "" {
		seg = fmt.Sprintf("seg-%s", time.Now().Format("20060102-150405"))
	}

	cfg, err := config.New(algorithm)
	if err != nil {
		log.Fatalf("add error: %v", err)
	}

	n, err := buildSegment(dataset, seg, algorithm, workers)
	if err != nil {
		log.Fatalf("add error: %v", err)
	}

	params := store.SegmentParams{
		SampleRate: cfg.SampleRate,
		FrameSize:  cfg.FrameSize,
		HopSize:    cfg.HopSize,
		Algorithm:  algorithm,
	}
	if err := appendSegmentToManifest(manifestPath, seg, n, params); err != nil {
		log.Fatalf("manifest update error: %v", err)
	}
	fmt.Printf("Added segment %s (%d tracks). Manifest: %s\n", seg, n, manifestPath)
}

func runQuery(manifestPath, queryFile string, topK int) {
	if queryFile == "" {
		log.Fatal("missing -file")
	}
	if !store.FileExists(manifestPath) {
		log.Fatalf("manifest not found: %s", manifestPath)
	}
	m, err := store.LoadManifest(manifestPath)
	if err != nil {
		log.Fatalf("load manifest error: %v", err)
	}
	matches, err := queryAcrossSegments(m, queryFile, topK)
	if err != nil {
		log.Fatalf("query error: %v", err)
	}
	printMatches(matches)
}

func runCompact(manifestPath, compactOut string) {
	if !store.FileExists(manifestPath) {
		log.Fatalf("manifest not found: %s", manifestPath)
	}
	m, err := store.LoadManifest(manifestPath)
	if err != nil {
		log.Fatalf("load manifest error: %v", err)
	}
	if len(m.Segments) == 0 {
		log.Fatal("nothing to compact: manifest has zero segments")
	}

	out := compactOut
	if out == "" {
		out = fmt.Sprintf("seg-merged-%s", time.Now().Format("20060102-150405"))
	}

	dirs := make([]string, len(m.Segments))
	for i, s := range m.Segments {
		dirs[i] = s.Path
	}
	n, err := store.Compact(dirs, out)
	if err != nil {
		log.Fatalf("compact error: %v", err)
	}

	merged := &store.Manifest{}
	if err := merged.AppendSegment(store.SegmentInfo{
		Path:      out,
		CreatedAt: time.Now(),
		NumTracks: n,
		Params:    m.Params,
	}); err != nil {
		log.Fatalf("build merged manifest error: %v", err)
	}
	if err := store.SaveManifest(manifestPath, merged); err != nil {
		log.Fatalf("write manifest error: %v", err)
	}
	fmt.Printf("Compacted %d segments -> %s (%d tracks). Manifest updated.\n", len(m.Segments), out, n)
}

func appendSegmentToManifest(manifestPath, segPath string, numTracks int, params store.SegmentParams) error {
	var m *store.Manifest
	if store.FileExists(manifestPath) {
		existing, err := store.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		m = existing
	} else {
		m = &store.Manifest{}
	}
	if err := m.AppendSegment(store.SegmentInfo{
		Path:      segPath,
		CreatedAt: time.Now(),
		NumTracks: numTracks,
		Params:    params,
	}); err != nil {
		return err
	}
	return store.SaveManifest(manifestPath, m)
}

func printMatches(matches []queryMatch) {
	if len(matches) == 0 {
		fmt.Println("no matches")
		return
	}
	for i, m := range matches {
		fmt.Printf("%2d. %s — %s (%s) [%s]\n", i+1, m.Track.Title, m.Track.Artist, m.Track.Album, m.SegmentPath)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  Add (append-only segment):")
	fmt.Println("    fprint -mode add -dataset /path/to/folder -manifest manifest.json [-segment seg-001] [-workers N] [-algorithm 0]")
	fmt.Println("  Query (scans every segment in the manifest):")
	fmt.Println("    fprint -mode query -manifest manifest.json -file query.wav [-top 10]")
	fmt.Println("  Compact (merge all segments into one):")
	fmt.Println("    fprint -mode compact -manifest manifest.json [-compact-into seg-merged]")
}
