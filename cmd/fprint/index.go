package main

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/afsispa/fprint/internal/store"
)

const defaultWorkers = 0 // 0 = auto (NumCPU-1, min 2)

// buildSegment fingerprints every .wav file under root concurrently and
// writes the resulting postings and metadata into a fresh segment at
// segmentDir, mirroring the teacher's buildIndex: a worker pool sized from
// NumCPU, an mpb progress bar, and a single writer draining a results
// channel so the badger write batch itself stays single-threaded.
func buildSegment(root, segmentDir string, algorithm, workerArg int) (int, error) {
	paths, err := collectWAVFiles(root)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, errors.Errorf("no .wav files under %s", root)
	}

	seg, err := store.OpenSegmentStore(segmentDir)
	if err != nil {
		return 0, err
	}
	defer seg.Close()
	meta := seg.NewMetadataStore()
	builder := store.NewBuilder()

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(len(paths)),
		mpb.PrependDecorators(
			decor.Name("Indexing: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.EwmaETA(decor.ET_STYLE_GO, 60),
		),
	)

	workers := workerArg
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 2 {
			workers = 2
		}
	}

	type result struct {
		path    string
		simhash uint32
		meta    store.TrackMeta
		err     error
	}

	jobs := make(chan string, len(paths))
	results := make(chan result, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				// The store indexes the whole-track SimHash bucket only;
				// the raw fingerprint items aren't persisted.
				_, simhash, _, trackMeta, err := fingerprintFile(path, algorithm)
				trackMeta.RelPath = relPath(root, path)
				results <- result{path: path, simhash: simhash, meta: trackMeta, err: err}
			}
		}()
	}
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	var nextID uint32
	var indexed int
	for r := range results {
		bar.Increment()
		if r.err != nil {
			log.Printf("skipping %s: %v", r.path, r.err)
			continue
		}
		id := nextID
		nextID++
		r.meta.ID = id
		if err := meta.PutTrack(r.meta); err != nil {
			return indexed, errors.Wrapf(err, "store metadata for %s", r.path)
		}
		builder.Add(r.simhash, store.Posting{TrackID: id, OffsetItems: 0})
		indexed++
	}
	p.Wait()

	if err := builder.Commit(seg); err != nil {
		return indexed, err
	}
	return indexed, nil
}

func collectWAVFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) == ".wav" {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func relPath(root, p string) string {
	r, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return r
}
