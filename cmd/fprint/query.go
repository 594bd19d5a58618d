package main

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/afsispa/fprint/internal/store"
)

// queryMatch is one candidate track returned by a query: which segment and
// track it came from, its metadata, and how many postings in its bucket
// voted for it (always 1 under the whole-word SimHash bucket scheme, but
// kept as a field since a future banded scheme would make it meaningful).
type queryMatch struct {
	SegmentPath string
	Track       store.TrackMeta
	Votes       int
}

// queryAcrossSegments fingerprints the query clip, hashes it to a SimHash
// bucket, and looks that bucket up in every manifested segment, exactly as
// the teacher's matchAcrossSegmentsTopK sweeps every segment of a manifest.
// Because the store buckets on the whole 32-bit SimHash word, only clips
// whose SimHash is bit-for-bit identical to an indexed track's land a hit.
// This is a coarse whole-track lookup, not a sub-clip search.
func queryAcrossSegments(m *store.Manifest, queryPath string, topK int) ([]queryMatch, error) {
	_, simhash, _, _, err := fingerprintFile(queryPath, m.Params.Algorithm)
	if err != nil {
		return nil, errors.Wrapf(err, "fingerprint query file %s", queryPath)
	}

	var matches []queryMatch
	for _, seg := range m.Segments {
		segMatches, err := lookupInSegment(seg.Path, simhash)
		if err != nil {
			return nil, errors.Wrapf(err, "query segment %s", seg.Path)
		}
		matches = append(matches, segMatches...)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Votes > matches[j].Votes })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func lookupInSegment(segmentPath string, simhash uint32) ([]queryMatch, error) {
	seg, err := store.OpenSegmentStore(segmentPath)
	if err != nil {
		return nil, err
	}
	defer seg.Close()

	postings, err := seg.Lookup(simhash)
	if err != nil {
		return nil, err
	}
	if len(postings) == 0 {
		return nil, nil
	}

	meta := seg.NewMetadataStore()
	out := make([]queryMatch, 0, len(postings))
	for _, p := range postings {
		track, err := meta.GetTrack(p.TrackID)
		if err != nil {
			continue
		}
		out = append(out, queryMatch{SegmentPath: segmentPath, Track: track, Votes: 1})
	}
	return out, nil
}
