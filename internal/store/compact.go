package store

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Compact merges several segment directories into one, remapping track ids
// to avoid collisions, without recomputing any fingerprint. Mirrors the
// teacher's mergeSegments, adapted from a single in-memory gob DB to a set
// of badger directories.
func Compact(segmentDirs []string, mergedDir string) (trackCount int, err error) {
	merged, err := OpenSegmentStore(mergedDir)
	if err != nil {
		return 0, err
	}
	defer merged.Close()
	mergedMeta := NewBadgerMetadataStore(merged.db)

	builder := NewBuilder()
	var nextID uint32

	for _, dir := range segmentDirs {
		seg, err := OpenSegmentStore(dir)
		if err != nil {
			return 0, fmt.Errorf("store: open segment %s: %w", dir, err)
		}
		n, err := remapSegment(seg, builder, mergedMeta, &nextID)
		seg.Close()
		if err != nil {
			return 0, fmt.Errorf("store: compact %s: %w", dir, err)
		}
		trackCount += n
	}

	if err := builder.Commit(merged); err != nil {
		return 0, err
	}
	return trackCount, nil
}

// remapSegment copies one segment's track metadata (assigning fresh ids)
// and its posting buckets (rewritten with the new ids) into builder/
// mergedMeta, returning how many tracks it copied.
func remapSegment(seg *SegmentStore, builder *Builder, mergedMeta MetadataStore, nextID *uint32) (int, error) {
	idMap := make(map[uint32]uint32)
	srcMeta := NewBadgerMetadataStore(seg.db)

	err := seg.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if !isMetaKey(key) {
				continue
			}
			oldID := binary.BigEndian.Uint32(key[1:])
			meta, err := srcMeta.GetTrack(oldID)
			if err != nil {
				return fmt.Errorf("read track %d: %w", oldID, err)
			}
			newID := *nextID
			*nextID++
			idMap[oldID] = newID
			meta.ID = newID
			if err := mergedMeta.PutTrack(meta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	err = seg.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			if isMetaKey(key) || len(key) != 8 {
				continue
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			postings, err := decodePostings(val)
			if err != nil {
				return err
			}
			hash := binary.BigEndian.Uint64(key)
			for _, p := range postings {
				newID, ok := idMap[p.TrackID]
				if !ok {
					continue
				}
				builder.addRaw(hash, Posting{TrackID: newID, OffsetItems: p.OffsetItems})
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(idMap), nil
}

func isMetaKey(key []byte) bool {
	return len(key) == 5 && key[0] == 'm'
}
