package store

import (
	"encoding/binary"
	"fmt"

	"github.com/OneOfOne/xxhash"
	"github.com/dgraph-io/badger/v4"
)

// Posting points at one track's occurrence in a SimHash bucket: which track,
// and at what item offset into its fingerprint (0 for a whole-track index).
type Posting struct {
	TrackID     uint32
	OffsetItems uint32
}

// SegmentStore is one append-only badger directory: SimHash-bucket postings
// under 8-byte hash keys, and (by default) track metadata interleaved under
// a distinct key shape, matching the teacher's one-badger-instance-per-
// concern simplicity but with both concerns sharing a directory.
type SegmentStore struct {
	db *badger.DB
}

func OpenSegmentStore(dir string) (*SegmentStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open segment %s: %w", dir, err)
	}
	return &SegmentStore{db: db}, nil
}

func (s *SegmentStore) Close() error { return s.db.Close() }

// NewMetadataStore returns the default badger-backed MetadataStore over
// this segment's own badger instance, for callers outside this package
// that need to read or write track metadata alongside postings.
func (s *SegmentStore) NewMetadataStore() MetadataStore {
	return NewBadgerMetadataStore(s.db)
}

// Lookup returns the posting list for the bucket a SimHash value falls
// into, or a nil slice if the bucket is empty.
func (s *SegmentStore) Lookup(simhash uint32) ([]Posting, error) {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, bucketHash(simhash))

	var postings []Posting
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := decodePostings(val)
			if err != nil {
				return err
			}
			postings = decoded
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: lookup: %w", err)
	}
	return postings, nil
}

// Builder accumulates postings for one indexing pass before committing them
// as a single write batch, mirroring the teacher's in-memory
// map[uint64][]Posting index that buildIndex fills before it's persisted.
type Builder struct {
	postings map[uint64][]Posting
}

func NewBuilder() *Builder {
	return &Builder{postings: make(map[uint64][]Posting)}
}

// Add records a track's occurrence under the bucket its SimHash hashes to.
func (b *Builder) Add(simhash uint32, p Posting) {
	b.addRaw(bucketHash(simhash), p)
}

func (b *Builder) addRaw(hash uint64, p Posting) {
	b.postings[hash] = append(b.postings[hash], p)
}

// Commit writes every accumulated bucket to the store in one write batch,
// the same batched-write shape as the teacher's processOne/wb.Flush.
func (b *Builder) Commit(s *SegmentStore) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for hash, list := range b.postings {
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, hash)
		if err := wb.Set(key, encodePostings(list)); err != nil {
			return fmt.Errorf("store: write bucket %x: %w", hash, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("store: flush write batch: %w", err)
	}
	return nil
}

func bucketHash(simhash uint32) uint64 {
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], simhash)
	return xxhash.Checksum64(word[:])
}

func encodePostings(list []Posting) []byte {
	out := make([]byte, 0, 8*len(list))
	var rec [8]byte
	for _, p := range list {
		binary.BigEndian.PutUint32(rec[0:4], p.TrackID)
		binary.BigEndian.PutUint32(rec[4:8], p.OffsetItems)
		out = append(out, rec[:]...)
	}
	return out
}

func decodePostings(data []byte) ([]Posting, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("store: posting list length %d is not a multiple of 8", len(data))
	}
	out := make([]Posting, len(data)/8)
	for i := range out {
		rec := data[i*8 : i*8+8]
		out[i] = Posting{
			TrackID:     binary.BigEndian.Uint32(rec[0:4]),
			OffsetItems: binary.BigEndian.Uint32(rec[4:8]),
		}
	}
	return out, nil
}
