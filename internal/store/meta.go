package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// TrackMeta is one indexed track's metadata, read from embedded audio tags
// at index time.
type TrackMeta struct {
	ID       uint32        `json:"id" bson:"_id"`
	Path     string        `json:"path" bson:"path"`
	RelPath  string        `json:"relPath" bson:"relPath"`
	Artist   string        `json:"artist" bson:"artist"`
	Album    string        `json:"album" bson:"album"`
	Title    string        `json:"title" bson:"title"`
	Duration time.Duration `json:"duration" bson:"duration"`
}

// MetadataStore persists TrackMeta records. The badger-backed
// implementation is the default (no external dependency); a Mongo-backed
// implementation is available for deployments that already run a metadata
// service.
type MetadataStore interface {
	PutTrack(meta TrackMeta) error
	GetTrack(id uint32) (TrackMeta, error)
	Close() error
}

type badgerMetadataStore struct {
	db *badger.DB
}

// NewBadgerMetadataStore stores metadata inline in a segment's own badger
// instance, under a key shape distinct from posting-bucket keys.
func NewBadgerMetadataStore(db *badger.DB) MetadataStore {
	return &badgerMetadataStore{db: db}
}

func metaKey(id uint32) []byte {
	key := make([]byte, 5)
	key[0] = 'm'
	binary.BigEndian.PutUint32(key[1:], id)
	return key
}

func (s *badgerMetadataStore) PutTrack(meta TrackMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("store: marshal track %d: %w", meta.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaKey(meta.ID), data)
	})
	if err != nil {
		return fmt.Errorf("store: put track %d: %w", meta.ID, err)
	}
	return nil
}

func (s *badgerMetadataStore) GetTrack(id uint32) (TrackMeta, error) {
	var meta TrackMeta
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if err != nil {
		return TrackMeta{}, fmt.Errorf("store: get track %d: %w", id, err)
	}
	return meta, nil
}

// Close is a no-op: the badger handle's lifecycle belongs to the
// SegmentStore that owns it, not to this view over it.
func (s *badgerMetadataStore) Close() error { return nil }
