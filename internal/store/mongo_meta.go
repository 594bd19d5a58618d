package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoMetadataStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoMetadataStore is the optional MetadataStore backend for
// deployments that already run a metadata service, replacing the default
// badger-inline storage with BSON documents.
func NewMongoMetadataStore(ctx context.Context, uri, database, collection string) (MetadataStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("store: mongo ping: %w", err)
	}
	return &mongoMetadataStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *mongoMetadataStore) PutTrack(meta TrackMeta) error {
	ctx := context.Background()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": meta.ID}, meta, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store: mongo put track %d: %w", meta.ID, err)
	}
	return nil
}

func (s *mongoMetadataStore) GetTrack(id uint32) (TrackMeta, error) {
	var meta TrackMeta
	ctx := context.Background()
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&meta); err != nil {
		return TrackMeta{}, fmt.Errorf("store: mongo get track %d: %w", id, err)
	}
	return meta, nil
}

func (s *mongoMetadataStore) Close() error {
	return s.client.Disconnect(context.Background())
}
