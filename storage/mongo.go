package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the document-store adapter. Records live in a single
// collection as {_id: key, v: bytes}; prefix listing is an anchored
// regex over _id sorted ascending, so ordering matches the KV adapter.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("database opening failed: %w", err)
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

type mongoRecord struct {
	Key   string `bson:"_id"`
	Value []byte `bson:"v"`
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record mongoRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}

func (s *MongoStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoRecord{Key: key, Value: value},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (s *MongoStore) List(ctx context.Context, prefix string) ([]Record, error) {
	filter := bson.M{"_id": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix)}}
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Record
	for cursor.Next(ctx) {
		var record mongoRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, Record{Key: record.Key, Value: record.Value})
	}
	return records, cursor.Err()
}

func (s *MongoStore) DeleteKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}})
	return err
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
