package dataaccess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketwolf/pkg/custom"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRecord is the document shape of a record.
type mongoRecord struct {
	ID        string              `bson:"_id"`
	Type      entities.RecordType `bson:"type"`
	Keys      map[string]string   `bson:"keys,omitempty"`
	Payload   string              `bson:"payload"`
	UpdatedAt custom.Datetime     `bson:"updated_at"`
}

func (r *mongoRecord) record() *entities.Record {
	return &entities.Record{
		ID:        r.ID,
		Type:      r.Type,
		Keys:      r.Keys,
		Payload:   json.RawMessage(r.Payload),
		UpdatedAt: r.UpdatedAt,
	}
}

// MongoStore keeps every record in a single collection.
type MongoStore struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewMongoStore creates the store and ensures the lookup indexes exist.
func NewMongoStore(ctx context.Context, l *slog.Logger, client *mongo.Client) (*MongoStore, error) {
	s := &MongoStore{
		l:      l.With(slog.String(logging.KeyDal, "mongo_store")),
		client: client,
	}

	_, err := s.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "keys.owner", Value: 1}, {Key: "keys.panel", Value: 1}, {Key: "keys.state", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "keys.channel", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "keys.guild", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) collection() *mongo.Collection {
	return s.client.Database(mongoDatabase).Collection(recordsCollection)
}

func (s *MongoStore) Put(ctx context.Context, rec *entities.Record) error {
	doc := mongoRecord{
		ID:        rec.ID,
		Type:      rec.Type,
		Keys:      rec.Keys,
		Payload:   string(rec.Payload),
		UpdatedAt: rec.UpdatedAt,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection().ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc, opts); err != nil {
		return fmt.Errorf("error replacing record: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*entities.Record, error) {
	doc := new(mongoRecord)
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting record: %w", err)
	}
	return doc.record(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("error deleting record: %w", err)
	}
	return nil
}

func (s *MongoStore) Scan(ctx context.Context, typ entities.RecordType) ([]*entities.Record, error) {
	return s.Find(ctx, typ, nil)
}

func (s *MongoStore) Find(ctx context.Context, typ entities.RecordType, match map[string]string) ([]*entities.Record, error) {
	filter := bson.M{"type": typ}
	for k, v := range match {
		filter["keys."+k] = v
	}

	opts := options.Find().SetSort(bson.M{"_id": 1})
	cur, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding records: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*entities.Record, 0)
	for cur.Next(ctx) {
		doc := new(mongoRecord)
		if err := cur.Decode(doc); err != nil {
			return nil, fmt.Errorf("error decoding record: %w", err)
		}
		out = append(out, doc.record())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Backend() string { return "mongo" }

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
