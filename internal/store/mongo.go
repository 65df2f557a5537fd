package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultCollection holds one document per session.
const DefaultCollection = "sessions"

// MongoStore implements Store on a MongoDB collection keyed by session ID.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoStore uses the named collection, or DefaultCollection when empty.
func NewMongoStore(db *mongo.Database, collection string) (*MongoStore, error) {
	if db == nil {
		return nil, ErrNilClient
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &MongoStore{coll: db.Collection(collection), now: time.Now}, nil
}

// EnsureIndexes creates the secondary indexes used by List and ops queries.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	now := s.now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"status":    StatusInitializing,
		"createdAt": now,
		"updatedAt": now,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var sess Session
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&sess); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return &sess, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return &sess, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, p Patch) error {
	if id == "" {
		return ErrEmptyID
	}

	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, updateDoc(p, s.now().UTC()),
		options.UpdateOne().SetUpsert(true))
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Session, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}

	out := []Session{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return out, nil
}

// updateDoc translates p into $set/$unset/$setOnInsert. A field never
// appears in two operators, which MongoDB rejects.
func updateDoc(p Patch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	unset := bson.M{}
	onInsert := bson.M{"createdAt": now}

	if p.Status != nil {
		set["status"] = *p.Status
	} else {
		onInsert["status"] = StatusInitializing
	}
	if p.ClearQRCode {
		unset["lastQRCode"] = ""
	} else if p.LastQRCode != nil {
		set["lastQRCode"] = *p.LastQRCode
	}
	if p.LastConnectedAt != nil {
		set["lastConnectedAt"] = p.LastConnectedAt.UTC()
	}
	if p.Serialized != nil {
		set["serialized"] = *p.Serialized
	}

	doc := bson.M{"$set": set, "$setOnInsert": onInsert}
	if len(unset) > 0 {
		doc["$unset"] = unset
	}
	return doc
}

var (
	_ Store = (*MongoStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
