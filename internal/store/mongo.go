package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

// EntriesCollection is the collection (and table) name shared by the backends
const EntriesCollection = "entries"

// mongoEntry is the document layout of the entries collection
type mongoEntry struct {
	ObjectID    primitive.ObjectID      `bson:"_id,omitempty"`
	ID          string                  `bson:"id"`
	Kind        entrymodels.Kind        `bson:"kind"`
	Title       string                  `bson:"title"`
	Description string                  `bson:"description"`
	Week        *int                    `bson:"week"`
	CreatedAt   time.Time               `bson:"createdAt"`
	EntryDate   *time.Time              `bson:"entryDate"`
	Media       []entrymodels.MediaItem `bson:"media"`
}

func (d mongoEntry) toEntry() entrymodels.Entry {
	e := entrymodels.Entry{
		InternalID:  d.ObjectID.Hex(),
		ID:          d.ID,
		Kind:        d.Kind,
		Title:       d.Title,
		Description: d.Description,
		Week:        d.Week,
		CreatedAt:   d.CreatedAt.UTC(),
		Media:       d.Media,
	}
	if d.EntryDate != nil {
		t := d.EntryDate.UTC()
		e.EntryDate = &t
	}
	if e.Media == nil {
		e.Media = []entrymodels.MediaItem{}
	}
	return e
}

// Mongo stores entries as documents in a MongoDB collection
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongo binds the entries collection of dbName and makes sure its indexes exist
func NewMongo(ctx context.Context, client *mongo.Client, dbName string) (*Mongo, error) {
	collection := client.Database(dbName).Collection(EntriesCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create entry indexes: %w", err)
	}

	return &Mongo{client: client, collection: collection, now: time.Now}, nil
}

// OpenMongo is NewMongo taking ownership of client: it is disconnected when
// the store cannot be set up and closed with the store otherwise
func OpenMongo(ctx context.Context, client *mongo.Client, dbName string) (*Mongo, error) {
	m, err := NewMongo(ctx, client, dbName)
	if err != nil {
		if derr := client.Disconnect(context.Background()); derr != nil {
			return nil, errors.Join(err, fmt.Errorf("failed to disconnect MongoDB: %w", derr))
		}
		return nil, err
	}
	return m, nil
}

func (m *Mongo) Create(ctx context.Context, n entrymodels.NewEntry) (*entrymodels.Entry, error) {
	e := n.Build(uuid.New().String(), m.now())
	doc := mongoEntry{
		ID:          e.ID,
		Kind:        e.Kind,
		Title:       e.Title,
		Description: e.Description,
		Week:        e.Week,
		CreatedAt:   e.CreatedAt,
		EntryDate:   e.EntryDate,
		Media:       e.Media,
	}

	res, err := m.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.InternalID = oid.Hex()
	}
	return &e, nil
}

func (m *Mongo) List(ctx context.Context, kind *entrymodels.Kind) ([]entrymodels.Entry, error) {
	filter := bson.M{}
	if kind != nil {
		filter["kind"] = *kind
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoEntry
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}

	entries := make([]entrymodels.Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, d.toEntry())
	}
	return entries, nil
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	res, err := m.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}
