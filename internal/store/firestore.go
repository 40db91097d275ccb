package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

type firestoreEntry struct {
	ID          string                  `firestore:"id"`
	Kind        string                  `firestore:"kind"`
	Title       string                  `firestore:"title"`
	Description string                  `firestore:"description"`
	Week        *int                    `firestore:"week"`
	CreatedAt   time.Time               `firestore:"createdAt"`
	EntryDate   *time.Time              `firestore:"entryDate"`
	Media       []entrymodels.MediaItem `firestore:"media"`
}

// Firestore keeps one document per entry, using the application id as the document id
type Firestore struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestore wraps a client obtained from the Firebase app
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client, now: time.Now}
}

func (f *Firestore) collection() *firestore.CollectionRef {
	return f.client.Collection(EntriesCollection)
}

func (f *Firestore) Create(ctx context.Context, n entrymodels.NewEntry) (*entrymodels.Entry, error) {
	e := n.Build(uuid.New().String(), f.now())
	doc := firestoreEntry{
		ID:          e.ID,
		Kind:        string(e.Kind),
		Title:       e.Title,
		Description: e.Description,
		Week:        e.Week,
		CreatedAt:   e.CreatedAt,
		EntryDate:   e.EntryDate,
		Media:       e.Media,
	}

	ref := f.collection().Doc(e.ID)
	if _, err := ref.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}
	e.InternalID = ref.Path
	return &e, nil
}

func (f *Firestore) List(ctx context.Context, kind *entrymodels.Kind) ([]entrymodels.Entry, error) {
	q := f.collection().Query
	if kind != nil {
		q = q.Where("kind", "==", string(*kind))
	}
	iter := q.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	entries := []entrymodels.Entry{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query entries: %w", err)
		}

		var doc firestoreEntry
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode entry %s: %w", snap.Ref.ID, err)
		}
		e := entrymodels.Entry{
			InternalID:  snap.Ref.Path,
			ID:          doc.ID,
			Kind:        entrymodels.Kind(doc.Kind),
			Title:       doc.Title,
			Description: doc.Description,
			Week:        doc.Week,
			CreatedAt:   doc.CreatedAt.UTC(),
			Media:       doc.Media,
		}
		if doc.EntryDate != nil {
			d := doc.EntryDate.UTC()
			e.EntryDate = &d
		}
		if e.Media == nil {
			e.Media = []entrymodels.MediaItem{}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (f *Firestore) Delete(ctx context.Context, id string) error {
	_, err := f.collection().Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (f *Firestore) Ping(ctx context.Context) error {
	iter := f.collection().Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

func (f *Firestore) Close(context.Context) error {
	return f.client.Close()
}
