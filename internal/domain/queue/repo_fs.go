package queue

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/docstore"
	"github.com/dermai/clinic/internal/platform/store"
)

const (
	collection         = "queues"
	countersCollection = "queue_tokens"
	txAttempts         = 25
)

type repoFS struct{ client *docstore.Client }

func NewRepoFS(client *docstore.Client) Repository {
	return &repoFS{client: client}
}

type tokenCounter struct {
	Last int `firestore:"last"`
}

func decodeEntry(snap *firestore.DocumentSnapshot) (*Entry, error) {
	var e Entry
	if err := snap.DataTo(&e); err != nil {
		return nil, err
	}
	e.ID = snap.Ref.ID
	e.HospitalID = snap.Ref.Parent.Parent.ID
	return &e, nil
}

func (r *repoFS) ref(ctx context.Context, id string) (*firestore.DocumentRef, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, store.ErrNotFound
	}
	return col.Doc(id), nil
}

// CheckIn keeps one counter document per queue and day. Reading it in the
// transaction makes concurrent check-ins conflict and retry.
func (r *repoFS) CheckIn(ctx context.Context, e *Entry) error {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return err
	}
	counters, err := r.client.Collection(ctx, countersCollection)
	if err != nil {
		return err
	}
	counterRef := counters.Doc(e.Date + "_" + e.QueueType)
	doc := col.NewDoc()

	err = r.client.Firestore().RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var c tokenCounter
		snap, err := tx.Get(counterRef)
		switch {
		case docstore.IsNotFound(err):
		case err != nil:
			return err
		default:
			if err := snap.DataTo(&c); err != nil {
				return err
			}
		}
		c.Last++
		e.TokenNumber = c.Last
		if err := tx.Set(counterRef, c); err != nil {
			return err
		}
		return tx.Create(doc, e)
	}, firestore.MaxAttempts(txAttempts))
	if err != nil {
		return err
	}
	e.ID = doc.ID
	e.HospitalID = db.HospitalFromContext(ctx)
	return nil
}

func (r *repoFS) GetByID(ctx context.Context, id string) (*Entry, error) {
	doc, err := r.ref(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := doc.Get(ctx)
	if err != nil {
		return nil, docstore.MapNotFound(err)
	}
	return decodeEntry(snap)
}

func (r *repoFS) ListDay(ctx context.Context, date string, statuses []string) ([]*Entry, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	q := col.Where("date", "==", date).
		Where("status", "in", statuses).
		OrderBy("checkInTime", firestore.Asc)
	return docstore.Collect(q.Documents(ctx), decodeEntry)
}

func (r *repoFS) UpdateStatus(ctx context.Context, id, status string, at time.Time) (*Entry, error) {
	doc, err := r.ref(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := []firestore.Update{
		{Path: "status", Value: status},
		{Path: "statusUpdatedAt", Value: at},
	}
	switch status {
	case StatusInProgress:
		updates = append(updates, firestore.Update{Path: "startTime", Value: at})
	case StatusCompleted:
		updates = append(updates, firestore.Update{Path: "endTime", Value: at})
	}
	if _, err := doc.Update(ctx, updates); err != nil {
		return nil, docstore.MapNotFound(err)
	}
	snap, err := doc.Get(ctx)
	if err != nil {
		return nil, docstore.MapNotFound(err)
	}
	return decodeEntry(snap)
}

func (r *repoFS) Delete(ctx context.Context, id string) error {
	doc, err := r.ref(ctx, id)
	if err != nil {
		return err
	}
	return docstore.Delete(ctx, doc)
}
