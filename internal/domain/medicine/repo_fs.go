package medicine

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/docstore"
	"github.com/dermai/clinic/internal/platform/store"
)

const collection = "medicines"

// dispensing at a busy counter contends on one document
const txAttempts = 25

type repoFS struct{ client *docstore.Client }

func NewRepoFS(client *docstore.Client) Repository {
	return &repoFS{client: client}
}

func decodeMedicine(snap *firestore.DocumentSnapshot) (*Medicine, error) {
	var m Medicine
	if err := snap.DataTo(&m); err != nil {
		return nil, err
	}
	m.ID = snap.Ref.ID
	m.HospitalID = snap.Ref.Parent.Parent.ID
	return &m, nil
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

func (r *repoFS) Create(ctx context.Context, m *Medicine) error {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return err
	}
	doc := col.NewDoc()
	m.ID = doc.ID
	m.HospitalID = db.HospitalFromContext(ctx)
	m.CreatedAt = store.Now()
	m.UpdatedAt = m.CreatedAt
	_, err = doc.Create(ctx, m)
	return err
}

func (r *repoFS) GetByID(ctx context.Context, id string) (*Medicine, error) {
	doc, err := r.ref(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := doc.Get(ctx)
	if err != nil {
		return nil, docstore.MapNotFound(err)
	}
	return decodeMedicine(snap)
}

func (r *repoFS) Update(ctx context.Context, m *Medicine) error {
	doc, err := r.ref(ctx, m.ID)
	if err != nil {
		return err
	}
	m.UpdatedAt = store.Now()
	return r.client.Replace(ctx, doc, m)
}

func (r *repoFS) Delete(ctx context.Context, id string) error {
	doc, err := r.ref(ctx, id)
	if err != nil {
		return err
	}
	return docstore.Delete(ctx, doc)
}

func (r *repoFS) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, 0, err
	}
	total, err := docstore.Count(ctx, col.Query)
	if err != nil {
		return nil, 0, err
	}
	q := docstore.Window(col.OrderBy("created_at", firestore.Desc), limit, offset)
	items, err := docstore.Collect(q.Documents(ctx), decodeMedicine)
	return items, total, err
}

func (r *repoFS) AdjustStock(ctx context.Context, id string, delta int) (*Medicine, error) {
	doc, err := r.ref(ctx, id)
	if err != nil {
		return nil, err
	}
	var out *Medicine
	err = r.client.Firestore().RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if err != nil {
			return docstore.MapNotFound(err)
		}
		m, err := decodeMedicine(snap)
		if err != nil {
			return err
		}
		if m.Stock+delta < 0 {
			return ErrInsufficientStock
		}
		m.Stock += delta
		m.UpdatedAt = store.Now()
		out = m
		return tx.Update(doc, []firestore.Update{
			{Path: "stock", Value: m.Stock},
			{Path: "updated_at", Value: m.UpdatedAt},
		})
	}, firestore.MaxAttempts(txAttempts))
	if err != nil {
		return nil, err
	}
	return out, nil
}
