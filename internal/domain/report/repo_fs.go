package report

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/docstore"
	"github.com/dermai/clinic/internal/platform/store"
)

const collection = "reports"

type repoFS struct{ client *docstore.Client }

func NewRepoFS(client *docstore.Client) Repository {
	return &repoFS{client: client}
}

func decodeReport(snap *firestore.DocumentSnapshot) (*Report, error) {
	var r Report
	if err := snap.DataTo(&r); err != nil {
		return nil, err
	}
	r.ID = snap.Ref.ID
	r.HospitalID = snap.Ref.Parent.Parent.ID
	if r.Messages == nil {
		r.Messages = []Message{}
	}
	return &r, nil
}

func (r *repoFS) doc(ctx context.Context, id string) (*firestore.DocumentRef, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, store.ErrNotFound
	}
	return col.Doc(id), nil
}

func (r *repoFS) Create(ctx context.Context, rep *Report) error {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return err
	}
	ref := col.NewDoc()
	rep.ID = ref.ID
	rep.HospitalID = db.HospitalFromContext(ctx)
	rep.CreatedAt = store.Now()
	rep.UpdatedAt = rep.CreatedAt
	rep.Treatments = store.Strings(rep.Treatments)
	rep.Medicines = store.Strings(rep.Medicines)
	rep.Messages = messagesOrEmpty(rep.Messages)
	_, err = ref.Create(ctx, rep)
	return err
}

func (r *repoFS) GetByID(ctx context.Context, id string) (*Report, error) {
	ref, err := r.doc(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, docstore.MapNotFound(err)
	}
	return decodeReport(snap)
}

// Update writes named fields only, so messages appended concurrently
// survive. Firestore's Update fails with NotFound on a missing document.
func (r *repoFS) Update(ctx context.Context, rep *Report) error {
	ref, err := r.doc(ctx, rep.ID)
	if err != nil {
		return err
	}
	rep.UpdatedAt = store.Now()
	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "doctor", Value: rep.Doctor},
		{Path: "diagnosis", Value: rep.Diagnosis},
		{Path: "notes", Value: rep.Notes},
		{Path: "treatments", Value: store.Strings(rep.Treatments)},
		{Path: "medicines", Value: store.Strings(rep.Medicines)},
		{Path: "ai_summary", Value: rep.AISummary},
		{Path: "ai_explanation", Value: rep.AIExplanation},
		{Path: "updated_at", Value: rep.UpdatedAt},
	})
	return docstore.MapNotFound(err)
}

func (r *repoFS) Delete(ctx context.Context, id string) error {
	ref, err := r.doc(ctx, id)
	if err != nil {
		return err
	}
	return docstore.Delete(ctx, ref)
}

func (r *repoFS) List(ctx context.Context, patientID string, limit, offset int) ([]*Report, int, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, 0, err
	}
	q := col.Query
	if patientID != "" {
		q = q.Where("patientId", "==", patientID)
	}
	total, err := docstore.Count(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	q = docstore.Window(q.OrderBy("created_at", firestore.Desc), limit, offset)
	items, err := docstore.Collect(q.Documents(ctx), decodeReport)
	return items, total, err
}

func (r *repoFS) AppendMessage(ctx context.Context, id string, m Message) error {
	ref, err := r.doc(ctx, id)
	if err != nil {
		return err
	}
	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "messages", Value: firestore.ArrayUnion(m)},
		{Path: "updated_at", Value: store.Now()},
	})
	return docstore.MapNotFound(err)
}

func (r *repoFS) MarkRead(ctx context.Context, id, reader string) error {
	ref, err := r.doc(ctx, id)
	if err != nil {
		return err
	}
	return r.client.Firestore().RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return docstore.MapNotFound(err)
		}
		rep, err := decodeReport(snap)
		if err != nil {
			return err
		}
		markRead(rep.Messages, reader)
		return tx.Update(ref, []firestore.Update{
			{Path: "messages", Value: rep.Messages},
			{Path: "updated_at", Value: store.Now()},
		})
	})
}

// Firestore cannot filter on fields inside array elements, so unread
// reports are found by scanning the hospital's reports.
func (r *repoFS) ListUnread(ctx context.Context) ([]*Report, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	all, err := docstore.Collect(col.OrderBy("created_at", firestore.Desc).Documents(ctx), decodeReport)
	if err != nil {
		return nil, err
	}
	var out []*Report
	for _, rep := range all {
		if rep.UnreadCount() > 0 {
			out = append(out, rep)
		}
	}
	return out, nil
}
