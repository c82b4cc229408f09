package report

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dermai/clinic/internal/platform/store"
	"github.com/dermai/clinic/internal/platform/storetest"
)

func TestRepository_Memory(t *testing.T)    { testRepository(t, NewRepoMem()) }
func TestRepository_Postgres(t *testing.T)  { testRepository(t, NewRepoPG(storetest.Postgres(t))) }
func TestRepository_Firestore(t *testing.T) { testRepository(t, NewRepoFS(storetest.Firestore(t))) }

func TestMessages_Memory(t *testing.T)    { testMessages(t, NewRepoMem()) }
func TestMessages_Postgres(t *testing.T)  { testMessages(t, NewRepoPG(storetest.Postgres(t))) }
func TestMessages_Firestore(t *testing.T) { testMessages(t, NewRepoFS(storetest.Firestore(t))) }

func testRepository(t *testing.T, repo Repository) {
	ctx := storetest.Context(t)

	r := &Report{PatientID: "patient-1", Diagnosis: "psoriasis", Treatments: []string{"t1"}, Medicines: []string{}}
	if err := repo.Create(ctx, r); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.ID == "" || r.HospitalID == "" || r.Messages == nil {
		t.Fatalf("Create did not stamp report: %+v", r)
	}

	got, err := repo.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Diagnosis != "psoriasis" || len(got.Treatments) != 1 || len(got.Messages) != 0 {
		t.Errorf("unexpected report: %+v", got)
	}

	got.Notes = "review in 2 weeks"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := repo.GetByID(ctx, r.ID)
	if again.Notes != "review in 2 weeks" {
		t.Errorf("update not persisted: %+v", again)
	}

	time.Sleep(2 * time.Millisecond)
	other := &Report{PatientID: "patient-2"}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	items, total, err := repo.List(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || items[0].ID != other.ID {
		t.Errorf("expected 2 reports newest first, got %d", total)
	}
	items, total, _ = repo.List(ctx, "patient-1", 10, 0)
	if total != 1 || items[0].ID != r.ID {
		t.Errorf("patient filter: got %d", total)
	}

	if err := repo.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, r.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, r.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
	if err := repo.AppendMessage(ctx, r.ID, Message{ID: "m"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound appending to deleted report, got %v", err)
	}
}

func testMessages(t *testing.T, repo Repository) {
	ctx := storetest.Context(t)

	r := &Report{PatientID: "patient-1"}
	if err := repo.Create(ctx, r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// concurrent senders must not lose each other's messages
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := Message{ID: store.NewID(), Sender: SenderPatient, Content: "hello", Timestamp: store.Now(), ReadByPatient: true}
			if err := repo.AppendMessage(ctx, r.ID, m); err != nil {
				t.Errorf("AppendMessage: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := repo.GetByID(ctx, r.ID)
	if len(got.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(got.Messages))
	}
	if got.UnreadCount() != 5 {
		t.Errorf("expected 5 unread, got %d", got.UnreadCount())
	}

	// a plain update must keep the thread
	got.Doctor = "Dr. Iyer"
	got.Messages = nil
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	unread, err := repo.ListUnread(ctx)
	if err != nil {
		t.Fatalf("ListUnread: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != r.ID || len(unread[0].Messages) != 5 {
		t.Fatalf("unexpected unread list: %+v", unread)
	}

	if err := repo.MarkRead(ctx, r.ID, SenderDoctor); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	got, _ = repo.GetByID(ctx, r.ID)
	for _, m := range got.Messages {
		if !m.ReadByDoctor || !m.ReadByPatient {
			t.Errorf("message not marked read: %+v", m)
		}
	}
	unread, _ = repo.ListUnread(ctx)
	if len(unread) != 0 {
		t.Errorf("expected empty inbox, got %d", len(unread))
	}
	if err := repo.MarkRead(ctx, "missing", SenderDoctor); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMain(m *testing.M) {
	storetest.Main(m)
}
