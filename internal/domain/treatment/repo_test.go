package treatment

import (
	"errors"
	"testing"

	"github.com/dermai/clinic/internal/platform/store"
	"github.com/dermai/clinic/internal/platform/storetest"
)

func TestRepository_Memory(t *testing.T)    { testRepository(t, NewRepoMem()) }
func TestRepository_Postgres(t *testing.T)  { testRepository(t, NewRepoPG(storetest.Postgres(t))) }
func TestRepository_Firestore(t *testing.T) { testRepository(t, NewRepoFS(storetest.Firestore(t))) }

func testRepository(t *testing.T, repo Repository) {
	ctx := storetest.Context(t)

	tr := &Treatment{Name: "Phototherapy", Duration: "6 weeks", Cost: 1200.5}
	if err := repo.Create(ctx, tr); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByID(ctx, tr.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Phototherapy" || got.Cost != 1200.5 {
		t.Errorf("unexpected treatment: %+v", got)
	}

	got.Cost = 900
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := repo.GetByID(ctx, tr.ID)
	if again.Cost != 900 || !again.CreatedAt.Equal(got.CreatedAt) {
		t.Errorf("update not persisted: %+v", again)
	}

	items, total, err := repo.List(ctx, 10, 0)
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("List: %d items, total %d, err %v", len(items), total, err)
	}

	if err := repo.Delete(ctx, tr.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, tr.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
	if err := repo.Update(ctx, tr); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating deleted row, got %v", err)
	}
}

func TestMain(m *testing.M) {
	storetest.Main(m)
}
