package doctor

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

	d := &Doctor{Name: "Dr. Kavya Menon", Specialty: "Dermatology"}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Specialty != "Dermatology" {
		t.Errorf("unexpected doctor: %+v", got)
	}

	got.Phone = "+91 98450 00000"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	items, total, err := repo.List(ctx, 10, 0)
	if err != nil || total != 1 || items[0].Phone != got.Phone {
		t.Fatalf("List: %+v total %d err %v", items, total, err)
	}

	if err := repo.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, d.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, d.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestMain(m *testing.M) {
	storetest.Main(m)
}
