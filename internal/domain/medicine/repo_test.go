package medicine

import (
	"errors"
	"sync"
	"testing"

	"github.com/dermai/clinic/internal/platform/store"
	"github.com/dermai/clinic/internal/platform/storetest"
)

func TestRepository_Memory(t *testing.T)    { testRepository(t, NewRepoMem()) }
func TestRepository_Postgres(t *testing.T)  { testRepository(t, NewRepoPG(storetest.Postgres(t))) }
func TestRepository_Firestore(t *testing.T) { testRepository(t, NewRepoFS(storetest.Firestore(t))) }

func TestStock_Memory(t *testing.T)    { testStock(t, NewRepoMem()) }
func TestStock_Postgres(t *testing.T)  { testStock(t, NewRepoPG(storetest.Postgres(t))) }
func TestStock_Firestore(t *testing.T) { testStock(t, NewRepoFS(storetest.Firestore(t))) }

func testRepository(t *testing.T, repo Repository) {
	ctx := storetest.Context(t)
	days := 14

	m := &Medicine{Name: "Tacrolimus 0.1%", Type: "ointment", Stock: 20, DurationDays: &days}
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Stock != 20 || got.DurationDays == nil || *got.DurationDays != 14 {
		t.Errorf("unexpected medicine: %+v", got)
	}

	got.Dosage = "apply twice daily"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	items, total, err := repo.List(ctx, 10, 0)
	if err != nil || total != 1 || items[0].Dosage != "apply twice daily" {
		t.Fatalf("List: %+v total %d err %v", items, total, err)
	}

	if err := repo.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, m.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
	if _, err := repo.AdjustStock(ctx, m.ID, 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound adjusting deleted row, got %v", err)
	}
}

func testStock(t *testing.T, repo Repository) {
	ctx := storetest.Context(t)

	m := &Medicine{Name: "Cetirizine", Stock: 10}
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.AdjustStock(ctx, m.ID, 5)
	if err != nil || got.Stock != 15 {
		t.Fatalf("restock: %+v, %v", got, err)
	}
	if _, err := repo.AdjustStock(ctx, m.ID, -16); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// fifteen concurrent single-unit dispenses drain the stock exactly
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AdjustStock(ctx, m.ID, -1); err != nil {
				if !errors.Is(err, ErrInsufficientStock) {
					t.Errorf("unexpected error: %v", err)
				}
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	final, err := repo.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if final.Stock != 0 || failed != 5 {
		t.Errorf("expected stock 0 with 5 refusals, got stock %d with %d refusals", final.Stock, failed)
	}
}

func TestMain(m *testing.M) {
	storetest.Main(m)
}
