package medicine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/idbridge"
	"github.com/dermai/clinic/internal/platform/store"
)

func testCtx() context.Context {
	return db.WithHospital(context.Background(), "hospital_test")
}

func TestService_Validation(t *testing.T) {
	svc := NewService(NewRepoMem(), idbridge.Empty())
	neg := -3
	cases := map[string]*Medicine{
		"missing name":      {Stock: 1},
		"negative stock":    {Name: "X", Stock: -1},
		"negative duration": {Name: "X", DurationDays: &neg},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Create(testCtx(), m), store.ErrInvalidInput)
		})
	}
}

func TestService_AdjustStock(t *testing.T) {
	svc := NewService(NewRepoMem(), idbridge.Empty())
	m := &Medicine{Name: "Isotretinoin", Stock: 3}
	require.NoError(t, svc.Create(testCtx(), m))

	_, err := svc.AdjustStock(testCtx(), m.ID, 0)
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	got, err := svc.AdjustStock(testCtx(), m.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	_, err = svc.AdjustStock(testCtx(), m.ID, -1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.ErrorIs(t, err, store.ErrConflict)
}
