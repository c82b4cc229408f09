package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/idbridge"
	"github.com/dermai/clinic/internal/platform/store"
)

func testCtx() context.Context {
	return db.WithHospital(context.Background(), "hospital_test")
}

// newTestService runs on a clock that advances one minute per reading.
func newTestService() *Service {
	svc := NewService(NewRepoMem(), idbridge.New(map[string]string{"fb_p1": "p1"}))
	clock := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func TestService_CheckInDefaults(t *testing.T) {
	svc := newTestService()
	e, err := svc.CheckIn(testCtx(), "fb_p1", "")
	require.NoError(t, err)

	assert.Equal(t, "p1", e.PatientID)
	assert.Equal(t, TypeCheckUp, e.QueueType)
	assert.Equal(t, StatusWaiting, e.Status)
	assert.Equal(t, "2026-05-04", e.Date)
	assert.Equal(t, 1, e.TokenNumber)
	assert.Equal(t, 15, e.EstimatedWaitTime)
}

func TestService_CheckInValidation(t *testing.T) {
	svc := newTestService()
	_, err := svc.CheckIn(testCtx(), " ", TypeBilling)
	assert.ErrorIs(t, err, store.ErrInvalidInput)
	_, err = svc.CheckIn(testCtx(), "p1", "x-ray")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestService_TokensPerQueue(t *testing.T) {
	svc := newTestService()
	var got []int
	for _, typ := range []string{TypeCheckUp, TypeCheckUp, TypeBilling, TypeCheckUp} {
		e, err := svc.CheckIn(testCtx(), "p", typ)
		require.NoError(t, err)
		got = append(got, e.TokenNumber)
	}
	assert.Equal(t, []int{1, 2, 1, 3}, got)
}

func TestService_BoardHasEveryType(t *testing.T) {
	svc := newTestService()
	board, err := svc.Board(testCtx())
	require.NoError(t, err)
	assert.Len(t, board, 3)
	for _, typ := range Types() {
		assert.NotNil(t, board[typ], typ)
		assert.Empty(t, board[typ], typ)
	}

	a, _ := svc.CheckIn(testCtx(), "a", TypeTreatment)
	b, _ := svc.CheckIn(testCtx(), "b", TypeTreatment)
	c, _ := svc.CheckIn(testCtx(), "c", TypeTreatment)
	_, err = svc.UpdateStatus(testCtx(), a.ID, StatusInProgress)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(testCtx(), c.ID, StatusCancelled)
	require.NoError(t, err)

	board, err = svc.Board(testCtx())
	require.NoError(t, err)
	require.Len(t, board[TypeTreatment], 2)
	assert.Equal(t, a.ID, board[TypeTreatment][0].ID)
	assert.Equal(t, b.ID, board[TypeTreatment][1].ID)

	waiting, err := svc.Waiting(testCtx())
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, b.ID, waiting[0].ID)
}

func TestService_UpdateStatus(t *testing.T) {
	svc := newTestService()
	e, err := svc.CheckIn(testCtx(), "p1", TypeCheckUp)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(testCtx(), e.ID, "paused")
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	got, err := svc.UpdateStatus(testCtx(), e.ID, StatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, got.StartTime)
	assert.Nil(t, got.EndTime)
	assert.Equal(t, got.StartTime, got.StatusUpdatedAt)

	got, err = svc.UpdateStatus(testCtx(), e.ID, StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.After(*got.StartTime))

	require.NoError(t, svc.Delete(testCtx(), e.ID))
	_, err = svc.Get(testCtx(), e.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
