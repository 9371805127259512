package bills

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := NewHistoryItem("a", base, "bill a", Analysis{Summary: "A", VendorName: strPtr("Gas Co")})
	newer := NewHistoryItem("b", base.Add(time.Hour), "bill b", Analysis{Summary: "B"})
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, StatusWaiting, list[1].Status)
	assert.Equal(t, strPtr("Gas Co"), list[1].VendorName)

	require.NoError(t, repo.UpdateStatus(ctx, "a", StatusPaid))
	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrBillNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "a"), ErrBillNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", StatusPaid), ErrBillNotFound)
}

func TestMemoryRepositoryKeepsNewest(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxHistoryItems+10; i++ {
		item := NewHistoryItem(fmt.Sprintf("bill-%03d", i), base.Add(time.Duration(i)*time.Minute), "text", Analysis{Summary: "s"})
		require.NoError(t, repo.Save(ctx, item))
	}
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, MaxHistoryItems)
	assert.Equal(t, "bill-059", list[0].ID)
	assert.Equal(t, "bill-010", list[len(list)-1].ID)
}
