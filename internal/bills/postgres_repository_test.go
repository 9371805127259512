package bills

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var billRowColumns = []string{
	"id", "created_at", "vendor_name", "total_amount", "summary", "status", "notes",
	"bill_text", "analysis", "contact_script", "doctor_questions", "scam_check",
}

func TestPostgresRepositorySave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	item := NewHistoryItem("bill-1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), "text", Analysis{Summary: "Water", PotentialIssues: []string{}})

	mock.ExpectExec("INSERT INTO bill_history").
		WithArgs("bill-1", item.Date, item.VendorName, item.TotalAmount, "Water", "waiting", "", "text", pgxmock.AnyArg(), "", "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM bill_history").
		WithArgs(MaxHistoryItems).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Save(context.Background(), item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetAndList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	analysis, err := json.Marshal(Analysis{Summary: "Water", PotentialIssues: []string{"late fee"}})
	require.NoError(t, err)
	vendor := "Riverside Water"

	mock.ExpectQuery("SELECT (.+) FROM bill_history WHERE id").
		WithArgs("bill-1").
		WillReturnRows(pgxmock.NewRows(billRowColumns).
			AddRow("bill-1", created, &vendor, (*string)(nil), "Water", "paid", "", "text", analysis, "", "", ""))

	got, err := repo.Get(context.Background(), "bill-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
	assert.Equal(t, &vendor, got.VendorName)
	assert.Nil(t, got.TotalAmount)
	assert.Equal(t, []string{"late fee"}, got.Analysis.PotentialIssues)

	mock.ExpectQuery("SELECT (.+) FROM bill_history WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBillNotFound)

	mock.ExpectQuery("SELECT (.+) FROM bill_history ORDER BY").
		WithArgs(MaxHistoryItems).
		WillReturnRows(pgxmock.NewRows(billRowColumns).
			AddRow("bill-2", created.Add(time.Hour), (*string)(nil), (*string)(nil), "Phone", "waiting", "", "t2", analysis, "", "", "").
			AddRow("bill-1", created, &vendor, (*string)(nil), "Water", "paid", "", "text", analysis, "", "", ""))
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bill-2", list[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryUpdateAndDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)

	mock.ExpectExec("UPDATE bill_history SET status").
		WithArgs("bill-1", "need-to-call").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), "bill-1", StatusNeedToCall))

	mock.ExpectExec("UPDATE bill_history SET status").
		WithArgs("gone", "paid").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), "gone", StatusPaid), ErrBillNotFound)

	mock.ExpectExec("DELETE FROM bill_history WHERE id").
		WithArgs("bill-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), "bill-1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
