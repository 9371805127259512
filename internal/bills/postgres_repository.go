package bills

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists bill history in the bill_history table.
type PostgresRepository struct {
	db querier
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("bills: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithQuerier(db querier) *PostgresRepository {
	if db == nil {
		panic("bills: querier required")
	}
	return &PostgresRepository{db: db}
}

const billColumns = `id, created_at, vendor_name, total_amount, summary, status, notes, bill_text, analysis, contact_script, doctor_questions, scam_check`

func (r *PostgresRepository) Save(ctx context.Context, item HistoryItem) error {
	analysis, err := json.Marshal(item.Analysis)
	if err != nil {
		return fmt.Errorf("bills: encode analysis: %w", err)
	}
	query := `
		INSERT INTO bill_history (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			vendor_name = EXCLUDED.vendor_name,
			total_amount = EXCLUDED.total_amount,
			summary = EXCLUDED.summary,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			analysis = EXCLUDED.analysis,
			contact_script = EXCLUDED.contact_script,
			doctor_questions = EXCLUDED.doctor_questions,
			scam_check = EXCLUDED.scam_check
	`
	if _, err := r.db.Exec(ctx, query,
		item.ID, item.Date, item.VendorName, item.TotalAmount, item.Summary, string(item.Status),
		item.Notes, item.BillText, analysis, item.ContactScript, item.DoctorQuestions, item.ScamCheck,
	); err != nil {
		return fmt.Errorf("bills: save: %w", err)
	}

	trim := `
		DELETE FROM bill_history
		WHERE id NOT IN (SELECT id FROM bill_history ORDER BY created_at DESC, id DESC LIMIT $1)
	`
	if _, err := r.db.Exec(ctx, trim, MaxHistoryItems); err != nil {
		return fmt.Errorf("bills: trim history: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (HistoryItem, error) {
	query := `SELECT ` + billColumns + ` FROM bill_history WHERE id = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return HistoryItem{}, ErrBillNotFound
		}
		return HistoryItem{}, fmt.Errorf("bills: get: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]HistoryItem, error) {
	query := `SELECT ` + billColumns + ` FROM bill_history ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, MaxHistoryItems)
	if err != nil {
		return nil, fmt.Errorf("bills: list: %w", err)
	}
	defer rows.Close()

	items := []HistoryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("bills: list scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bills: list rows: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	ct, err := r.db.Exec(ctx, `UPDATE bill_history SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("bills: update status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrBillNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM bill_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("bills: delete: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrBillNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (HistoryItem, error) {
	var (
		item     HistoryItem
		status   string
		analysis []byte
	)
	if err := row.Scan(
		&item.ID, &item.Date, &item.VendorName, &item.TotalAmount, &item.Summary, &status,
		&item.Notes, &item.BillText, &analysis, &item.ContactScript, &item.DoctorQuestions, &item.ScamCheck,
	); err != nil {
		return HistoryItem{}, err
	}
	item.Status = Status(status)
	if len(analysis) > 0 {
		if err := json.Unmarshal(analysis, &item.Analysis); err != nil {
			return HistoryItem{}, fmt.Errorf("decode analysis: %w", err)
		}
	}
	return item, nil
}
