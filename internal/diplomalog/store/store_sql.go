package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"sotadiploma/internal/diplomalog/models"
	"sotadiploma/internal/eligibility"
	"sotadiploma/internal/platform/database"
	"sotadiploma/internal/summit"
	"sotadiploma/pkg/platform/sentinel"
	"sotadiploma/pkg/platform/tx"
)

// SQLStore persists diploma log entries in Postgres or SQLite. Activation
// counts are stored as a JSON object keyed by region.
type SQLStore struct {
	db *database.DB
}

func NewSQL(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

const entryColumns = `id, call_sign, mail, name, category, rank, activations, created_on, review_mail_sent, language`

// CreateNew checks and inserts inside one transaction. The unique indexes on
// diploma_log catch a concurrent writer that slipped past the check; that
// surfaces as sentinel.ErrConflict and the caller retries.
func (s *SQLStore) CreateNew(ctx context.Context, entries []*models.Entry) ([]*models.Entry, error) {
	var stored []*models.Entry
	err := tx.Run(ctx, s.db.DB, "diploma log insert", func(ctx context.Context, tx *sql.Tx) error {
		stored = nil
		for _, e := range entries {
			if pendingTaken(e.DedupKey(), stored) {
				continue
			}
			exists, err := exists(ctx, tx, e.DedupKey())
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			acts, err := json.Marshal(e.Activations)
			if err != nil {
				return fmt.Errorf("encode activations: %w", err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO diploma_log (`+entryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				e.ID, e.CallSign, e.Mail, e.Name, string(e.Category), string(e.Rank), string(acts),
				database.FormatDate(e.CreatedOn), e.ReviewMailSent, e.Language)
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("insert diploma log entry %s: %w", e.ID, errors.Join(err, sentinel.ErrConflict))
			}
			if err != nil {
				return fmt.Errorf("insert diploma log entry: %w", err)
			}
			stored = append(stored, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func pendingTaken(key models.DedupKey, pending []*models.Entry) bool {
	for _, e := range pending {
		if key.Matches(e) {
			return true
		}
	}
	return false
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) Exists(ctx context.Context, key models.DedupKey) (bool, error) {
	return exists(ctx, s.db, key)
}

func exists(ctx context.Context, q rowQuerier, key models.DedupKey) (bool, error) {
	query := `SELECT COUNT(*) FROM diploma_log WHERE call_sign = $1 AND category = $2`
	args := []any{key.CallSign, string(key.Category)}
	if key.Rank != nil {
		query += ` AND rank = $3`
		args = append(args, string(*key.Rank))
	}

	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count diploma log entries: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM diploma_log WHERE id = $1`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("diploma log entry %s: %w", id, sentinel.ErrNotFound)
	}
	return e, err
}

func (s *SQLStore) ListPending(ctx context.Context) ([]*models.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM diploma_log WHERE review_mail_sent = $1 ORDER BY created_on, id`, false)
	if err != nil {
		return nil, fmt.Errorf("list pending diploma log entries: %w", err)
	}
	defer rows.Close()

	out := []*models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending diploma log entries: %w", err)
	}
	return out, nil
}

func (s *SQLStore) SetReviewMailSent(ctx context.Context, id string, sent bool) (*models.Entry, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE diploma_log SET review_mail_sent = $2 WHERE id = $1`, id, sent)
	if err != nil {
		return nil, fmt.Errorf("update diploma log entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update diploma log entry: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("diploma log entry %s: %w", id, sentinel.ErrNotFound)
	}
	return s.Get(ctx, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.Entry, error) {
	var (
		e                      models.Entry
		category, rank         string
		activations, createdOn string
	)
	err := row.Scan(&e.ID, &e.CallSign, &e.Mail, &e.Name, &category, &rank, &activations, &createdOn, &e.ReviewMailSent, &e.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan diploma log entry: %w", err)
	}
	e.Category = eligibility.Category(category)
	e.Rank = eligibility.Rank(rank)
	if e.CreatedOn, err = database.ParseDate(createdOn); err != nil {
		return nil, err
	}
	e.Activations = map[summit.Region]int64{}
	if err := json.Unmarshal([]byte(activations), &e.Activations); err != nil {
		return nil, fmt.Errorf("decode activations of %s: %w", e.ID, err)
	}
	return &e, nil
}
