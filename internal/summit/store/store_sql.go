package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sotadiploma/internal/platform/database"
	"sotadiploma/internal/summit"
	"sotadiploma/pkg/platform/sentinel"
	"sotadiploma/pkg/platform/tx"
)

// SQLStore persists the summit list in Postgres or SQLite.
type SQLStore struct {
	db *database.DB
}

func NewSQL(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

const upsertSummit = `
INSERT INTO summits (summit_code, summit_name, valid_from, valid_to)
VALUES ($1, $2, $3, $4)
ON CONFLICT (summit_code) DO UPDATE SET
    summit_name = excluded.summit_name,
    valid_from  = excluded.valid_from,
    valid_to    = excluded.valid_to`

// UpsertAll writes all entries in one transaction.
func (s *SQLStore) UpsertAll(ctx context.Context, entries []summit.ListEntry) error {
	return tx.Run(ctx, s.db.DB, "summit upsert", func(ctx context.Context, tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertSummit)
		if err != nil {
			return fmt.Errorf("prepare summit upsert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.Code, e.Name, database.FormatDate(e.ValidFrom), database.FormatDate(e.ValidTo)); err != nil {
				return fmt.Errorf("upsert summit %s: %w", e.Code, err)
			}
		}
		return nil
	})
}

func (s *SQLStore) List(ctx context.Context) ([]summit.ListEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT summit_code, summit_name, valid_from, valid_to FROM summits ORDER BY summit_code`)
	if err != nil {
		return nil, fmt.Errorf("list summits: %w", err)
	}
	defer rows.Close()

	out := []summit.ListEntry{}
	for rows.Next() {
		e, err := scanSummit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list summits: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Get(ctx context.Context, code string) (*summit.ListEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT summit_code, summit_name, valid_from, valid_to FROM summits WHERE summit_code = $1`, code)
	e, err := scanSummit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("summit %s: %w", code, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLStore) Update(ctx context.Context, entry summit.ListEntry) (*summit.ListEntry, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE summits SET summit_name = $2, valid_from = $3, valid_to = $4 WHERE summit_code = $1`,
		entry.Code, entry.Name, database.FormatDate(entry.ValidFrom), database.FormatDate(entry.ValidTo))
	if err != nil {
		return nil, fmt.Errorf("update summit %s: %w", entry.Code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update summit %s: %w", entry.Code, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("summit %s: %w", entry.Code, sentinel.ErrNotFound)
	}
	return &entry, nil
}

func (s *SQLStore) Snapshot(ctx context.Context) (*summit.ValidityIndex, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return summit.IndexList(entries), nil
}

func (s *SQLStore) RecordUpdate(ctx context.Context, rec UpdateRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summit_list_updates (id, run_at, summit_count, not_modified) VALUES ($1, $2, $3, $4)`,
		rec.ID, database.FormatTimestamp(rec.RunAt), rec.SummitCount, rec.NotModified)
	if err != nil {
		return fmt.Errorf("record summit list update: %w", err)
	}
	return nil
}

func (s *SQLStore) LastUpdate(ctx context.Context) (*UpdateRecord, error) {
	var (
		rec   UpdateRecord
		runAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, run_at, summit_count, not_modified FROM summit_list_updates
		 WHERE not_modified = $1 ORDER BY run_at DESC LIMIT 1`, false).
		Scan(&rec.ID, &runAt, &rec.SummitCount, &rec.NotModified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("summit list update: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("last summit list update: %w", err)
	}
	if rec.RunAt, err = database.ParseTimestamp(runAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummit(row scanner) (summit.ListEntry, error) {
	var (
		e        summit.ListEntry
		from, to string
	)
	if err := row.Scan(&e.Code, &e.Name, &from, &to); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scan summit: %w", err)
	}
	var err error
	if e.ValidFrom, err = database.ParseDate(from); err != nil {
		return e, err
	}
	if e.ValidTo, err = database.ParseDate(to); err != nil {
		return e, err
	}
	return e, nil
}
