// README: Analysis history backed by PostgreSQL (JSONB request and result).
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresHistory struct {
	db *pgxpool.Pool
}

func NewPostgresHistory(db *pgxpool.Pool) *PostgresHistory {
	return &PostgresHistory{db: db}
}

func (s *PostgresHistory) Save(ctx context.Context, rec Record) error {
	reqJSON, err := json.Marshal(rec.Request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	resultJSON, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO analyses (id, client_id, start_city, end_city, request, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.ClientID, rec.Request.StartCity, rec.Request.EndCity, reqJSON, resultJSON, rec.CreatedAt,
	)
	return err
}

func (s *PostgresHistory) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, client_id, request, result, created_at
		FROM analyses
		WHERE id = $1`, id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PostgresHistory) ListByClient(ctx context.Context, clientID string, limit int) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, client_id, request, result, created_at
		FROM analyses
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, clientID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var reqJSON, resultJSON []byte
	if err := row.Scan(&rec.ID, &rec.ClientID, &reqJSON, &resultJSON, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reqJSON, &rec.Request); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &rec.Analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &rec, nil
}
