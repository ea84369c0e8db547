package models

import (
	"context"
	"database/sql"
	"time"
)

type sqlRegistrationRepo struct{ db *sql.DB }

func NewSQLRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &sqlRegistrationRepo{db}
}

// Register relies on UNIQUE(user_id, event_id) to reject duplicates.
func (r *sqlRegistrationRepo) Register(ctx context.Context, userID, eventID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO registrations(user_id, event_id, created_at) VALUES ($1,$2,$3)`,
		userID, eventID, time.Now().UTC())
	if isUniqueViolation(err) {
		return ErrAlreadyRegistered
	}
	return err
}

func (r *sqlRegistrationRepo) Cancel(ctx context.Context, userID, eventID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE user_id=$1 AND event_id=$2`, userID, eventID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqlRegistrationRepo) EventIDsByUser(ctx context.Context, userID string) ([]string, error) {
	return queryStrings(ctx, r.db,
		`SELECT event_id FROM registrations WHERE user_id=$1 ORDER BY created_at, event_id`, userID)
}

func (r *sqlRegistrationRepo) Registrants(ctx context.Context, eventID string) ([]string, error) {
	return queryStrings(ctx, r.db,
		`SELECT user_id FROM registrations WHERE event_id=$1 ORDER BY created_at, user_id`, eventID)
}

func (r *sqlRegistrationRepo) RegistrantsByEvent(ctx context.Context) (map[string][]string, error) {
	return queryGroups(ctx, r.db,
		`SELECT event_id, user_id FROM registrations ORDER BY created_at, user_id`)
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// queryGroups collects (key, value) rows into key -> values, preserving row order.
func queryGroups(ctx context.Context, db *sql.DB, query string, args ...any) (map[string][]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = append(out[k], v)
	}
	return out, rows.Err()
}
