package models

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type sqlApplicationRepo struct{ db *sql.DB }

func NewSQLApplicationRepository(db *sql.DB) ApplicationRepository {
	return &sqlApplicationRepo{db}
}

func (r *sqlApplicationRepo) Create(ctx context.Context, a *Application) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	a.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications(id, user_id, opportunity_id, status, created_at) VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.UserID, a.OpportunityID, a.Status, a.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyApplied
	}
	return err
}

func (r *sqlApplicationRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, opportunity_id, status FROM applications WHERE user_id=$1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.UserID, &a.OpportunityID, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *sqlApplicationRepo) Applicants(ctx context.Context, opportunityID string) ([]string, error) {
	return queryStrings(ctx, r.db,
		`SELECT user_id FROM applications WHERE opportunity_id=$1 ORDER BY created_at, user_id`, opportunityID)
}

func (r *sqlApplicationRepo) ApplicantsByOpportunity(ctx context.Context) (map[string][]string, error) {
	return queryGroups(ctx, r.db,
		`SELECT opportunity_id, user_id FROM applications ORDER BY created_at, user_id`)
}
