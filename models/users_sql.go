package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"volunteerhub/utils"
)

type sqlUserRepo struct{ db *sql.DB }

func NewSQLUserRepository(db *sql.DB) UserRepository { return &sqlUserRepo{db} }

// Create hashes u.Password in place before inserting and assigns u.ID.
func (r *sqlUserRepo) Create(ctx context.Context, u *User) error {
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = hashed
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users(id, email, password, user_type, name, organization_name) VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Email, u.Password, u.UserType, u.Name, u.OrganizationName)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *sqlUserRepo) ValidateCredentials(ctx context.Context, email, plain string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password, user_type, name, organization_name FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Email, &u.Password, &u.UserType, &u.Name, &u.OrganizationName)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	if !utils.CheckPasswordHash(plain, u.Password) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (r *sqlUserRepo) GetByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, user_type, name, organization_name FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Email, &u.UserType, &u.Name, &u.OrganizationName)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
