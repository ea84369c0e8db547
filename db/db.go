package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"
)

// Supported values for SQL_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

// Open connects to the relational store holding users, registrations and applications.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open %s: %w", driver, err)
	}
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// one writer; avoids SQLITE_BUSY under concurrent registrations
		sqldb.SetMaxOpenConns(1)
	} else {
		sqldb.SetMaxOpenConns(20)
		sqldb.SetMaxIdleConns(10)
	}
	return sqldb, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		user_type TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		organization_name TEXT NOT NULL DEFAULT ''
	)`,
	// events live in Mongo, so event_id carries no foreign key
	`CREATE TABLE IF NOT EXISTS registrations (
		user_id TEXT NOT NULL REFERENCES users(id),
		event_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, event_id)
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		opportunity_id TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, opportunity_id)
	)`,
	`CREATE INDEX IF NOT EXISTS registrations_event_idx ON registrations(event_id)`,
	`CREATE INDEX IF NOT EXISTS applications_opportunity_idx ON applications(opportunity_id)`,
}

// InitSchema creates the tables if they do not exist. The DDL is valid for both
// Postgres and SQLite.
func InitSchema(ctx context.Context, sqldb *sql.DB) error {
	for _, stmt := range schema {
		if _, err := sqldb.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// ConnectMongo dials and pings the document store holding events and opportunities.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mg, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	if err := mg.Ping(ctx, nil); err != nil {
		_ = mg.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return mg, nil
}
