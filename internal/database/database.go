// Package database opens the PostgreSQL pool shared by the repositories.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/XSAM/otelsql"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"stickynote/internal/config"
)

const applicationName = "stickynote"

var (
	sqlOpen = sql.Open

	// Postgres often comes up after the API in compose setups.
	pingAttempts = 5
	pingBackoff  = time.Second
	pingTimeout  = 5 * time.Second
)

// DSN renders c as a postgres:// URL tagged with the application name.
func DSN(c config.DatabaseConfig) (string, error) {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.User, validation.Required),
		validation.Field(&c.Name, validation.Required),
	)
	if err != nil {
		return "", fmt.Errorf("database config: %w", err)
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   c.Name,
		User:   url.User(c.User),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	q := url.Values{}
	q.Set("application_name", applicationName)
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// NewPostgres opens a traced pool on the pgx stdlib driver and waits until
// the server answers a ping, retrying a few times before giving up.
func NewPostgres(ctx context.Context, c config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	configurePool(db, c)

	if err := waitReady(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func configurePool(db *sql.DB, c config.DatabaseConfig) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
}

func waitReady(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = Ping(ctx, db, pingTimeout); err == nil {
			return nil
		}
		if attempt == pingAttempts {
			break
		}
		log.Warn("database not ready", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pingBackoff):
		}
	}
	return err
}

// Ping checks connectivity, bounded by timeout.
func Ping(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}
