package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/catalog-server/database"
	"github.com/dtroode/catalog-server/internal/model"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeOutOfRange      = "22003"
)

// Connection is the pool shared by the product and user repositories.
type Connection struct {
	*pgxpool.Pool
}

// NewConection opens a pool, checks it is reachable and applies pending
// migrations. maxConns <= 0 keeps the pgxpool default.
func NewConection(ctx context.Context, dsn string, maxConns int32) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		conf.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{
		Pool: pool,
	}, nil
}

func (s *Connection) Close() error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return s.Pool.Ping(ctx)
}

// translateWriteError turns constraint violations into domain errors.
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		if pgErr.ConstraintName == "" || pgErr.ConstraintName == "users_email_key" {
			return model.ErrEmailTaken
		}
		return model.NewValidationErrorf("duplicate value violates %s", pgErr.ConstraintName)
	case codeCheckViolation:
		return model.NewValidationErrorf("value violates %s", pgErr.ConstraintName)
	case codeOutOfRange:
		return model.NewValidationError("numeric value out of range")
	}
	return err
}
