package config

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPGXPoolConfig creates a pgxpool.Config for dsn with the configured pool sizes.
func PostgresPGXPoolConfig(dsn string, pool Pool) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing the pgx pool config failed: %w", err)
	}

	dbConfig.MaxConns = int32(pool.MaxOpenConns) //nolint:gosec // pool sizes are small
	dbConfig.MinConns = int32(pool.MinConns)     //nolint:gosec // pool sizes are small
	dbConfig.MaxConnLifetime = pool.MaxConnLifetime
	dbConfig.MaxConnIdleTime = pool.MaxConnIdleTime
	dbConfig.ConnConfig.ConnectTimeout = pool.ConnectTimeout

	return dbConfig, nil
}

// PostgresPGXPool opens and pings a pgxpool.Pool.
func PostgresPGXPool(ctx context.Context, dsn string, pool Pool) (*pgxpool.Pool, error) {
	dbConfig, err := PostgresPGXPoolConfig(dsn, pool)
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("creating the pgx pool failed: %w", err)
	}

	if pingErr := db.Ping(ctx); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("pinging the database failed: %w", pingErr)
	}

	return db, nil
}
