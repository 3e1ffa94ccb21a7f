package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AntonStoeckl/library-lending-go/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-lending-go/library/shell"
	"github.com/AntonStoeckl/library-lending-go/library/shell/config"
)

// initializeEventStore opens the configured store and returns a func that closes its connections.
func initializeEventStore(
	ctx context.Context,
	db config.Database,
	logger *slog.Logger,
	options ...postgresengine.Option,
) (shell.EventStore, func(), error) {

	options = append(options, postgresengine.WithTableName(db.TableName))

	var (
		eventStore *postgresengine.EventStore
		closeDB    func()
		err        error
	)

	switch db.Adapter {
	case config.AdapterMemory:
		logger.Warn("using the in-memory event store, all data is lost on shutdown")
		return memengine.NewEventStore(memengine.WithLogger(logger)), func() {}, nil

	case config.AdapterPGXPool:
		eventStore, closeDB, err = initializePGXEventStore(ctx, db, options...)

	case config.AdapterSQLDB:
		sqlDB, openErr := config.PostgresSQLDB(ctx, db.DSN, db.Pool)
		if openErr != nil {
			return nil, nil, openErr
		}
		closeDB = func() { _ = sqlDB.Close() }
		eventStore, err = postgresengine.NewEventStoreFromSQLDB(sqlDB, options...)

	case config.AdapterSQLX:
		sqlxDB, openErr := config.PostgresSQLX(ctx, db.DSN, db.Pool)
		if openErr != nil {
			return nil, nil, openErr
		}
		closeDB = func() { _ = sqlxDB.Close() }
		eventStore, err = postgresengine.NewEventStoreFromSQLX(sqlxDB, options...)

	default:
		return nil, nil, fmt.Errorf("unknown database adapter %q", db.Adapter)
	}

	if err != nil {
		if closeDB != nil {
			closeDB()
		}
		return nil, nil, err
	}

	if err = eventStore.CreateSchema(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}

	logger.Info("event store ready", "adapter", db.Adapter, "table", db.TableName, "replica", db.ReplicaDSN != "")

	return eventStore, closeDB, nil
}

func initializePGXEventStore(
	ctx context.Context,
	db config.Database,
	options ...postgresengine.Option,
) (*postgresengine.EventStore, func(), error) {

	primary, err := config.PostgresPGXPool(ctx, db.DSN, db.Pool)
	if err != nil {
		return nil, nil, err
	}

	if db.ReplicaDSN == "" {
		eventStore, storeErr := postgresengine.NewEventStoreFromPGXPool(primary, options...)
		return eventStore, primary.Close, storeErr
	}

	replica, err := config.PostgresPGXPool(ctx, db.ReplicaDSN, db.Pool)
	if err != nil {
		primary.Close()
		return nil, nil, err
	}

	closeBoth := func() {
		replica.Close()
		primary.Close()
	}

	eventStore, err := postgresengine.NewEventStoreFromPGXPoolAndReplica(primary, replica, options...)

	return eventStore, closeBoth, err
}
