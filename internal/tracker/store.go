package tracker

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// OpenDatabase opens the PostgreSQL connection pool used by all stores.
func OpenDatabase(databaseURL string, maxConnections int) (*bun.DB, error) {
	if databaseURL == "" {
		return nil, NewStorageConnectionError("open", "postgres", nil)
	}

	if maxConnections <= 0 {
		maxConnections = 10
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(databaseURL)))
	sqldb.SetMaxOpenConns(maxConnections)
	sqldb.SetMaxIdleConns(maxConnections / 2)
	sqldb.SetConnMaxLifetime(time.Hour)

	db := bun.NewDB(sqldb, pgdialect.New())

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, NewStorageConnectionError("ping", "postgres", err)
	}

	return db, nil
}
