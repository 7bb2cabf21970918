package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver
	"github.com/pressly/goose/v3"

	"github.com/flyride/journal/internal/config"
	"github.com/flyride/journal/internal/kv"
	"github.com/flyride/journal/internal/repo"
	"github.com/flyride/journal/migrations"
)

// storage is the persistence selected by STORE_BACKEND.
type storage struct {
	kv    kv.Store
	trips repo.TripRepo
	close func()
}

// openStorage builds the blob store and trip repository for cfg.StoreBackend.
// Postgres gets its schema from the embedded goose migrations; the other
// backends keep trips in the blob store.
func openStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (storage, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("using in-memory store; data is lost on restart")
		store := kv.NewMemoryStore()
		return storage{kv: store, trips: repo.NewKVTripRepo(store), close: func() {}}, nil

	case config.BackendSQLite:
		return openSQLite(ctx, cfg.SQLitePath)

	case config.BackendPostgres:
		return openPostgres(ctx, cfg.DatabaseURL, log)

	default:
		store, err := kv.NewFileStore(filepath.Join(cfg.DataDir, "store"))
		if err != nil {
			return storage{}, fmt.Errorf("open file store: %w", err)
		}
		return storage{kv: store, trips: repo.NewKVTripRepo(store), close: func() {}}, nil
	}
}

func openSQLite(ctx context.Context, path string) (storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return storage{}, fmt.Errorf("create sqlite directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return storage{}, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	store, err := kv.NewSQLStore(ctx, db)
	if err != nil {
		db.Close()
		return storage{}, err
	}
	return storage{kv: store, trips: repo.NewKVTripRepo(store), close: func() { db.Close() }}, nil
}

func openPostgres(ctx context.Context, dsn string, log *slog.Logger) (storage, error) {
	// New() does not open connections immediately; Ping does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return storage{}, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return storage{}, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("database connection established")

	// goose speaks database/sql; borrow a handle on the same pool.
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		pool.Close()
		return storage{}, fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		pool.Close()
		return storage{}, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations applied", "count", len(results))

	return storage{kv: kv.NewPgStore(pool), trips: repo.NewPgTripRepo(pool), close: pool.Close}, nil
}
