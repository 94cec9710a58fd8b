package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

type initializer interface {
	Init(ctx context.Context) error
}

// Open builds the store selected by cfg.StoreDriver. The returned close
// function releases any connection pool and is safe to call once.
func Open(ctx context.Context, cfg *config.Config) (book.Store, func(), error) {
	var (
		s       book.Store
		closeFn = func() {}
	)

	switch cfg.StoreDriver {
	case config.DriverMemory:
		s = NewMemoryStore(nil)
	case config.DriverFile:
		s = NewFileStore(cfg.DataFile)
	case config.DriverPostgres:
		pool, err := openPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		s = NewDocumentPG(pool, cfg.CollectionName)
		closeFn = pool.Close
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if in, ok := s.(initializer); ok && cfg.StoreInit {
		if err := in.Init(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
	}
	return s, closeFn, nil
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool, nil
}

// RedactDSN hides the credentials part of a connection URL.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
