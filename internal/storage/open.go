package storage

import (
	"context"
	"fmt"
	"strings"

	logx "matchwatch/pkg/logx"
)

// Store is the alert history API.
type Store interface {
	AppendAlert(ctx context.Context, e AlertEntry) error
	// Recent returns up to n entries, newest first.
	Recent(ctx context.Context, n int) ([]AlertEntry, error)
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	log = log.With(logx.String("comp", "storage"), logx.String("driver", driver))

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}
