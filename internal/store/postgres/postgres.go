package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// Options tunes the session database pool and startup behaviour. Zero values
// fall back to defaults sized for the session workload, which is tiny: the
// shop's own record space holds the domain data, this database only carries
// per-shop credentials.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectRetries  int
	RetryDelay      time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 10
	}
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = 5
	}
	if o.ConnMaxLifetime <= 0 {
		o.ConnMaxLifetime = 5 * time.Minute
	}
	if o.ConnMaxIdleTime <= 0 {
		o.ConnMaxIdleTime = time.Minute
	}
	if o.ConnectRetries <= 0 {
		o.ConnectRetries = 5
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 2 * time.Second
	}
	return o
}

// NewDB opens the session database and waits for it to become reachable,
// retrying the initial ping so the app tolerates the database coming up
// after it does.
func NewDB(databaseURL string, opts Options) (*sql.DB, error) {
	opts = opts.withDefaults()

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	var pingErr error
	for attempt := 1; attempt <= opts.ConnectRetries; attempt++ {
		if pingErr = db.Ping(); pingErr == nil {
			break
		}
		slog.Warn("session database not reachable yet", "attempt", attempt, "error", pingErr)
		if attempt < opts.ConnectRetries {
			time.Sleep(opts.RetryDelay)
		}
	}
	if pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("pinging session database after %d attempts: %w", opts.ConnectRetries, pingErr)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	return db, nil
}
