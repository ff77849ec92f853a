// Package postgrescp is a Postgres-backed Checkpoint, grounded on the
// teacher's pgxpool connection setup and goose-driven migrations.
package postgrescp

import (
	"context"
	"embed"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq" // registers the "postgres" database/sql driver goose drives migrations through
	"github.com/pressly/goose/v3"

	"github.com/go-argmin/argmin/argerr"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Options configures the Postgres connection a Checkpoint opens.
type Options struct {
	ConnString  string
	MaxConns    int32
	AutoMigrate bool
}

// conn is the slice of pgxpool.Pool that Checkpoint needs, narrowed so
// tests can substitute pgxmock's pool double for the real pool.
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Checkpoint stores one (solver, state) snapshot per run key in the
// argmin_checkpoints table, JSON-encoded in a jsonb column.
type Checkpoint[Solver, St any] struct {
	pool conn
	key  string
}

type snapshot[Solver, St any] struct {
	Solver Solver `json:"solver"`
	State  St     `json:"state"`
}

// New opens a pgx connection pool, optionally runs migrations, and
// returns a Checkpoint scoped to key (typically a runid.ID).
func New[Solver, St any](ctx context.Context, opts Options, key string) (*Checkpoint[Solver, St], error) {
	poolCfg, err := pgxpool.ParseConfig(opts.ConnString)
	if err != nil {
		return nil, argerr.Wrap(err, argerr.CodeIOError, "parse postgres connection string")
	}
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}
	poolCfg.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, argerr.Wrap(err, argerr.CodeIOError, "create postgres connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, argerr.Wrap(err, argerr.CodeIOError, "ping postgres")
	}

	if opts.AutoMigrate {
		if err := runMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &Checkpoint[Solver, St]{pool: pool, key: key}, nil
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return argerr.Wrap(err, argerr.CodeIOError, "set goose dialect")
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return argerr.Wrap(err, argerr.CodeIOError, "run checkpoint migrations")
	}
	return nil
}

func (c *Checkpoint[Solver, St]) Save(solver Solver, st St) error {
	payload, err := json.Marshal(snapshot[Solver, St]{Solver: solver, State: st})
	if err != nil {
		return argerr.Wrap(err, argerr.CodeIOError, "marshal checkpoint snapshot")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const upsert = `
		INSERT INTO argmin_checkpoints (run_key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (run_key) DO UPDATE SET payload = $2, updated_at = now()`
	if _, err := c.pool.Exec(ctx, upsert, c.key, payload); err != nil {
		return argerr.Wrap(err, argerr.CodeIOError, "write checkpoint to postgres")
	}
	return nil
}

func (c *Checkpoint[Solver, St]) Load() (Solver, St, bool, error) {
	var snap snapshot[Solver, St]
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payload []byte
	err := c.pool.QueryRow(ctx, `SELECT payload FROM argmin_checkpoints WHERE run_key = $1`, c.key).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return snap.Solver, snap.State, false, nil
		}
		return snap.Solver, snap.State, false, argerr.Wrap(err, argerr.CodeIOError, "read checkpoint from postgres")
	}

	if err := json.Unmarshal(payload, &snap); err != nil {
		return snap.Solver, snap.State, false, argerr.Wrap(err, argerr.CodeIOError, "unmarshal checkpoint snapshot")
	}
	return snap.Solver, snap.State, true, nil
}

// Close releases the underlying connection pool.
func (c *Checkpoint[Solver, St]) Close() error {
	c.pool.Close()
	return nil
}
