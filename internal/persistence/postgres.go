package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/civic-report/civic-report-service/internal/config"
)

// The table holds exactly one row; the snapshot is still written and read
// wholesale, postgres only replaces the local file as the slot.
const snapshotTableDDL = `
    CREATE TABLE IF NOT EXISTS app_snapshots (
        slot       TEXT PRIMARY KEY,
        data       JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`

// PostgresSnapshotter keeps the envelope in a single-row table.
type PostgresSnapshotter struct {
	pool   *pgxpool.Pool
	slot   string
	logger *zap.Logger
}

// NewPostgresSnapshotter establishes a connection pool and ensures the
// snapshot table exists.
func NewPostgresSnapshotter(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PostgresSnapshotter, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, snapshotTableDDL); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &PostgresSnapshotter{pool: pool, slot: cfg.SnapshotSlot, logger: logger}, nil
}

// Load reads the snapshot row. Corrupt or versioned-off data resolves to
// "no prior state".
func (p *PostgresSnapshotter) Load(ctx context.Context) (*Envelope, bool, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM app_snapshots WHERE slot=$1`, p.slot).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		p.logger.Warn("discarding corrupt snapshot", zap.String("slot", p.slot), zap.Error(err))
		return nil, false, nil
	}
	if env.SchemaVersion != SchemaVersion {
		p.logger.Warn("discarding snapshot with unknown schema version",
			zap.Int("found", env.SchemaVersion), zap.Int("expected", SchemaVersion))
		return nil, false, nil
	}
	return &env, true, nil
}

// Save upserts the single snapshot row.
func (p *PostgresSnapshotter) Save(ctx context.Context, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
        INSERT INTO app_snapshots (slot, data, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		p.slot, data)
	return err
}

// Close releases pool resources.
func (p *PostgresSnapshotter) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}
