package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gopower/domain/core"
	"gopower/domain/design"
	apperrors "gopower/internal/errors"
	"gopower/ports"
)

// SweepRepositoryImpl implements SweepRepository for PostgreSQL
type SweepRepositoryImpl struct {
	db *sqlx.DB
}

// NewSweepRepository creates a new PostgreSQL sweep repository
func NewSweepRepository(db *sqlx.DB) ports.SweepRepository {
	return &SweepRepositoryImpl{db: db}
}

// Connect opens a PostgreSQL connection for the repository.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, apperrors.StoreError("failed to connect to postgres", err)
	}
	return db, nil
}

// EnsureSchema creates the sweep tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sweeps (
			id           TEXT PRIMARY KEY,
			seed         BIGINT NOT NULL,
			threshold    DOUBLE PRECISION NOT NULL,
			replicates   INTEGER NOT NULL,
			fingerprint  TEXT NOT NULL,
			runtime_ms   BIGINT NOT NULL,
			manifest     JSONB NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS sweep_rows (
			sweep_id       TEXT NOT NULL REFERENCES sweeps(id) ON DELETE CASCADE,
			position       INTEGER NOT NULL,
			intercept_mean DOUBLE PRECISION NOT NULL,
			slope_mean     DOUBLE PRECISION NOT NULL,
			metric         DOUBLE PRECISION NOT NULL,
			metric_defined BOOLEAN NOT NULL,
			replicates     INTEGER NOT NULL,
			missing_count  INTEGER NOT NULL,
			evidence       JSONB NOT NULL,
			PRIMARY KEY (sweep_id, position)
		)`)
	if err != nil {
		return apperrors.StoreError("failed to ensure sweep schema", err)
	}
	return nil
}

// SaveSweep stores a completed sweep and its rows in one transaction.
func (r *SweepRepositoryImpl) SaveSweep(ctx context.Context, result *design.SweepResult) error {
	manifestJSON, err := json.Marshal(result.Manifest)
	if err != nil {
		return apperrors.StoreError("failed to encode sweep manifest", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.StoreError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sweeps (id, seed, threshold, replicates, fingerprint, runtime_ms, manifest)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			fingerprint = EXCLUDED.fingerprint,
			runtime_ms  = EXCLUDED.runtime_ms,
			manifest    = EXCLUDED.manifest`,
		result.SweepID.String(), result.Manifest.Seed, result.Manifest.Threshold,
		result.Manifest.Replicates, result.Fingerprint.String(), result.RuntimeMs, manifestJSON)
	if err != nil {
		return apperrors.StoreError("failed to store sweep", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sweep_rows WHERE sweep_id = $1`, result.SweepID.String()); err != nil {
		return apperrors.StoreError("failed to clear sweep rows", err)
	}

	for i, row := range result.Table.Rows {
		evidenceJSON, err := json.Marshal(row.Evidence)
		if err != nil {
			return apperrors.StoreError(fmt.Sprintf("failed to encode evidence summary for row %d", i), err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sweep_rows (sweep_id, position, intercept_mean, slope_mean,
				metric, metric_defined, replicates, missing_count, evidence)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			result.SweepID.String(), i, row.Point.InterceptMean, row.Point.SlopeMean,
			row.Metric.Value, row.Metric.Defined, row.Replicates, row.MissingCount, evidenceJSON)
		if err != nil {
			return apperrors.StoreError(fmt.Sprintf("failed to store sweep row %d", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.StoreError("failed to commit sweep", err)
	}
	return nil
}

// GetSweep reconstructs a stored sweep, rows in enumeration order.
func (r *SweepRepositoryImpl) GetSweep(ctx context.Context, id core.SweepID) (*design.SweepResult, error) {
	var sweepRow struct {
		ID          string `db:"id"`
		Fingerprint string `db:"fingerprint"`
		RuntimeMs   int64  `db:"runtime_ms"`
		Manifest    []byte `db:"manifest"`
	}
	err := r.db.GetContext(ctx, &sweepRow,
		`SELECT id, fingerprint, runtime_ms, manifest FROM sweeps WHERE id = $1`, id.String())
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(fmt.Sprintf("sweep %s", id))
	}
	if err != nil {
		return nil, apperrors.StoreError("failed to load sweep", err)
	}

	var manifest design.SweepManifest
	if err := json.Unmarshal(sweepRow.Manifest, &manifest); err != nil {
		return nil, apperrors.StoreError("failed to decode sweep manifest", err)
	}

	var dbRows []struct {
		InterceptMean float64 `db:"intercept_mean"`
		SlopeMean     float64 `db:"slope_mean"`
		Metric        float64 `db:"metric"`
		MetricDefined bool    `db:"metric_defined"`
		Replicates    int     `db:"replicates"`
		MissingCount  int     `db:"missing_count"`
		Evidence      []byte  `db:"evidence"`
	}
	err = r.db.SelectContext(ctx, &dbRows, `
		SELECT intercept_mean, slope_mean, metric, metric_defined, replicates, missing_count, evidence
		FROM sweep_rows WHERE sweep_id = $1 ORDER BY position`, id.String())
	if err != nil {
		return nil, apperrors.StoreError("failed to load sweep rows", err)
	}

	rows := make([]design.SummaryRow, len(dbRows))
	for i, dr := range dbRows {
		var evidence design.EvidenceSummary
		if err := json.Unmarshal(dr.Evidence, &evidence); err != nil {
			return nil, apperrors.StoreError(fmt.Sprintf("failed to decode evidence summary for row %d", i), err)
		}
		rows[i] = design.SummaryRow{
			Point: design.GridPoint{
				InterceptMean: dr.InterceptMean,
				SlopeMean:     dr.SlopeMean,
				InterceptSD:   manifest.Grid.InterceptSD,
				SlopeSD:       manifest.Grid.SlopeSD,
				NoiseSD:       manifest.Grid.NoiseSD,
			},
			Metric:       design.Metric{Value: dr.Metric, Defined: dr.MetricDefined},
			Replicates:   dr.Replicates,
			MissingCount: dr.MissingCount,
			Evidence:     evidence,
		}
	}

	return &design.SweepResult{
		SweepID:     core.SweepID(sweepRow.ID),
		Table:       design.ResultTable{Rows: rows},
		Manifest:    manifest,
		Fingerprint: core.Hash(sweepRow.Fingerprint),
		RuntimeMs:   sweepRow.RuntimeMs,
	}, nil
}

// ListSweeps returns the manifests of all stored sweeps, newest first.
func (r *SweepRepositoryImpl) ListSweeps(ctx context.Context) ([]design.SweepManifest, error) {
	var blobs [][]byte
	err := r.db.SelectContext(ctx, &blobs, `SELECT manifest FROM sweeps ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.StoreError("failed to list sweeps", err)
	}
	manifests := make([]design.SweepManifest, len(blobs))
	for i, blob := range blobs {
		if err := json.Unmarshal(blob, &manifests[i]); err != nil {
			return nil, apperrors.StoreError("failed to decode sweep manifest", err)
		}
	}
	return manifests, nil
}
