package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ScoreRow is one raw score from the upstream model, before ranking.
type ScoreRow struct {
	TowerID               int
	AnomalyScore          float64
	LinkPredError         *float64
	NeighborInconsistency *float64
}

// ImportSummary describes a completed batch import. Observability only; the
// stored rows are the data contract.
type ImportSummary struct {
	ModelVersion string  `json:"model_version"`
	RunID        string  `json:"run_id"`
	Imported     int     `json:"imported"`
	Deleted      int64   `json:"deleted"`
	MeanScore    float64 `json:"mean_score"`
	StdScore     float64 `json:"std_score"`
	MinScore     float64 `json:"min_score"`
	MaxScore     float64 `json:"max_score"`
	Above95th    int     `json:"above_95th"`
	Above99th    int     `json:"above_99th"`
}

// Importer performs the exclusive batch replace of anomaly scores for a
// model version. Imports of the same version are serialized via a
// transaction-scoped advisory lock; readers on read-committed isolation see
// either the old batch or the new one, never a mix.
type Importer struct {
	pool *pgxpool.Pool
}

func NewImporter(pool *pgxpool.Pool) *Importer {
	return &Importer{pool: pool}
}

const createScoresTable = `
CREATE TABLE IF NOT EXISTS tower_anomaly_scores (
	id SERIAL PRIMARY KEY,
	tower_id INTEGER NOT NULL,
	model_version TEXT NOT NULL,
	run_id TEXT,
	anomaly_score DOUBLE PRECISION NOT NULL,
	link_pred_error DOUBLE PRECISION,
	neighbor_inconsistency DOUBLE PRECISION,
	percentile DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (tower_id, model_version)
)`

// EnsureSchema creates the scores table if it does not exist yet.
func (imp *Importer) EnsureSchema(ctx context.Context) error {
	if _, err := imp.pool.Exec(ctx, createScoresTable); err != nil {
		return fmt.Errorf("create tower_anomaly_scores: %w", err)
	}
	return nil
}

// ReadScoreCSV loads a score batch from a CSV file with a header row.
// Required columns: tower_id, anomaly_score. Optional: link_pred_error,
// neighbor_inconsistency (empty cells become NULL). Any malformed row fails
// the whole batch before the database is touched.
func ReadScoreCSV(path string) ([]ScoreRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open score csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	towerCol, ok := cols["tower_id"]
	if !ok {
		return nil, fmt.Errorf("csv missing required column tower_id")
	}
	scoreCol, ok := cols["anomaly_score"]
	if !ok {
		return nil, fmt.Errorf("csv missing required column anomaly_score")
	}
	lpeCol, hasLPE := cols["link_pred_error"]
	niCol, hasNI := cols["neighbor_inconsistency"]

	var rows []ScoreRow
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++

		towerID, err := strconv.Atoi(record[towerCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid tower_id %q", line, record[towerCol])
		}
		score, err := strconv.ParseFloat(record[scoreCol], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid anomaly_score %q", line, record[scoreCol])
		}

		row := ScoreRow{TowerID: towerID, AnomalyScore: score}
		if hasLPE {
			if row.LinkPredError, err = parseOptionalFloat(record[lpeCol]); err != nil {
				return nil, fmt.Errorf("line %d: invalid link_pred_error %q", line, record[lpeCol])
			}
		}
		if hasNI {
			if row.NeighborInconsistency, err = parseOptionalFloat(record[niCol]); err != nil {
				return nil, fmt.Errorf("line %d: invalid neighbor_inconsistency %q", line, record[niCol])
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ValidateBatch rejects batches that cannot be imported: empty input,
// non-finite scores, or duplicate tower_ids. Duplicates are refused rather
// than resolved last-wins, since the computed percentiles would otherwise
// describe a different multiset than the stored rows.
func ValidateBatch(rows []ScoreRow) error {
	if len(rows) == 0 {
		return ErrEmptyBatch
	}
	seen := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		if math.IsNaN(row.AnomalyScore) || math.IsInf(row.AnomalyScore, 0) {
			return fmt.Errorf("tower %d: anomaly_score is not finite", row.TowerID)
		}
		if _, dup := seen[row.TowerID]; dup {
			return fmt.Errorf("duplicate tower_id %d in batch", row.TowerID)
		}
		seen[row.TowerID] = struct{}{}
	}
	return nil
}

// ImportBatch atomically replaces all scores for modelVersion with the given
// batch: validate, rank, then delete+insert inside one transaction guarded by
// an advisory lock on the version key. A crash or store failure rolls back,
// leaving the prior batch intact.
func (imp *Importer) ImportBatch(ctx context.Context, modelVersion, runID string, rows []ScoreRow) (*ImportSummary, error) {
	if err := ValidateBatch(rows); err != nil {
		return nil, err
	}

	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = row.AnomalyScore
	}
	percentiles := PercentileRanks(scores)

	tx, err := imp.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked bool
	err = tx.QueryRow(ctx,
		`SELECT pg_try_advisory_xact_lock(hashtext($1))`, modelVersion,
	).Scan(&locked)
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	if !locked {
		return nil, ErrImportInProgress
	}

	// Full replace: percentiles are only meaningful relative to one
	// coherent batch, so the prior run is superseded regardless of run_id.
	tag, err := tx.Exec(ctx,
		`DELETE FROM tower_anomaly_scores WHERE model_version = $1`, modelVersion)
	if err != nil {
		return nil, fmt.Errorf("delete prior batch: %w", err)
	}
	deleted := tag.RowsAffected()

	var runIDArg *string
	if runID != "" {
		runIDArg = &runID
	}

	batch := &pgx.Batch{}
	for i, row := range rows {
		batch.Queue(`
			INSERT INTO tower_anomaly_scores
				(tower_id, model_version, run_id, anomaly_score, link_pred_error, neighbor_inconsistency, percentile)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (tower_id, model_version) DO UPDATE SET
				run_id = EXCLUDED.run_id,
				anomaly_score = EXCLUDED.anomaly_score,
				link_pred_error = EXCLUDED.link_pred_error,
				neighbor_inconsistency = EXCLUDED.neighbor_inconsistency,
				percentile = EXCLUDED.percentile,
				created_at = CURRENT_TIMESTAMP
		`, row.TowerID, modelVersion, runIDArg, row.AnomalyScore,
			row.LinkPredError, row.NeighborInconsistency, percentiles[i])
	}

	br := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return nil, fmt.Errorf("insert score batch: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("close score batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit import tx: %w", err)
	}

	summary := Summarize(scores, percentiles)
	summary.ModelVersion = modelVersion
	summary.RunID = runID
	summary.Imported = len(rows)
	summary.Deleted = deleted
	return &summary, nil
}

// Summarize computes the human-readable import summary over a ranked batch.
func Summarize(scores, percentiles []float64) ImportSummary {
	s := ImportSummary{}
	if len(scores) == 0 {
		return s
	}
	s.MeanScore = stat.Mean(scores, nil)
	if len(scores) > 1 {
		s.StdScore = stat.StdDev(scores, nil)
	}
	s.MinScore = floats.Min(scores)
	s.MaxScore = floats.Max(scores)
	for _, p := range percentiles {
		if p > 95 {
			s.Above95th++
		}
		if p > 99 {
			s.Above99th++
		}
	}
	return s
}
