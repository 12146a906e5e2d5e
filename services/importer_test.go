package services

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scores.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestReadScoreCSV(t *testing.T) {
	path := writeCSV(t, `tower_id,anomaly_score,link_pred_error,neighbor_inconsistency
1,0.1,0.05,
2,0.5,,0.2
3,0.9,0.3,0.4
`)

	rows, err := ReadScoreCSV(path)
	if err != nil {
		t.Fatalf("ReadScoreCSV failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	if rows[0].TowerID != 1 || rows[0].AnomalyScore != 0.1 {
		t.Errorf("row[0] = %+v", rows[0])
	}
	if rows[0].LinkPredError == nil || *rows[0].LinkPredError != 0.05 {
		t.Errorf("row[0].LinkPredError = %v, want 0.05", rows[0].LinkPredError)
	}
	if rows[0].NeighborInconsistency != nil {
		t.Errorf("row[0].NeighborInconsistency = %v, want nil", rows[0].NeighborInconsistency)
	}
	if rows[1].LinkPredError != nil {
		t.Errorf("row[1].LinkPredError = %v, want nil", rows[1].LinkPredError)
	}
	if rows[1].NeighborInconsistency == nil || *rows[1].NeighborInconsistency != 0.2 {
		t.Errorf("row[1].NeighborInconsistency = %v, want 0.2", rows[1].NeighborInconsistency)
	}
}

func TestReadScoreCSVWithoutOptionalColumns(t *testing.T) {
	path := writeCSV(t, "tower_id,anomaly_score\n7,0.33\n")

	rows, err := ReadScoreCSV(path)
	if err != nil {
		t.Fatalf("ReadScoreCSV failed: %v", err)
	}
	if len(rows) != 1 || rows[0].TowerID != 7 || rows[0].AnomalyScore != 0.33 {
		t.Errorf("rows = %+v", rows)
	}
	if rows[0].LinkPredError != nil || rows[0].NeighborInconsistency != nil {
		t.Errorf("optional fields should be nil: %+v", rows[0])
	}
}

func TestReadScoreCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing tower_id column", "id,anomaly_score\n1,0.5\n"},
		{"missing score column", "tower_id,score\n1,0.5\n"},
		{"non-numeric score", "tower_id,anomaly_score\n1,not-a-number\n"},
		{"non-integer tower", "tower_id,anomaly_score\nabc,0.5\n"},
		{"bad optional float", "tower_id,anomaly_score,link_pred_error\n1,0.5,xyz\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			if _, err := ReadScoreCSV(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestReadScoreCSVMissingFile(t *testing.T) {
	if _, err := ReadScoreCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateBatch(t *testing.T) {
	tests := []struct {
		name    string
		rows    []ScoreRow
		wantErr bool
	}{
		{"valid", []ScoreRow{{TowerID: 1, AnomalyScore: 0.1}, {TowerID: 2, AnomalyScore: 0.2}}, false},
		{"empty", nil, true},
		{"duplicate tower", []ScoreRow{{TowerID: 1, AnomalyScore: 0.1}, {TowerID: 1, AnomalyScore: 0.2}}, true},
		{"nan score", []ScoreRow{{TowerID: 1, AnomalyScore: math.NaN()}}, true},
		{"inf score", []ScoreRow{{TowerID: 1, AnomalyScore: math.Inf(1)}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatch(tt.rows)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBatch() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBatchEmptyIsSentinel(t *testing.T) {
	if err := ValidateBatch(nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("error = %v, want ErrEmptyBatch", err)
	}
}

func TestSummarize(t *testing.T) {
	scores := []float64{0.1, 0.5, 0.9}
	percentiles := PercentileRanks(scores)

	s := Summarize(scores, percentiles)

	if !almostEqual(s.MeanScore, 0.5) {
		t.Errorf("mean = %v, want 0.5", s.MeanScore)
	}
	if !almostEqual(s.StdScore, 0.4) {
		t.Errorf("std = %v, want 0.4", s.StdScore)
	}
	if s.MinScore != 0.1 || s.MaxScore != 0.9 {
		t.Errorf("min/max = %v/%v, want 0.1/0.9", s.MinScore, s.MaxScore)
	}
	if s.Above95th != 1 {
		t.Errorf("above_95th = %d, want 1", s.Above95th)
	}
	if s.Above99th != 1 {
		t.Errorf("above_99th = %d, want 1", s.Above99th)
	}
}

func TestSummarizeSingleScore(t *testing.T) {
	scores := []float64{0.7}
	s := Summarize(scores, PercentileRanks(scores))

	if s.StdScore != 0 {
		t.Errorf("std of single score = %v, want 0", s.StdScore)
	}
	if s.Above95th != 1 {
		// A lone score ranks at the 100th percentile.
		t.Errorf("above_95th = %d, want 1", s.Above95th)
	}
}
