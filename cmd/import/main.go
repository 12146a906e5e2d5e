package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"tower-anomaly-api/config"
	"tower-anomaly-api/services"
)

var (
	csvPath      string
	modelVersion string
	runID        string
)

var rootCmd = &cobra.Command{
	Use:   "import-scores",
	Short: "Import a batch of GNN anomaly scores",
	Long: `Import anomaly scores from a CSV file into the aerocell database.

The batch is ranked (average-rank percentiles), then atomically replaces all
stored scores for the model version in one transaction. Re-running the import
for the same version supersedes the prior run wholesale.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runImport,
}

func init() {
	rootCmd.Flags().StringVar(&csvPath, "csv", "", "Path to the score CSV (tower_id, anomaly_score, ...)")
	rootCmd.Flags().StringVar(&modelVersion, "model-version", "gnn-link-pred-v1", "Model version identifier")
	rootCmd.Flags().StringVar(&runID, "run-id", "", "Run identifier (generated when empty)")
	_ = rootCmd.MarkFlagRequired("csv")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if runID == "" {
		runID = "run-" + uuid.NewString()
	}

	// Read and validate the batch before opening any connection, so a bad
	// file never touches the database.
	rows, err := services.ReadScoreCSV(csvPath)
	if err != nil {
		return err
	}
	if err := services.ValidateBatch(rows); err != nil {
		return err
	}
	log.Printf("loaded %d rows from %s", len(rows), csvPath)

	dbPool, err := pgxpool.New(ctx, cfg.Database.GetURL())
	if err != nil {
		return fmt.Errorf("db pool init failed: %w", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	log.Printf("db connected")

	importer := services.NewImporter(dbPool)
	if err := importer.EnsureSchema(ctx); err != nil {
		return err
	}

	summary, err := importer.ImportBatch(ctx, modelVersion, runID, rows)
	if errors.Is(err, services.ErrImportInProgress) {
		return fmt.Errorf("import of model_version=%s already running, aborting", modelVersion)
	}
	if err != nil {
		return err
	}

	if summary.Deleted > 0 {
		log.Printf("deleted %d existing scores for model_version=%s", summary.Deleted, modelVersion)
	}
	log.Printf("successfully imported %d anomaly scores (model_version=%s run_id=%s)",
		summary.Imported, modelVersion, runID)
	log.Printf("summary: mean=%.4f std=%.4f min=%.4f max=%.4f above_95th=%d above_99th=%d",
		summary.MeanScore, summary.StdScore, summary.MinScore, summary.MaxScore,
		summary.Above95th, summary.Above99th)

	publishSummary(ctx, cfg, summary)
	return nil
}

// publishSummary announces the completed import on Redis so dashboard
// clients on the websocket feed pick it up. Best effort: a missing broker
// never fails an import that already committed.
func publishSummary(ctx context.Context, cfg *config.Config, summary *services.ImportSummary) {
	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("redis unavailable, skipping import event: %v", err)
		return
	}
	defer cache.Close()

	if err := cache.Publish(ctx, services.ImportsChannel, summary); err != nil {
		log.Printf("failed to publish import event: %v", err)
		return
	}
	log.Printf("published import event on %s", services.ImportsChannel)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
