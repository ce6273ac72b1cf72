package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"churchportal/internal/apiclient"
	"churchportal/internal/auth"
	"churchportal/internal/config"
	"churchportal/internal/database"
	"churchportal/internal/logger"
	"churchportal/internal/service"
	"churchportal/internal/snapshot"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	archiveCmd := flag.NewFlagSet("archive", flag.ExitOnError)
	runsCmd := flag.NewFlagSet("runs", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: snapshot_YYYYMMDD_HHMMSS.json)")
	exportConfig := exportCmd.String("config", "", "Config file path")

	// Archive flags
	archiveInput := archiveCmd.String("input", "", "Snapshot file to archive (default: take a live snapshot)")
	archiveConfig := archiveCmd.String("config", "", "Config file path")

	runsConfig := runsCmd.String("config", "", "Config file path")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		cfg := config.Load(*exportConfig)
		handleExport(ctx, cfg, logger.Init(cfg.Log), *exportOutput)

	case "archive":
		archiveCmd.Parse(os.Args[2:])
		cfg := config.Load(*archiveConfig)
		handleArchive(ctx, cfg, logger.Init(cfg.Log), *archiveInput)

	case "runs":
		runsCmd.Parse(os.Args[2:])
		cfg := config.Load(*runsConfig)
		handleRuns(cfg, logger.Init(cfg.Log))

	default:
		printUsage()
		os.Exit(1)
	}
}

func newExporter(cfg *config.Config, logger *slog.Logger) *snapshot.Exporter {
	api := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTokenSource(auth.StaticToken(cfg.API.Token)),
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(logger),
	)
	return snapshot.NewExporter(service.New(api), cfg.API.BaseURL, logger)
}

func openArchive(cfg *config.Config) *database.DB {
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open archive database: %v", err)
	}

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(); err != nil {
		db.Close()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func handleExport(ctx context.Context, cfg *config.Config, logger *slog.Logger, outputPath string) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("snapshot_%s.json", timestamp)
	}

	log.Printf("Exporting %s to: %s", cfg.API.BaseURL, outputPath)
	snap, err := newExporter(cfg, logger).Export(ctx, outputPath)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fileInfo, err := os.Stat(outputPath)
	if err != nil {
		log.Fatalf("Export written but unreadable: %v", err)
	}
	log.Printf("Export complete! %d records, file size: %.2f MB", snap.Count(), float64(fileInfo.Size())/1024/1024)
}

func handleArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger, inputPath string) {
	var (
		snap *snapshot.Snapshot
		err  error
	)
	if inputPath != "" {
		log.Printf("Reading snapshot from: %s", inputPath)
		snap, err = snapshot.ReadFile(inputPath)
	} else {
		log.Printf("Taking live snapshot of: %s", cfg.API.BaseURL)
		snap, err = newExporter(cfg, logger).Take(ctx)
	}
	if err != nil {
		log.Fatalf("Archive failed: %v", err)
	}

	db := openArchive(cfg)
	defer db.Close()

	run, err := snapshot.NewArchiver(db, logger).Store(snap)
	if err != nil {
		log.Fatalf("Archive failed: %v", err)
	}
	log.Printf("Archive complete! run %s stored %d records", run.ID, run.RecordCount)
}

func handleRuns(cfg *config.Config, logger *slog.Logger) {
	db := openArchive(cfg)
	defer db.Close()

	runs, err := snapshot.NewArchiver(db, logger).Runs()
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No snapshots archived yet")
		return
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %6d records  %s\n", r.TakenAt.Format(time.RFC3339), r.ID, r.RecordCount, r.Source)
	}
}

func printUsage() {
	fmt.Println("Church Portal Snapshot Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  snapshot export [options]     Write every backend resource to a JSON file")
	fmt.Println("  snapshot archive [options]    Store a snapshot in the archive database")
	fmt.Println("  snapshot runs [options]       List archived snapshots")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: snapshot_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Archive Options:")
	fmt.Println("  -input <file>     Archive a snapshot file instead of a live snapshot")
	fmt.Println()
	fmt.Println("Common Options:")
	fmt.Println("  -config <file>    YAML config file (default: church.yaml)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  CHURCH_API_URL     Backend base URL (default: http://localhost:5000/api)")
	fmt.Println("  CHURCH_API_TOKEN   Bearer token used for every request")
	fmt.Println("  DATABASE_TYPE      Archive database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH            SQLite archive path (default: ./church_archive.db)")
	fmt.Println("  DATABASE_URL       PostgreSQL or MySQL connection URL")
}
