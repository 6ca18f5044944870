package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dvloznov/finanzas-demo/internal/categorizer"
	"github.com/dvloznov/finanzas-demo/internal/commands"
	"github.com/dvloznov/finanzas-demo/internal/config"
	"github.com/dvloznov/finanzas-demo/internal/gcsuploader"
	"github.com/dvloznov/finanzas-demo/internal/logger"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	log := logger.NewWithLevel(cfg.Logger.Level)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		runGenerate(cfg, log)
	case "categorize":
		runCategorize(cfg, log)
	case "summary":
		runSummary(cfg, log)
	case "export":
		runExport(cfg, log)
	case "upload":
		runUpload(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finanzas demo CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate    Generate 18 months of synthetic transactions into a CSV")
	fmt.Println("  categorize  Categorize a CSV with a language model into SQLite")
	fmt.Println("  summary     Print the category distribution of a database")
	fmt.Println("  export      Export a database to an XLSX workbook")
	fmt.Println("  upload      Upload a file to GCS")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runGenerate(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	opts := commands.BindGenerateFlags(fs, cfg)
	fs.Parse(os.Args[2:])

	ctx := logger.WithContext(context.Background(), log)
	if err := commands.Generate(ctx, *opts, gcsuploader.NewGCSStorageService(), os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}
}

func runCategorize(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("categorize", flag.ExitOnError)
	opts := commands.BindCategorizeFlags(fs, cfg)
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	err := commands.Categorize(ctx, cfg, *opts, os.Stdin, os.Stdout, log)
	if errors.Is(err, categorizer.ErrAborted) {
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Categorization failed")
	}
}

func runSummary(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	dbPath := fs.String("db", cfg.Paths.DBPath, "SQLite database file")
	bqProject := fs.String("bq-project", "", "Read a mirrored run from BigQuery instead")
	bqDataset := fs.String("bq-dataset", cfg.BigQuery.DatasetID, "BigQuery dataset of the mirror")
	runID := fs.String("run-id", "", "Run ID to summarize (with -bq-project)")
	fs.Parse(os.Args[2:])

	ctx := logger.WithContext(context.Background(), log)

	if *bqProject != "" {
		if *runID == "" {
			log.Fatal().Msg("Usage: cli summary -bq-project PROJECT -run-id ID")
		}
		if err := commands.MirrorSummary(ctx, *bqProject, *bqDataset, *runID, os.Stdout, log); err != nil {
			log.Fatal().Err(err).Msg("Summary failed")
		}
		return
	}

	if err := commands.Summary(ctx, *dbPath, os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("Summary failed")
	}
}

func runExport(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := fs.String("db", cfg.Paths.DBPath, "SQLite database file")
	outPath := fs.String("out", "", "XLSX file to write (defaults next to the database)")
	fs.Parse(os.Args[2:])

	ctx := logger.WithContext(context.Background(), log)
	if err := commands.Export(ctx, *dbPath, *outPath, os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}
}

func runUpload(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", cfg.GCS.Bucket, "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to transacciones/<date>/<filename>)")
	filePath := fs.String("file", cfg.Paths.CSVPath, "Path to local file")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	ctx := logger.WithContext(context.Background(), log)
	if err := commands.Upload(ctx, gcsuploader.NewGCSStorageService(), *bucketName, *objectName, *filePath, os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}
}
