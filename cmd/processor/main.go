// Command processor turns a directory of patient monitor exports into
// de-identified, wide-format Excel workbooks, one per patient.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"icucli/internal/config"
	"icucli/internal/files"
	"icucli/internal/infrastructure"
	"icucli/internal/operations"
)

func main() {
	inDir := flag.String("in", "", "input root containing one directory per patient (default from config)")
	outDir := flag.String("out", "", "output directory for workbooks (default from config)")
	configFile := flag.String("config", "config.yml", "path to the configuration file")
	categoriesFile := flag.String("categories", "", "path to the category specification (built-in defaults when empty)")
	policy := flag.String("policy", "", "duplicate-scalar policy override: strict or lenient")
	workers := flag.Int("workers", 0, "concurrent patient runs override")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *policy != "" {
		cfg.Pipeline.DuplicatePolicy = *policy
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if *inDir == "" {
		*inDir = cfg.Paths.InputDir
	}
	if *outDir == "" {
		*outDir = cfg.Paths.OutputDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	tracing, err := infrastructure.InitializeTracing(cfg.Tracing.Enabled, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	categories, err := config.LoadCategories(*categoriesFile)
	if err != nil {
		logger.Error("Failed to load category specification", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("Failed to create output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	discovery := files.NewDiscovery("")
	patients, err := discovery.ListPatientDirs(*inDir)
	if err != nil {
		logger.Error("Failed to list patient directories", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(patients) == 0 {
		logger.Warn("No patient datasets found", slog.String("input_dir", *inDir))
		fmt.Println("No patient datasets found")
		return
	}

	logger.Info("Starting monitor export processing",
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir),
		slog.Int("patient_count", len(patients)),
		slog.String("duplicate_policy", cfg.Pipeline.DuplicatePolicy),
		slog.Int("workers", cfg.Pipeline.Workers))

	ctx := context.Background()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Pipeline.Workers)

	for _, patient := range patients {
		g.Go(func() error {
			runner := operations.NewRunner(logger, operations.DefaultSteps(discovery)...)
			state := operations.NewRunState(
				patient.Name,
				patient.Path,
				outputPathFor(*outDir, patient.Name),
				cfg,
				categories,
			)
			if err := runner.Execute(gctx, state); err != nil {
				return fmt.Errorf("patient %s: %w", patient.Name, err)
			}
			fmt.Printf("Wrote %s\n", state.OutputPath)
			return nil
		})
	}

	runErr := g.Wait()

	if err := tracing.Shutdown(ctx); err != nil {
		logger.Warn("Tracing shutdown failed", slog.String("error", err.Error()))
	}

	if runErr != nil {
		logger.Error("Processing failed", slog.String("error", runErr.Error()))
		os.Exit(1)
	}

	logger.Info("Processing complete", slog.Int("patient_count", len(patients)))
	fmt.Printf("Processing complete: %d patients\n", len(patients))
}

// outputPathFor names the workbook after the patient dataset directory.
func outputPathFor(outDir, patient string) string {
	return filepath.Join(outDir, patient+"_monitoring.xlsx")
}
