// Command catalog lists the parameter names present in a patient
// dataset with their observation counts. Wards run it before editing
// the category specification so the YAML matches what the monitors
// actually export.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"icucli/internal/config"
	"icucli/internal/dataprocessing"
	"icucli/internal/files"
	"icucli/pkg/contracts/domain"
)

func main() {
	inDir := flag.String("in", "", "patient dataset directory")
	configFile := flag.String("config", "config.yml", "path to the configuration file")
	flag.Parse()

	if *inDir == "" {
		fmt.Fprintln(os.Stderr, "usage: catalog -in <patient dataset directory>")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	discovery := files.NewDiscovery("")
	labFile, hasLab, err := discovery.FindLabFile(*inDir, cfg.Lab.FilePattern)
	if err != nil {
		slog.Error("Failed to locate lab file", "error", err)
		os.Exit(1)
	}
	exports, err := discovery.FindExportFiles(*inDir)
	if err != nil {
		slog.Error("Failed to list export files", "error", err)
		os.Exit(1)
	}

	schema := cfg.Schema()
	var observations []domain.Observation
	for _, export := range exports {
		if hasLab && export.Path == labFile.Path {
			continue
		}
		batch, err := dataprocessing.ParseExportFile(export.Path, schema)
		if err != nil {
			slog.Error("Failed to parse export",
				slog.String("file", export.Name),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		obs, err := dataprocessing.Anonymize(batch, schema, cfg.Pipeline.TimeLayouts)
		if err != nil {
			slog.Error("Failed to read observations",
				slog.String("file", export.Name),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		observations = append(observations, obs...)
	}

	if len(observations) == 0 {
		fmt.Println("No observations found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tOBSERVATIONS")
	for _, entry := range dataprocessing.Catalog(observations) {
		fmt.Fprintf(w, "%s\t%d\n", entry.Parameter, entry.Count)
	}
	w.Flush()
}
