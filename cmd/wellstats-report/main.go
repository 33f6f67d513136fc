package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"wellstats/internal/config"
	"wellstats/internal/depthstats"
	"wellstats/internal/exporter"
	"wellstats/internal/loader"
	"wellstats/internal/services"
	"wellstats/internal/validation"
	"wellstats/internal/wells"
)

func main() {
	configFile := flag.String("config", "", "path to configuration file (optional)")
	dataDir := flag.String("data", "", "directory with well log tables (defaults to configured data dir)")
	outputDir := flag.String("out", "", "output directory for reports (defaults to configured reports dir)")
	wellName := flag.String("well", "", "well to report on (defaults to all wells)")
	seriesList := flag.String("series", "", "comma-separated series to summarize (required)")
	classifierList := flag.String("classifiers", "", "comma-separated classifier series, outermost first")
	calculation := flag.String("calculation", "", "calculation mode: weighted, arithmetic or both")
	format := flag.String("format", "csv", "output format: csv, xlsx or json")
	includeEmpty := flag.Bool("include-empty", false, "keep groups with no valid samples")
	flag.Parse()

	if *seriesList == "" {
		slog.Error("No series specified", "hint", "pass -series PHIE or -series PHIE,SW")
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *outputDir != "" {
		cfg.Paths.ReportsDir = *outputDir
	}

	logger := slog.Default()
	ctx := context.Background()

	fileValidator := validation.NewFileValidator(logger)
	if _, err := fileValidator.ValidateDataDirectory(cfg.Paths.DataDir); err != nil {
		slog.Error("Invalid data directory", "error", err)
		os.Exit(1)
	}
	if err := fileValidator.ValidateOutputDirectory(cfg.Paths.ReportsDir); err != nil {
		slog.Error("Invalid output directory", "error", err)
		os.Exit(1)
	}

	slog.Info("Loading well data", "dir", cfg.Paths.DataDir)
	registry := wells.NewRegistry()
	if err := loader.NewLoader(logger).LoadDirectory(ctx, cfg.Paths.DataDir, registry); err != nil {
		slog.Error("Failed to load well data", "error", err)
		os.Exit(1)
	}

	wellNames := registry.List()
	if *wellName != "" {
		if !registry.Has(*wellName) {
			slog.Error("Well not found", "well", *wellName, "available", strings.Join(wellNames, ", "))
			os.Exit(1)
		}
		wellNames = []string{*wellName}
	}
	if len(wellNames) == 0 {
		slog.Error("No wells loaded", "dir", cfg.Paths.DataDir)
		os.Exit(1)
	}
	slog.Info("Wells loaded", "count", len(wellNames))

	engine := depthstats.NewEngine(logger)
	statsService, err := services.NewStatisticsService(registry, engine, cfg, nil, logger)
	if err != nil {
		slog.Error("Failed to initialize statistics service", "error", err)
		os.Exit(1)
	}

	var classifiers []string
	if *classifierList != "" {
		classifiers = strings.Split(*classifierList, ",")
	}

	var results []*depthstats.GroupedStatistics
	var resultNames []string
	for _, well := range wellNames {
		for _, series := range strings.Split(*seriesList, ",") {
			series = strings.TrimSpace(series)
			req := services.StatisticsRequest{
				Well:               well,
				Series:             series,
				Classifiers:        classifiers,
				Calculation:        *calculation,
				IncludeEmptyGroups: includeEmpty,
			}

			result, err := statsService.Compute(ctx, req)
			if err != nil {
				slog.Error("Computation failed", "well", well, "series", series, "error", err)
				os.Exit(1)
			}
			results = append(results, result)
			resultNames = append(resultNames, reportName(well, series))
		}
	}

	report := exporter.NewReportExporter(exporter.NewCSVWriter(cfg), logger)

	switch *format {
	case "csv":
		for i, result := range results {
			name := resultNames[i] + ".csv"
			if err := report.ExportCSV(result, name); err != nil {
				slog.Error("Failed to write CSV report", "file", name, "error", err)
				os.Exit(1)
			}
			fmt.Printf("wrote %s\n", cfg.ReportPath(name))
		}
	case "xlsx":
		if err := report.ExportWorkbook(results, "wellstats_report.xlsx"); err != nil {
			slog.Error("Failed to write workbook report", "error", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", cfg.ReportPath("wellstats_report.xlsx"))
	case "json":
		if err := report.ExportJSON(results, "wellstats_report.json"); err != nil {
			slog.Error("Failed to write JSON report", "error", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", cfg.ReportPath("wellstats_report.json"))
	default:
		slog.Error("Unknown output format", "format", *format)
		os.Exit(1)
	}

	slog.Info("Report complete", "results", len(results))
}

// reportName builds a filesystem-safe base name for one result.
func reportName(well, series string) string {
	s := well + "_" + series + "_stats"
	for _, ch := range `/\:*?"<>| ` {
		s = strings.ReplaceAll(s, string(ch), "_")
	}
	return s
}
