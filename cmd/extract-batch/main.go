package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sourcingdesk/docextract/internal/common"
	"github.com/sourcingdesk/docextract/internal/extract"
	"github.com/sourcingdesk/docextract/internal/ingest"
	"github.com/sourcingdesk/docextract/internal/ocr"
)

// batchReport is what lands on stdout: per-document results plus the
// cross-document deduplicated item list ready for price-request generation.
type batchReport struct {
	BatchID uuid.UUID         `json:"batch_id"`
	Results []*extract.Result `json:"results"`
	Items   []extract.Item    `json:"items"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage", "cmd", "extract-batch <file-or-dir> [...]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	collector := ingest.NewCollector(logger)
	docs, stats, err := collector.Collect(os.Args[1:])
	if err != nil {
		logger.Error("collecting input files", "error", err)
		os.Exit(1)
	}
	logger.Info("input collected",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"loaded", stats.Loaded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	if len(docs) == 0 {
		logger.Error("no supported documents among the given paths")
		os.Exit(1)
	}

	ocrx := ocr.NewExtractor(ocr.Config{
		Pdftotext: cfg.Tools.Pdftotext,
		Pdftoppm:  cfg.Tools.Pdftoppm,
		Tesseract: cfg.Tools.Tesseract,
		Rotator:   cfg.Tools.Rotator,
		Languages: cfg.OCR.Languages,
		DPI:       cfg.OCR.DPI,
		Timeout:   cfg.Tools.Timeout,
		MaxOutput: cfg.Tools.MaxOutput,
		TempDir:   cfg.OCR.TempDir,
	}, logger)
	svc := extract.NewService(ocrx, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	results := svc.ExtractBatch(ctx, docs)
	report := batchReport{
		BatchID: uuid.New(),
		Results: results,
		Items:   extract.DedupeItems(results),
	}

	logger.Info("batch done",
		"batch_id", report.BatchID,
		"documents", len(docs),
		"results", len(results),
		"items", len(report.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Error("writing report", "error", err)
		os.Exit(1)
	}
}
