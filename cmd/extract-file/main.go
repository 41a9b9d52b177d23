package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sourcingdesk/docextract/internal/common"
	"github.com/sourcingdesk/docextract/internal/extract"
	"github.com/sourcingdesk/docextract/internal/ocr"
)

// Debug tool: run one document through the full pipeline and dump the result.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "extract-file <path>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read input", "path", path, "error", err)
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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	res, err := svc.ExtractDocument(ctx, extract.RawDocument{
		Filename: filepath.Base(path),
		Data:     data,
	})
	if err != nil {
		logger.Error("extraction failed", "path", path, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	logger.Info("extraction OK",
		"method", res.ExtractionMethod,
		"document_type", res.DocumentType,
		"items", len(res.Items),
		"bytes", len(res.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Error("writing result", "error", err)
		os.Exit(1)
	}
}
