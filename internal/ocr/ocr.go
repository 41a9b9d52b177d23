package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Rotator   string // "magick" or "convert"; if empty -> "magick"

	Languages string // tesseract -l value, default "fra+eng"
	DPI       int    // rasterization DPI for scanned PDFs, default 300

	Timeout   time.Duration // per subprocess call
	MaxOutput int64         // captured output cap per call

	TempDir string // base dir for raster artifacts; "" = os.TempDir
}

// Extractor wraps the external tool chain: layout text extraction,
// rasterization, rotation and OCR. Every method degrades to an error the
// caller treats as "skip this stage"; none of them is required to exist
// on the host.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Rotator == "" {
		cfg.Rotator = "magick"
	}
	if cfg.Languages == "" {
		cfg.Languages = "fra+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: newExecRunner(cfg.Timeout, cfg.MaxOutput), logger: logger}
}

// WithRunner swaps the subprocess runner; tests use this to stub tools.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// PDFToText runs the layout-preserving text extraction over a PDF.
// pdftotext -layout -enc UTF-8 -eol unix <path> -
func (e *Extractor) PDFToText(ctx context.Context, path string) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// Rasterize renders the first page of a PDF to a single PNG at the
// configured DPI. pdftoppm -f 1 -l 1 -r <dpi> -png -singlefile <in> <prefix>
func (e *Extractor) Rasterize(ctx context.Context, pdfPath, outPrefix string) error {
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", "1", "-l", "1",
		"-r", fmt.Sprintf("%d", e.cfg.DPI),
		"-png", "-singlefile",
		pdfPath, outPrefix)
	if err != nil {
		return fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}
	return nil
}

// Rotate writes a rotated copy of an image. magick <in> -rotate <deg> <out>
func (e *Extractor) Rotate(ctx context.Context, in, out string, degrees int) error {
	_, errb, err := e.runner.Run(ctx, e.cfg.Rotator, in, "-rotate", fmt.Sprintf("%d", degrees), out)
	if err != nil {
		return fmt.Errorf("rotate %d: %w (%s)", degrees, err, truncate(string(errb), 512))
	}
	return nil
}

// ImageOCR runs tesseract over an image and returns normalized text.
// tesseract <file> stdout -l <langs>
func (e *Extractor) ImageOCR(ctx context.Context, path string) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.Languages)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return Normalize(txt), nil
}
