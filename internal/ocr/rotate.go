package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode"
)

// Rotation search order. 0 first (free: the raster is already upright if the
// scan was), then the two sideways orientations which dominate misfed scans,
// 180 last.
var rotationOrder = []int{0, 90, 270, 180}

// goodEnoughTokens stops the rotation search early. Later rotations are
// skipped once a result clears this bar, even if one of them might score
// higher; latency wins over marginal yield here.
const goodEnoughTokens = 50

// RecoverText rasterizes the first page of a scanned PDF and searches
// rotations for the best OCR yield. It returns the best text found and its
// token score; empty text and zero when nothing was usable. Per-rotation tool
// failures are skipped, not fatal. All raster artifacts are removed before
// returning.
func (e *Extractor) RecoverText(ctx context.Context, pdfPath string) (string, int, error) {
	tmpDir, err := os.MkdirTemp(e.cfg.TempDir, "docx-ocr-*")
	if err != nil {
		return "", 0, fmt.Errorf("mkdtemp: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove ocr temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	base := filepath.Join(tmpDir, "page")
	if err := e.Rasterize(ctx, pdfPath, base); err != nil {
		return "", 0, err
	}
	upright := base + ".png"

	bestText := ""
	bestScore := 0
	for _, deg := range rotationOrder {
		img := upright
		if deg != 0 {
			img = filepath.Join(tmpDir, fmt.Sprintf("page-%d.png", deg))
			if err := e.Rotate(ctx, upright, img, deg); err != nil {
				e.logger.Warn("rotation failed, skipping", "degrees", deg, "error", err)
				continue
			}
		}

		txt, err := e.ImageOCR(ctx, img)
		if err != nil {
			e.logger.Warn("ocr failed for rotation, skipping", "degrees", deg, "error", err)
			continue
		}

		score := CountWordTokens(txt)
		e.logger.Debug("ocr rotation attempt", "degrees", deg, "score", score)
		if score > bestScore {
			bestScore = score
			bestText = txt
		}
		if bestScore > goodEnoughTokens {
			break
		}
	}

	return bestText, bestScore, nil
}

// CountWordTokens scores OCR output by counting alphabetic tokens of length
// three or more. Garbage orientations produce plenty of characters but few
// real words, so this separates them well.
func CountWordTokens(s string) int {
	count := 0
	tokenLen := 0
	alpha := true
	flush := func() {
		if alpha && tokenLen >= 3 {
			count++
		}
		tokenLen = 0
		alpha = true
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			flush()
			continue
		}
		if !unicode.IsLetter(r) {
			alpha = false
		}
		tokenLen++
	}
	flush()
	return count
}
