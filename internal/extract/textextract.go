package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcingdesk/docextract/constants"
	"github.com/sourcingdesk/docextract/internal/ocr"
)

const (
	// below this, a PDF text stage is considered to have failed and the next,
	// costlier stage is tried
	minLayoutTextLen = 50
	// below this even OCR gave nothing; only the filename is left to mine
	minOCRTextLen = 20
	// OCR heuristic confidence under this flags the text as low confidence
	lowConfidenceFloor = 0.5
)

// extractText runs the per-format extraction cascade. Stages are ordered by
// cost: the layout tool and library parse are cheap and deterministic, OCR is
// neither, so OCR only runs when everything cheaper came up short.
func (s *Service) extractText(ctx context.Context, doc RawDocument, format constants.DocumentFormat) (*ExtractedText, error) {
	switch format {
	case constants.PDF:
		return s.extractPDFText(ctx, doc)
	case constants.SPREADSHEET:
		grid, err := parseSpreadsheet(doc.Filename, doc.Data)
		if err != nil {
			return nil, err
		}
		return &ExtractedText{
			Text:   FlattenGrid(grid),
			Method: constants.MethodSpreadsheet,
			Grid:   grid,
		}, nil
	case constants.WORD:
		return extractWordText(doc)
	case constants.IMAGE:
		return s.extractImageText(ctx, doc)
	case constants.TEXT:
		return &ExtractedText{
			Text:   strings.ReplaceAll(string(doc.Data), "\r\n", "\n"),
			Method: constants.MethodText,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func (s *Service) extractPDFText(ctx context.Context, doc RawDocument) (*ExtractedText, error) {
	text := ""
	method := constants.MethodLayoutTool
	low := false

	path, cleanup, err := writeTempFile(doc)
	if err != nil {
		s.logger.Warn("temp write failed, tool stages skipped", "filename", doc.Filename, "error", err)
		path = ""
	} else {
		defer cleanup()
	}

	if path != "" {
		if out, terr := s.ocr.PDFToText(ctx, path); terr == nil {
			text = out
		} else {
			s.logger.Warn("layout tool failed, cascading", "filename", doc.Filename, "error", terr)
		}
	}

	if len(strings.TrimSpace(text)) < minLayoutTextLen {
		if lib, lerr := parsePDFBytes(doc.Data); lerr == nil {
			// keep whichever output is longer
			if len(lib) > len(strings.TrimSpace(text)) {
				text = lib
				method = constants.MethodLibraryParser
			}
		} else {
			s.logger.Warn("library parse failed, cascading", "filename", doc.Filename, "error", lerr)
		}
	}

	if len(strings.TrimSpace(text)) < minLayoutTextLen && path != "" {
		ocrText, score, oerr := s.ocr.RecoverText(ctx, path)
		if oerr != nil {
			s.logger.Warn("ocr fallback failed, cascading", "filename", doc.Filename, "error", oerr)
		} else if len(ocrText) > len(strings.TrimSpace(text)) {
			text = ocrText
			method = constants.MethodOCR
			low = true
			s.logger.Info("ocr recovered scanned pdf", "filename", doc.Filename, "score", score)
		}
	}

	if len(strings.TrimSpace(text)) < minOCRTextLen {
		// nothing left to read; the filename itself becomes the source
		return &ExtractedText{
			Text:          "",
			Method:        constants.MethodFilenameHeuristic,
			LowConfidence: true,
		}, nil
	}

	return &ExtractedText{Text: text, Method: method, LowConfidence: low}, nil
}

func (s *Service) extractImageText(ctx context.Context, doc RawDocument) (*ExtractedText, error) {
	path, cleanup, err := writeTempFile(doc)
	if err != nil {
		return nil, fmt.Errorf("temp write: %w", err)
	}
	defer cleanup()

	// images are assumed upright; no rotation search here
	text, err := s.ocr.ImageOCR(ctx, path)
	if err != nil {
		s.logger.Warn("image ocr failed", "filename", doc.Filename, "error", err)
		text = ""
	}
	conf := ocr.HeuristicConfidence(text)
	return &ExtractedText{
		Text:          text,
		Method:        constants.MethodOCR,
		LowConfidence: conf < lowConfidenceFloor,
	}, nil
}

func extractWordText(doc RawDocument) (*ExtractedText, error) {
	ext := constants.NormalizeExt(filepath.Ext(doc.Filename))
	if ext == "docx" {
		text, err := parseDOCX(doc.Data)
		if err != nil {
			return nil, err
		}
		return &ExtractedText{Text: text, Method: constants.MethodWord}, nil
	}
	// legacy .doc: best-effort printable salvage
	return &ExtractedText{
		Text:          salvagePrintableRuns(doc.Data),
		Method:        constants.MethodWord,
		LowConfidence: true,
	}, nil
}

// writeTempFile materializes document bytes for the subprocess tool chain,
// which only takes paths. The cleanup func removes the file on every path.
func writeTempFile(doc RawDocument) (string, func(), error) {
	ext := filepath.Ext(doc.Filename)
	f, err := os.CreateTemp("", "docx-src-*"+ext)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := f.Write(doc.Data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
