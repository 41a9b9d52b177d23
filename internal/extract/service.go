package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sourcingdesk/docextract/constants"
	"github.com/sourcingdesk/docextract/internal/common"
	"github.com/sourcingdesk/docextract/internal/ocr"
)

// Service runs the whole per-document pipeline: text extraction, structured
// item inference, metadata enrichment, output validation. One Service is safe
// for concurrent use across documents; nothing mutable is shared between
// calls.
type Service struct {
	ocr    *ocr.Extractor
	schema map[string]any
	logger *slog.Logger
}

func NewService(ocrx *ocr.Extractor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ocr: ocrx, schema: BuildResultJSONSchema(), logger: logger}
}

// ExtractBatch processes independent documents sequentially; a failed
// document is logged and skipped, never fatal for its siblings. Results come
// back in input order, one per document that yielded anything.
func (s *Service) ExtractBatch(ctx context.Context, docs []RawDocument) []*Result {
	var out []*Result
	for _, doc := range docs {
		res, err := s.ExtractDocument(ctx, doc)
		if err != nil {
			s.logger.Error("document extraction failed, batch continues",
				"filename", doc.Filename, "error", err)
			continue
		}
		if res != nil {
			out = append(out, res)
		}
	}
	return out
}

// ExtractDocument runs one document through the pipeline. A nil result with
// an error means the document was unreadable; the caller substitutes a
// placeholder downstream.
func (s *Service) ExtractDocument(ctx context.Context, doc RawDocument) (res *Result, err error) {
	// parser panics on hostile input degrade to a per-document error
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic during extraction", "filename", doc.Filename, "panic", r)
			res = nil
			err = common.NewAppError("DOCUMENT_CORRUPT", fmt.Sprintf("panic: %v", r), common.ErrDocumentCorrupt)
		}
	}()

	format := constants.MapExtToFormat(filepath.Ext(doc.Filename))
	if format == "" {
		return nil, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("no handler for %q", doc.Filename), common.ErrInvalidInput)
	}

	text, err := s.extractText(ctx, doc, format)
	if err != nil {
		return nil, common.NewAppError("DOCUMENT_CORRUPT", doc.Filename, err)
	}

	res = s.assemble(doc, format, text)
	s.logger.Info("document extracted",
		"filename", doc.Filename,
		"document_type", res.DocumentType,
		"method", res.ExtractionMethod,
		"items", len(res.Items),
		"needs_verification", res.NeedsVerification,
	)
	return res, nil
}

// assemble merges one document's items and metadata into the output contract.
func (s *Service) assemble(doc RawDocument, format constants.DocumentFormat, text *ExtractedText) *Result {
	items, docType := s.inferItems(doc, format, text)

	res := &Result{
		ID:               uuid.New(),
		Filename:         doc.Filename,
		DocumentType:     docType,
		Text:             text.Text,
		Items:            items,
		ExtractionMethod: text.Method,

		RFQNumber:    ExtractRFQNumber(text.Text),
		Deadline:     ExtractDeadline(text.Text),
		ContactName:  ExtractContactName(text.Text),
		ContactRole:  ExtractContactRole(text.Text),
		ContactPhone: ExtractContactPhone(text.Text),
		IsUrgent:     ExtractUrgency(text.Text),
	}
	if res.Items == nil {
		res.Items = []Item{}
	}

	// empty yield is not an error, but someone should look at the original
	res.NeedsVerification = text.LowConfidence ||
		len(res.Items) == 0 ||
		text.Method == constants.MethodFilenameHeuristic

	if err := s.validateResult(res); err != nil {
		s.logger.Warn("result failed output-contract validation",
			"filename", doc.Filename, "error", err)
		res.NeedsVerification = true
	}
	return res
}

// inferItems picks the structured extractor matching what the text stage saw.
func (s *Service) inferItems(doc RawDocument, format constants.DocumentFormat, text *ExtractedText) ([]Item, string) {
	if text.Method == constants.MethodFilenameHeuristic {
		return ExtractFromFilename(doc.Filename), DocTypePDF
	}

	switch format {
	case constants.IMAGE:
		return ExtractNameplate(text.Text), DocTypeImage

	case constants.SPREADSHEET:
		var items []Item
		for _, rows := range text.Grid {
			sheetItems, found := ResolveSheetItems(rows)
			if !found {
				// no recognizable header on this sheet: treat it as free text
				sheetItems = ExtractLines(FlattenGrid([][][]string{rows}))
			}
			items = append(items, sheetItems...)
		}
		return items, DocTypeSpreadsheet

	default: // PDF, WORD, TEXT
		if IsPurchaseRequisition(text.Text) {
			if items, method := ExtractRequisitionItems(text.Text); len(items) > 0 {
				s.logger.Debug("requisition method succeeded",
					"filename", doc.Filename, "method", method)
				return items, DocTypeRequisition
			}
		}
		switch format {
		case constants.TEXT:
			return ExtractEmailBody(text.Text), DocTypeEmail
		case constants.WORD:
			return ExtractLines(text.Text), DocTypeWord
		default:
			return ExtractLines(text.Text), DocTypePDF
		}
	}
}

func (s *Service) validateResult(res *Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return ValidateJSONAgainstSchema(s.schema, b)
}

// DedupeItems flattens a batch's results into one item list, removing exact
// duplicates across documents on (lowercase description, quantity). First
// occurrence wins; relative order is preserved.
func DedupeItems(results []*Result) []Item {
	seen := make(map[string]struct{})
	var out []Item
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, it := range res.Items {
			key := it.DedupeKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}
