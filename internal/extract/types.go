package extract

import (
	"strings"

	"github.com/google/uuid"
)

// RawDocument is one inbound attachment: bytes plus the little we know about
// them. Immutable; not retained past the extraction call.
type RawDocument struct {
	Filename    string
	ContentType string // declared by the sender; unreliable, kept for logging
	Data        []byte
}

// ExtractedText is the raw-text stage output for one document.
type ExtractedText struct {
	Text          string
	Method        string       // constants.Method*
	Grid          [][][]string // sheet -> row -> cell, spreadsheets only
	LowConfidence bool
}

// Item is one normalized procurement line.
//
// Invariants held on every emitted item: Quantity > 0 and Description has at
// least three characters. Candidates that can't satisfy both are dropped, not
// emitted half-empty.
type Item struct {
	Description       string  `json:"description"`
	Quantity          float64 `json:"quantity"`
	Unit              string  `json:"unit"`
	Reference         string  `json:"reference,omitempty"`
	SupplierCode      string  `json:"supplier_code,omitempty"`
	InternalCode      string  `json:"internal_code,omitempty"`
	Brand             string  `json:"brand,omitempty"`
	SerialNumber      string  `json:"serial_number,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	NeedsManualReview bool    `json:"needs_manual_review,omitempty"`
	IsEstimated       bool    `json:"is_estimated,omitempty"`
}

func (it Item) valid() bool {
	return it.Quantity > 0 && len(strings.TrimSpace(it.Description)) >= 3
}

// DedupeKey identifies an item across documents in the same batch.
func (it Item) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(it.Description)) + "-" + trimFloat(it.Quantity)
}

// Result is the per-document output contract.
type Result struct {
	ID                uuid.UUID `json:"id"`
	Filename          string    `json:"filename"`
	DocumentType      string    `json:"document_type"`
	Text              string    `json:"text,omitempty"`
	Items             []Item    `json:"items"`
	RFQNumber         string    `json:"rfq_number,omitempty"`
	NeedsVerification bool      `json:"needs_verification,omitempty"`
	ExtractionMethod  string    `json:"extraction_method"`

	Deadline     string `json:"deadline,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactRole  string `json:"contact_role,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	IsUrgent     bool   `json:"is_urgent,omitempty"`
}

// Document type tags.
const (
	DocTypePDF         = "pdf"
	DocTypeRequisition = "purchase-requisition"
	DocTypeSpreadsheet = "spreadsheet"
	DocTypeWord        = "word"
	DocTypeEmail       = "email"
	DocTypeImage       = "image"
)
