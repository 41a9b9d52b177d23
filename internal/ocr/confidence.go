package ocr

import (
	"regexp"
	"strings"
)

var (
	reRefCode  = regexp.MustCompile(`\b[a-z]{0,4}[-/]?\d{4,}\b`)
	reQuantity = regexp.MustCompile(`\b\d{1,5}\s*(pcs?|pce|ea|each|un|unités?|pièces?|m|mm|kg|l)\b`)
	reTableRow = regexp.MustCompile(`(?m)^\s*\d{1,3}\s+\d+\s+[A-Za-z]{1,4}\s+\d{4,}`)
)

func hasRefCodePattern(s string) bool  { return reRefCode.MatchString(s) }
func hasQuantityPattern(s string) bool { return reQuantity.MatchString(s) }
func hasTableRowPattern(s string) bool { return reTableRow.MatchString(s) }

// HeuristicConfidence scores decoded text 0..1 on how much it looks like a
// procurement document: reference-ish codes, quantity phrases, tabular item
// rows, and enough content at all.
func HeuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if hasRefCodePattern(txtL) {
		score += 0.2
	}
	if hasQuantityPattern(txtL) {
		score += 0.15
	}
	if hasTableRowPattern(txt) {
		score += 0.2
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
