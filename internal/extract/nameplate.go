package extract

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Equipment photos get OCR'd and mined for nameplate fields: model, serial,
// part number, plus a brand token. When nothing is recognizable the document
// still yields exactly one placeholder item so the request isn't silently
// short an attachment.

var (
	reModel  = regexp.MustCompile(`(?i)(?:model|mod\.?|type)\s*[:#]?\s*([A-Z0-9][A-Z0-9./-]{2,})`)
	reSerial = regexp.MustCompile(`(?i)(?:serial\s*(?:no\.?|number)?|s/n|ser\.?\s*no\.?|n[o°]\s*s[ée]rie)\s*[:#]?\s*([A-Z0-9-]{4,})`)
	rePartNo = regexp.MustCompile(`(?i)(?:part\s*(?:no\.?|number)|p/n|r[ée]f\.?)\s*[:#]?\s*([A-Z0-9][A-Z0-9./-]{2,})`)
)

// ExtractNameplate builds one item from OCR'd photo text.
func ExtractNameplate(text string) []Item {
	brand := ResolveBrand(text)
	model := firstGroup(reModel, text)
	serial := firstGroup(reSerial, text)
	part := firstGroup(rePartNo, text)

	if brand == "" && model == "" && serial == "" && part == "" {
		return []Item{placeholderItem()}
	}

	var parts []string
	if brand != "" {
		parts = append(parts, brand)
	}
	if model != "" {
		parts = append(parts, model)
	} else {
		parts = append(parts, "equipment")
	}
	it := Item{
		Description:       strings.Join(parts, " "),
		Quantity:          1,
		Unit:              "pcs",
		Brand:             brand,
		SerialNumber:      serial,
		SupplierCode:      part,
		NeedsManualReview: true,
	}
	if !it.valid() {
		return []Item{placeholderItem()}
	}
	return []Item{it}
}

func placeholderItem() Item {
	return Item{
		Description:       "Equipment to identify (see attached photo)",
		Quantity:          1,
		Unit:              "pcs",
		NeedsManualReview: true,
		IsEstimated:       true,
	}
}

func firstGroup(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(strings.TrimSpace(m[1]))
	}
	return ""
}

// --- filename heuristic: the very last PDF fallback ---

var reFilenameCode = regexp.MustCompile(`(?i)\b([A-Z]{2,6}[-_]?\d{3,8})\b`)

// ExtractFromFilename mines reference codes and a brand token out of a
// filename when every extraction stage came up empty. The result is pure
// guesswork and is flagged accordingly.
func ExtractFromFilename(filename string) []Item {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	cleaned := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if len(cleaned) < 3 {
		return nil
	}

	it := Item{
		Description:       cleaned,
		Quantity:          1,
		Unit:              "pcs",
		Brand:             ResolveBrand(base),
		NeedsManualReview: true,
		IsEstimated:       true,
	}
	if m := reFilenameCode.FindStringSubmatch(base); m != nil {
		code := strings.ToUpper(m[1])
		it.Reference = code
		it.SupplierCode = code
	}
	return []Item{it}
}
