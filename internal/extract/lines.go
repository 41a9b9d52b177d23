package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Free-text extraction: email bodies, Word documents, and spreadsheets
// without a recognizable header. An ordered list of line templates is tried
// per line; the first template that matches wins for that line.

const (
	minLineLen = 10
	maxLineLen = 500
	// maxGenericItems caps the output regardless of input size; a 40-page
	// email thread must not turn into 600 junk items.
	maxGenericItems = 100
)

const unitAlt = `(?:pcs?|pces?|pieces?|pièces?|ea|each|un|unités?|units?|m|mm|kg|l|set|kits?|rouleaux?|rolls?)`

type lineTemplate struct {
	name string
	re   *regexp.Regexp
	// build turns a template match into an item candidate.
	build func(m []string) Item
}

var lineTemplates = []lineTemplate{
	{
		name: "ref-desc-qty-unit",
		// the reference group is deliberately case-sensitive: codes are
		// uppercase, prose words must not be mistaken for them
		re: regexp.MustCompile(`^([A-Z0-9][A-Z0-9-/]{2,})\s+(\S.{4,}?)\s+(\d+(?:[.,]\d+)?)\s*((?i)` + unitAlt + `)?\.?\s*$`),
		build: func(m []string) Item {
			return Item{
				Reference:    strings.ToUpper(m[1]),
				SupplierCode: strings.ToUpper(m[1]),
				Description:  strings.TrimSpace(m[2]),
				Quantity:     ParseQuantity(m[3]),
				Unit:         NormalizeUnit(m[4]),
			}
		},
	},
	{
		name: "qty-x-desc",
		re:   regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s*[x×]\s+(\S.{2,})$`),
		build: func(m []string) Item {
			return Item{
				Description: strings.TrimSpace(m[2]),
				Quantity:    ParseQuantity(m[1]),
				Unit:        "pcs",
			}
		},
	},
	{
		name: "desc-colon-qty",
		re:   regexp.MustCompile(`(?i)^(\S.{4,}?)\s*[:\-]\s*(\d+(?:[.,]\d+)?)\s*(` + unitAlt + `)?\.?\s*$`),
		build: func(m []string) Item {
			return Item{
				Description: strings.TrimSpace(m[1]),
				Quantity:    ParseQuantity(m[2]),
				Unit:        NormalizeUnit(m[3]),
			}
		},
	},
	{
		name: "numbered",
		re:   regexp.MustCompile(`^\d{1,2}[.)]\s+(\S.{4,})$`),
		build: func(m []string) Item {
			return Item{Description: strings.TrimSpace(m[1]), Quantity: 1, Unit: "pcs"}
		},
	},
	{
		name: "bulleted",
		re:   regexp.MustCompile(`^[-*•]\s+(\S.{4,})$`),
		build: func(m []string) Item {
			return Item{Description: strings.TrimSpace(m[1]), Quantity: 1, Unit: "pcs"}
		},
	},
}

// ExtractLines scans free text line by line against the template list.
// Items are deduplicated on lowercase description, first occurrence wins.
func ExtractLines(text string) []Item {
	var out []Item
	seen := make(map[string]struct{})

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if len(line) < minLineLen || len(line) > maxLineLen {
			continue
		}
		for _, tpl := range lineTemplates {
			m := tpl.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			it := tpl.build(m)
			if it.Quantity <= 0 {
				it.Quantity = 1
			}
			if !it.valid() {
				break
			}
			key := strings.ToLower(it.Description)
			if _, dup := seen[key]; dup {
				break
			}
			if it.Brand == "" {
				it.Brand = ResolveBrand(it.Description)
			}
			seen[key] = struct{}{}
			out = append(out, it)
			break
		}
		if len(out) >= maxGenericItems {
			break
		}
	}
	return out
}

// --- email-body variant ---

// French/English quantity phrasings seen in prose requests.
var quantityPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)cotation\s+(?:de|pour)\s+(\d+)\s+` + unitAlt),
	regexp.MustCompile(`(?i)commander\s+(\d+)\s+` + unitAlt),
	regexp.MustCompile(`(?i)besoin\s+de\s+(\d+)\s+` + unitAlt),
	regexp.MustCompile(`(?i)fournir\s+(\d+)\s+` + unitAlt),
	regexp.MustCompile(`(?i)quote\s+for\s+(\d+)\s+` + unitAlt),
	regexp.MustCompile(`(?i)supply\s+(?:of\s+)?(\d+)\s+` + unitAlt),
}

// product-name phrase: "... pour un débitmètre électromagnétique DN50 ..."
var productPhrase = regexp.MustCompile(`(?i)(?:pour|for|d'un|d'une|de)\s+(?:un|une|le|la|les|a|the)\s+([a-zà-ÿA-ZÀ-Ý][\w à-ÿÀ-Ý./-]{5,60})`)

// equipmentNouns anchors a best-guess description when no phrase matches.
var equipmentNouns = []string{
	"compteur", "manomètre", "manometre", "capteur", "débitmètre", "debitmetre",
	"transmetteur", "pressostat", "pompe", "vanne", "moteur", "roulement",
	"filtre", "joint", "réducteur", "reducteur", "vérin", "verin",
	"flow meter", "flowmeter", "pressure gauge", "transmitter", "sensor",
	"pump", "valve", "motor", "bearing", "filter", "gasket", "actuator",
	"cylinder", "coupling",
}

// ExtractEmailBody runs the generic templates first, then falls back to
// prose heuristics assembling at most one best-guess item. The prose path is
// guesswork by nature, so its item is always flagged for manual review.
func ExtractEmailBody(text string) []Item {
	if items := ExtractLines(text); len(items) > 0 {
		return items
	}

	qty := 0.0
	for _, re := range quantityPhrases {
		if m := re.FindStringSubmatch(text); m != nil {
			qty = ParseQuantity(m[1])
			break
		}
	}

	// the noun dictionary is more targeted than the phrase pattern, so it
	// goes first
	desc := equipmentNounPhrase(text)
	if desc == "" {
		if m := productPhrase.FindStringSubmatch(text); m != nil {
			desc = strings.Trim(strings.TrimSpace(m[1]), ".")
		}
	}
	if desc == "" {
		return nil
	}
	if qty <= 0 {
		qty = 1
	}

	it := Item{
		Description:       desc,
		Quantity:          qty,
		Unit:              "pcs",
		Brand:             ResolveBrand(text),
		NeedsManualReview: true,
		IsEstimated:       true,
	}
	if !it.valid() {
		return nil
	}
	return []Item{it}
}

// equipmentNounPhrase finds the first known equipment noun and takes the
// phrase from the noun to the end of its clause as the description.
func equipmentNounPhrase(text string) string {
	for _, noun := range equipmentNouns {
		idx := foldIndex(text, noun)
		if idx < 0 {
			continue
		}
		end := idx
		for end < len(text) && end-idx < 80 {
			r := text[end]
			if r == '.' || r == ',' || r == ';' || r == '\n' {
				break
			}
			end++
		}
		return strings.TrimSpace(text[idx:end])
	}
	return ""
}

// foldIndex is a case-insensitive strings.Index returning a byte offset
// valid in s. Offsets computed on a strings.ToLower copy can't be sliced
// back into the original: some case folds change byte length.
func foldIndex(s, sub string) int {
	want := []rune(strings.ToLower(sub))
	if len(want) == 0 {
		return -1
	}
	for i := range s {
		if matchesFold(s[i:], want) {
			return i
		}
	}
	return -1
}

func matchesFold(s string, want []rune) bool {
	for _, w := range want {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || unicode.ToLower(r) != w {
			return false
		}
		s = s[size:]
	}
	return true
}
