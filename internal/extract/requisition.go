package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Purchase requisitions are ERP exports with a recurring but unreliable table
// layout: column alignment drifts, descriptions wrap, and scanned copies lose
// the grid entirely. Extraction runs an ordered list of methods, strictest
// first, advancing to the next one only when the current method produced zero
// items. A nonzero result is accepted as-is even when individual rows look
// dubious; per-row confidence is carried on the items, not retried.

var (
	// row shape: line#, qty, unit, 5-8 digit item code, description
	reItemRow = regexp.MustCompile(`(?mi)^\s*(\d{1,2})\s+(\d+(?:[.,]\d+)?)\s+(EA|EACH|PCS?|PCE|UN|SET|BX|KG|M|L)\s+(\d{5,8})\s+(\S.*)$`)

	// "Part Number" layout: line#, part number, description, qty, unit
	rePartNumberRow = regexp.MustCompile(`(?mi)^\s*(\d{1,3})\s+([A-Z0-9][A-Z0-9./-]{3,})\s+(\S.*?)\s{2,}(\d+(?:[.,]\d+)?)\s+(EA|EACH|PCS?|PCE|UN|SET|BX|KG|M|L)\s*$`)

	// loosest: a 5-6 digit code followed by capitalized text
	reDirectCode = regexp.MustCompile(`\b(\d{5,6})\s+([A-Z][A-Za-z0-9&()ärüéèàç ,./-]{4,})`)

	reqShape = regexp.MustCompile(`(?m)^\s*\d{1,2}\s+\d+\s+EA\s+\d{5,6}\s+[A-Z]`)

	reSerialToken = regexp.MustCompile(`(?i)\bSERIAL[:\s]+([A-Z0-9-]{3,})`)

	reCurrencyOnly = regexp.MustCompile(`(?i)^\s*(USD|EUR|CAD|GBP|CHF)\s*$`)
)

// IsPurchaseRequisition sniffs whether free text carries the recurring PR
// table structure.
func IsPurchaseRequisition(text string) bool {
	low := strings.ToLower(text)
	if strings.Contains(low, "purchase requisition") ||
		strings.Contains(low, "item code") ||
		strings.Contains(low, "item description") {
		return true
	}
	return reqShape.MatchString(text)
}

type requisitionMethod struct {
	name string
	run  func(text string) []Item
}

// ExtractRequisitionItems runs the method cascade and returns the items plus
// the name of the method that produced them ("" when all came up empty).
func ExtractRequisitionItems(text string) ([]Item, string) {
	norm := strings.ReplaceAll(text, "\r\n", "\n")

	methods := []requisitionMethod{
		{"global-regex", extractByGlobalRegex},
		{"part-number", extractByPartNumber},
		{"line-machine", extractByLineMachine},
		{"direct-code", extractByDirectCode},
	}

	var items []Item
	var used string
	for _, m := range methods {
		if items = m.run(norm); len(items) > 0 {
			used = m.name
			break
		}
	}
	if len(items) == 0 {
		return nil, ""
	}

	applyAdditionalDescription(norm, items)
	for i := range items {
		finalizeItem(&items[i])
	}
	return items, used
}

// Method 0: one global regex over the whole text, deduped by item code
// (first occurrence wins), each hit enriched by a forward continuation scan.
func extractByGlobalRegex(text string) []Item {
	locs := reItemRow.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return nil
	}
	lines := strings.Split(text, "\n")
	starts := lineStartOffsets(text)

	seen := make(map[string]struct{}, len(locs))
	var out []Item
	for _, loc := range locs {
		qty := ParseQuantity(text[loc[4]:loc[5]])
		unit := NormalizeUnit(text[loc[6]:loc[7]])
		code := text[loc[8]:loc[9]]
		desc := stripTrailingAmounts(text[loc[10]:loc[11]])

		if _, dup := seen[code]; dup {
			continue
		}
		if qty <= 0 {
			qty = 1
		}

		li := lineIndexAt(starts, loc[0])
		for _, cont := range collectContinuation(lines, li+1) {
			desc = mergeContinuation(desc, cont)
		}
		desc = collapseDuplicateHalf(desc)

		it := Item{Description: desc, Quantity: qty, Unit: unit, InternalCode: code}
		if !it.valid() {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Method 1: documents with an explicit "Part Number" table header put the
// code before the description and the quantity at the end of the row.
func extractByPartNumber(text string) []Item {
	if !strings.Contains(strings.ToLower(text), "part number") {
		return nil
	}
	var out []Item
	seen := make(map[string]struct{})
	for _, m := range rePartNumberRow.FindAllStringSubmatch(text, -1) {
		part, desc := m[2], stripTrailingAmounts(m[3])
		if isHeaderNoise(desc) || strings.EqualFold(part, "Part") {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		qty := ParseQuantity(m[4])
		if qty <= 0 {
			qty = 1
		}
		it := Item{
			Description:  desc,
			Quantity:     qty,
			Unit:         NormalizeUnit(m[5]),
			Reference:    part,
			SupplierCode: part,
		}
		if !it.valid() {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, it)
	}
	return out
}

// accumState is the line-machine state: idle until a main row starts an item,
// accumulating while continuation lines extend it.
type accumState int

const (
	stateIdle accumState = iota
	stateAccumulating
)

// Method 2: line-by-line state machine for documents where rows survive but
// the global regex trips over interleaved noise.
func extractByLineMachine(text string) []Item {
	var (
		out   []Item
		cur   Item
		state = stateIdle
	)

	flush := func() {
		if state != stateAccumulating {
			return
		}
		cur.Description = collapseDuplicateHalf(stripTrailingAmounts(cur.Description))
		if cur.valid() {
			out = append(out, cur)
		}
		cur = Item{}
		state = stateIdle
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if m := reItemRow.FindStringSubmatch(line); m != nil {
			flush()
			qty := ParseQuantity(m[2])
			if qty <= 0 {
				qty = 1
			}
			cur = Item{
				Description:  stripTrailingAmounts(m[5]),
				Quantity:     qty,
				Unit:         NormalizeUnit(m[3]),
				InternalCode: m[4],
			}
			state = stateAccumulating
			continue
		}

		if state != stateAccumulating {
			continue
		}
		if isSectionTerminator(line) {
			flush()
			continue
		}
		if line == "" || isHeaderNoise(line) || reCurrencyOnly.MatchString(line) {
			continue
		}
		cur.Description = mergeContinuation(cur.Description, line)
	}
	flush()
	return out
}

// Method 3: last resort, any 5-6 digit code followed by capitalized text.
// Codes starting 1500 are account numbers in this corpus, not items.
func extractByDirectCode(text string) []Item {
	var out []Item
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || startsWithCostWord(line) {
			continue
		}
		m := reDirectCode.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		code := m[1]
		if strings.HasPrefix(code, "1500") {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		it := Item{
			Description:  stripTrailingAmounts(strings.TrimSpace(m[2])),
			Quantity:     1,
			Unit:         "pcs",
			InternalCode: code,
		}
		if !it.valid() {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, it)
	}
	return out
}

// applyAdditionalDescription finds the document's "Additional Description"
// block and back-fills brand, shared notes and a SERIAL token onto items
// still missing those fields.
func applyAdditionalDescription(text string, items []Item) {
	block := additionalDescriptionBlock(text)
	if block == "" {
		return
	}
	brand := ResolveBrand(block)
	serial := ""
	if m := reSerialToken.FindStringSubmatch(block); m != nil {
		serial = m[1]
	}
	for i := range items {
		if brand != "" && items[i].Brand == "" {
			items[i].Brand = brand
		}
		if items[i].Notes == "" {
			items[i].Notes = block
		}
		if serial != "" && items[i].SerialNumber == "" {
			items[i].SerialNumber = serial
		}
	}
}

func additionalDescriptionBlock(text string) string {
	lines := strings.Split(text, "\n")
	start := -1
	for i, ln := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(ln)), "additional description") {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}
	var b []string
	for _, raw := range lines[start:] {
		ln := strings.TrimSpace(raw)
		if ln == "" || isSectionTerminator(ln) || reItemRow.MatchString(ln) {
			break
		}
		b = append(b, ln)
	}
	return strings.Join(b, " ")
}

func finalizeItem(it *Item) {
	if it.SupplierCode == "" {
		it.SupplierCode = MineSupplierCode(it.Description)
	}
	if it.Brand == "" {
		it.Brand = ResolveBrand(it.Description)
	}
}

// --- shared scanning helpers ---

var headerNoiseWords = map[string]struct{}{
	"line": {}, "quantity": {}, "qty": {}, "uom": {}, "unit": {}, "item": {},
	"description": {}, "delivery": {}, "date": {}, "price": {}, "amount": {},
	"currency": {}, "vendor": {}, "plant": {}, "material": {},
}

func isHeaderNoise(line string) bool {
	first := strings.ToLower(strings.Trim(strings.Fields(line + " x")[0], ":.,"))
	_, ok := headerNoiseWords[first]
	return ok
}

func isSectionTerminator(line string) bool {
	low := strings.ToLower(strings.TrimSpace(line))
	return strings.HasPrefix(low, "additional description") ||
		strings.HasPrefix(low, "additional") ||
		strings.HasPrefix(low, "total in usd") ||
		strings.HasPrefix(low, "total") ||
		strings.HasPrefix(low, "page ")
}

func startsWithCostWord(line string) bool {
	first := strings.ToLower(strings.Fields(line + " x")[0])
	switch first {
	case "usd", "eur", "cad", "gbp", "total", "cost", "price", "amount", "currency", "subtotal":
		return true
	}
	return false
}

// collectContinuation gathers wrapped description lines following an item
// row: lines starting with a capital letter that aren't table-header noise,
// up to the next blank line, section terminator or item row.
func collectContinuation(lines []string, start int) []string {
	const maxScan = 10
	var out []string
	for i := start; i < len(lines) && i < start+maxScan; i++ {
		ln := strings.TrimSpace(lines[i])
		if ln == "" || isSectionTerminator(ln) || reItemRow.MatchString(ln) {
			break
		}
		r := []rune(ln)
		if !unicode.IsUpper(r[0]) {
			continue
		}
		if isHeaderNoise(ln) {
			continue
		}
		out = append(out, ln)
	}
	return out
}

// mergeContinuation appends a continuation line unless it substantially
// repeats the accumulated description (first-15-chars overlap).
func mergeContinuation(desc, cont string) string {
	cont = stripTrailingAmounts(cont)
	if cont == "" {
		return desc
	}
	const overlap = 15
	d, c := strings.ToLower(desc), strings.ToLower(cont)
	if len(d) >= overlap && len(c) >= overlap && d[:overlap] == c[:overlap] {
		return desc
	}
	return strings.TrimSpace(desc + " " + cont)
}

// collapseDuplicateHalf drops the second half of a description that merely
// repeats the first (a common artifact of merged wrapped rows).
func collapseDuplicateHalf(desc string) string {
	const probe = 20
	h := len(desc) / 2
	if h < probe {
		return desc
	}
	first := strings.TrimSpace(desc[:h])
	second := strings.TrimSpace(desc[h:])
	if len(first) >= probe && strings.HasPrefix(second, first[:probe]) {
		return first
	}
	return desc
}

// stripTrailingAmounts pops trailing amount/currency/filler tokens off a row
// description: prices, totals and account codes trail the description in most
// ERP exports.
func stripTrailingAmounts(desc string) string {
	fields := strings.Fields(desc)
	for len(fields) > 1 {
		last := strings.ToLower(fields[len(fields)-1])
		if isAmountToken(last) || isCurrencyToken(last) || last == "-" || last == "/" {
			fields = fields[:len(fields)-1]
			continue
		}
		break
	}
	return strings.Join(fields, " ")
}

func isCurrencyToken(tok string) bool {
	switch tok {
	case "usd", "eur", "cad", "gbp", "chf", "$", "€", "£":
		return true
	}
	return false
}

func isAmountToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return false
		}
	}
	return true
}

func lineStartOffsets(text string) []int {
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineIndexAt(starts []int, offset int) int {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
