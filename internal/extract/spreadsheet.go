package extract

import (
	"strings"
)

// Spreadsheet procurement lists come from dozens of clients with no shared
// template. The resolver sniffs a header row in the first rows of each sheet,
// maps column roles from multilingual synonyms, and walks the data rows with
// tolerant coercion. Sheets without a recognizable header fall back to the
// generic line extractor on the flattened text.

const headerScanWindow = 20

// maxPlausibleQuantity bounds the "scan other columns for a number" rescue:
// anything at or above this is a price, a code, or a year, not a quantity.
const maxPlausibleQuantity = 100000

var (
	descSynonyms = []string{"description", "désignation", "designation", "libellé", "libelle", "article", "descript", "item"}
	qtySynonyms  = []string{"qty", "quantité", "quantite", "quantity", "qte", "qté", "nombre"}
	refSynonyms  = []string{"code", "référence", "reference", "ref", "réf", "part no", "part number", "item code", "article no", "n° article"}
	unitSyns     = []string{"unit", "unité", "unite", "uom", "u.m", "um", "unit of measure"}
	diaSynonyms  = []string{"diamètre", "diametre", "diameter", "dia.", "dn", "ø"}
)

// footerNoise marks totals/signature rows that trail client spreadsheets.
var footerNoise = []string{"total", "responsable", "visa", "signature", "approuvé", "approuve", "établi par", "etabli par", "nbre total"}

type columnMap struct {
	desc, qty, ref, unit, dia int
}

func newColumnMap() columnMap {
	return columnMap{desc: -1, qty: -1, ref: -1, unit: -1, dia: -1}
}

func (m columnMap) headerFound() bool {
	return m.desc >= 0 || (m.ref >= 0 && m.qty >= 0)
}

// ResolveSheetItems extracts items from one sheet's cell grid. The second
// return is false when no header row was recognized; the caller should then
// flatten the sheet to text and use the generic line extractor instead.
func ResolveSheetItems(rows [][]string) ([]Item, bool) {
	cols, headerRow := sniffHeader(rows)
	if !cols.headerFound() {
		return nil, false
	}

	var out []Item
	prevDesc := ""
	for _, row := range rows[headerRow+1:] {
		if rowBlank(row) {
			continue
		}

		desc := cellAt(row, cols.desc)
		if desc == "" {
			desc = longestTextCell(row)
		}
		if desc == "" {
			// merged description cells render as blanks on following rows
			desc = prevDesc
		}
		if desc == "" || isFooterNoise(desc) {
			continue
		}
		prevDesc = desc

		qtyCell := cellAt(row, cols.qty)
		qty := ParseQuantity(qtyCell)
		if qty <= 0 {
			qty = rescueQuantity(row, cols)
		}
		if qty <= 0 {
			continue
		}

		unit := NormalizeUnit(cellAt(row, cols.unit))
		// a quantity like "25M" means meters regardless of the unit column;
		// only a numeric cell qualifies, a text cell rescued elsewhere does not
		if isNumericCell(qtyCell) && strings.HasSuffix(strings.ToUpper(strings.TrimSpace(qtyCell)), "M") {
			unit = "m"
		}

		if dia := cellAt(row, cols.dia); dia != "" && !strings.Contains(desc, dia) {
			desc = desc + " Ø" + dia
		}

		it := Item{Description: desc, Quantity: qty, Unit: unit}
		if ref := cellAt(row, cols.ref); ref != "" && !isBareSmallNumber(ref) {
			it.Reference = ref
			it.SupplierCode = ref
		}
		it.Brand = ResolveBrand(desc)

		if !it.valid() {
			continue
		}
		out = append(out, it)
	}
	return out, true
}

// sniffHeader scans the first rows for a header: the first row with a
// description column (or both reference and quantity columns) wins.
func sniffHeader(rows [][]string) (columnMap, int) {
	limit := len(rows)
	if limit > headerScanWindow {
		limit = headerScanWindow
	}
	for i := 0; i < limit; i++ {
		cols := newColumnMap()
		for j, cell := range rows[i] {
			c := strings.ToLower(strings.TrimSpace(cell))
			if c == "" {
				continue
			}
			switch {
			// "code article" must not steal the description column
			case cols.desc < 0 && matchesAny(c, descSynonyms) && !strings.Contains(c, "code"):
				cols.desc = j
			case cols.qty < 0 && matchesAny(c, qtySynonyms):
				cols.qty = j
			case cols.ref < 0 && matchesAny(c, refSynonyms):
				cols.ref = j
			case cols.unit < 0 && matchesAny(c, unitSyns):
				cols.unit = j
			case cols.dia < 0 && matchesAny(c, diaSynonyms):
				cols.dia = j
			}
		}
		if cols.headerFound() {
			return cols, i
		}
	}
	return newColumnMap(), -1
}

// FlattenGrid renders a sheet grid to plain text, one row per line, cells
// joined by single spaces. Used both for metadata scanning and as the
// generic-extractor fallback input.
func FlattenGrid(grid [][][]string) string {
	var b strings.Builder
	for _, rows := range grid {
		for _, row := range rows {
			if rowBlank(row) {
				continue
			}
			b.WriteString(strings.TrimSpace(strings.Join(row, " ")))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func matchesAny(cell string, synonyms []string) bool {
	for _, s := range synonyms {
		if strings.Contains(cell, s) {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// longestTextCell finds the longest non-numeric cell worth using as a
// description when the mapped column is blank.
func longestTextCell(row []string) string {
	best := ""
	for _, c := range row {
		c = strings.TrimSpace(c)
		if len(c) > 10 && len(c) > len(best) && !isNumericCell(c) {
			best = c
		}
	}
	return best
}

// isNumericCell reports whether a cell is just a number, optionally with a
// short trailing unit suffix ("25", "2,5", "25M").
func isNumericCell(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	digits := 0
	letters := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',' || r == ' ':
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letters++
		default:
			return false
		}
	}
	return digits > 0 && letters <= 3
}

func isFooterNoise(desc string) bool {
	low := strings.ToLower(desc)
	for _, n := range footerNoise {
		if strings.Contains(low, n) {
			return true
		}
	}
	return false
}

// rescueQuantity scans the remaining columns for the first plausible positive
// number when the mapped quantity column failed.
func rescueQuantity(row []string, cols columnMap) float64 {
	for j, c := range row {
		if j == cols.desc || j == cols.qty || j == cols.ref {
			continue
		}
		if !isNumericCell(c) {
			continue
		}
		if v := ParseQuantity(c); v > 0 && v < maxPlausibleQuantity {
			return v
		}
	}
	return 0
}

// isBareSmallNumber rejects 1-2 digit reference cells: those are row numbers,
// not part references.
func isBareSmallNumber(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
