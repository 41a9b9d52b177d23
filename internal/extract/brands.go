package extract

import (
	"regexp"
	"strings"
)

// knownBrands is the static manufacturer dictionary used to resolve the brand
// field from free-text descriptions. Order matters: the first hit wins, so
// multi-word entries that contain another entry ("ATLAS COPCO" vs a
// hypothetical "ATLAS") must come first.
var knownBrands = []string{
	"ENDRESS+HAUSER",
	"ENDRESS HAUSER",
	"PEPPERL+FUCHS",
	"ATLAS COPCO",
	"INGERSOLL RAND",
	"BOSCH REXROTH",
	"LEROY SOMER",
	"PHOENIX CONTACT",
	"SCHNEIDER ELECTRIC",
	"ROSEMOUNT",
	"YOKOGAWA",
	"SIEMENS",
	"SCHNEIDER",
	"TELEMECANIQUE",
	"KROHNE",
	"BURKERT",
	"DANFOSS",
	"GRUNDFOS",
	"FLOWSERVE",
	"FLYGT",
	"GOULDS",
	"NETZSCH",
	"SULZER",
	"WILDEN",
	"CATERPILLAR",
	"CUMMINS",
	"EMERSON",
	"OMRON",
	"MITSUBISHI",
	"FESTO",
	"PARKER",
	"VICKERS",
	"HYDAC",
	"WIKA",
	"VEGA",
	"IFM",
	"SKF",
	"FAG",
	"NSK",
	"NTN",
	"TIMKEN",
	"GARLOCK",
	"CHESTERTON",
	"GATES",
	"CONTINENTAL",
	"LEGRAND",
	"BALDOR",
	"WEG",
	"ABB",
	"KSB",
}

// ResolveBrand returns the first dictionary brand found in the text, or "".
func ResolveBrand(text string) string {
	up := strings.ToUpper(text)
	for _, b := range knownBrands {
		if strings.Contains(up, b) {
			return b
		}
	}
	return ""
}

// Supplier-code shapes mined from merged descriptions, in priority order:
// brand-prefixed codes beat bare hyphenated alphanumerics.
var supplierCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z]{2,6}-\d{3,8}(?:-[A-Z0-9]+)*)\b`),
	regexp.MustCompile(`\b([A-Z]{2,6}\d{4,8})\b`),
	regexp.MustCompile(`\b([A-Z0-9]{2,}-[A-Z0-9]{2,}(?:-[A-Z0-9]+)*)\b`),
}

// MineSupplierCode extracts the most code-looking token from a description.
func MineSupplierCode(desc string) string {
	up := strings.ToUpper(desc)
	for _, re := range supplierCodePatterns {
		if m := re.FindStringSubmatch(up); m != nil {
			return m[1]
		}
	}
	return ""
}

// unitSynonyms maps vendor spellings to the normalized unit set.
var unitSynonyms = map[string]string{
	"pc": "pcs", "pce": "pcs", "pcs": "pcs", "piece": "pcs", "pieces": "pcs",
	"pièce": "pcs", "pièces": "pcs", "piece(s)": "pcs",
	"ea": "pcs", "each": "pcs", "off": "pcs", "un": "pcs", "unit": "pcs",
	"units": "pcs", "unité": "pcs", "unités": "pcs", "u": "pcs",
	"m": "m", "mtr": "m", "meter": "m", "metre": "m", "mètre": "m", "ml": "m",
	"mm": "mm",
	"kg": "kg", "kgs": "kg",
	"l": "l", "lt": "l", "litre": "l", "liter": "l",
	"set": "set", "sets": "set", "jeu": "set", "kit": "kit", "kits": "kit",
	"bx": "box", "box": "box", "boîte": "box",
	"rl": "roll", "roll": "roll", "rouleau": "roll",
}

// NormalizeUnit maps a free-text unit to its canonical form; unknown or empty
// units default to "pcs".
func NormalizeUnit(u string) string {
	key := strings.ToLower(strings.TrimSpace(strings.Trim(u, ".")))
	if key == "" {
		return "pcs"
	}
	if norm, ok := unitSynonyms[key]; ok {
		return norm
	}
	return "pcs"
}
