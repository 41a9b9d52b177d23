package extract

import (
	"regexp"
	"strings"
)

// Metadata fields are each mined by their own ordered pattern list, first
// acceptable match wins. The fields are independent: no cross-checking
// between, say, the deadline and the urgency flag.

// rfqPatterns in priority order: the explicit requisition number beats the
// generic prefixed code beats the bare alphanumeric fallback. Once an earlier
// pattern yields an acceptable candidate, later ones are never consulted.
var rfqPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)purchase\s+requisition\s*(?:no\.?|number|n[o°]?)?\s*[:#]?\s*([A-Z0-9][A-Z0-9/-]{2,})`),
	regexp.MustCompile(`(?i)\b(PR[-\s]?\d{4,})\b`),
	regexp.MustCompile(`(?i)(?:rfq|réf(?:érence)?|ref(?:erence)?|n[o°]\.?)\s*[:#]?\s*([A-Z0-9][A-Z0-9/-]{2,})`),
	regexp.MustCompile(`(?i)(?:quotation|devis)\s*(?:no\.?|n[o°])?\s*[:#]?\s*([A-Z0-9][A-Z0-9/-]{2,})`),
	regexp.MustCompile(`\b([A-Z]{2,5}[-/]\d{4,})\b`),
}

// ExtractRFQNumber returns the document's reference number, or "".
// A candidate is acceptable when it carries at least one digit and is at
// least four characters long.
func ExtractRFQNumber(text string) string {
	for _, re := range rfqPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			cand := strings.TrimRight(strings.ToUpper(strings.TrimSpace(m[1])), ".,;:")
			if len(cand) >= 4 && hasDigit(cand) {
				return cand
			}
		}
	}
	return ""
}

var deadlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:deadline|due\s+date|date\s+limite|échéance|echeance|avant\s+le|before|livraison\s+(?:souhaitée|souhaitee|requise)?\s*(?:le|pour|:)?)\s*:?\s*(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`),
	regexp.MustCompile(`(?i)\b(d[èe]s\s+que\s+possible|as\s+soon\s+as\s+possible|asap)\b`),
}

// ExtractDeadline returns the deadline phrase or date found in the text.
func ExtractDeadline(text string) string {
	for _, re := range deadlinePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// contact name follows a closing salutation on its own line(s)
var contactNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:cordialement|bien\s+à\s+vous|salutations|sincèrement|best\s+regards|kind\s+regards|regards|merci\s+d'avance)[ \t]*,?[ \t]*\n+[ \t]*([A-ZÀ-Ý][A-Za-zà-ÿ-]+(?:[ \t]+[A-ZÀ-Ý][A-Za-zà-ÿ-]+){0,2})`),
}

func ExtractContactName(text string) string {
	for _, re := range contactNamePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// rolePhrases is the fixed ordered list of job titles worth reporting.
var rolePhrases = []string{
	"responsable achats", "responsable des achats", "responsable maintenance",
	"directeur technique", "chef de service", "ingénieur maintenance",
	"acheteur", "acheteuse",
	"procurement manager", "purchasing manager", "maintenance manager",
	"supply chain manager", "buyer",
}

func ExtractContactRole(text string) string {
	low := strings.ToLower(text)
	for _, role := range rolePhrases {
		if strings.Contains(low, role) {
			return role
		}
	}
	return ""
}

var phonePattern = regexp.MustCompile(`(?:\+|00)?[\d(][\d\s()./-]{6,18}\d`)

// ExtractContactPhone returns the first token that looks like a phone number
// (at least eight digits once separators are removed).
func ExtractContactPhone(text string) string {
	for _, cand := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range cand {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 8 && digits <= 15 {
			return strings.TrimSpace(cand)
		}
	}
	return ""
}

var urgencyWords = []string{"urgent", "urgence", "asap", "dès que possible", "des que possible", "as soon as possible"}

func ExtractUrgency(text string) bool {
	low := strings.ToLower(text)
	for _, w := range urgencyWords {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
