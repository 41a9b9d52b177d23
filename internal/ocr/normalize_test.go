package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	in := "REF\t QTY\r\nA-100      Pump housing    4\r\n\n\n\nTotal"
	got := Normalize(in)

	assert.NotContains(t, got, "\r")
	assert.NotContains(t, got, "\t")
	// wide gaps collapse to two spaces, so columns stay visually separated
	assert.Contains(t, got, "A-100  Pump housing  4")
	assert.NotContains(t, got, "\n\n\n")
}

func TestNormalizeStripsTrailingLineSpace(t *testing.T) {
	got := Normalize("line one   \nline two")
	assert.Equal(t, "line one\nline two", got)
}

func TestHeuristicConfidence(t *testing.T) {
	empty := HeuristicConfidence("")
	assert.Less(t, empty, float32(0.5))

	rich := HeuristicConfidence("REF-2231  Mechanical seal assembly   12  pcs\n" +
		"quantité: 12 pièces, livraison urgente sur site, merci de coter au plus vite")
	assert.Greater(t, rich, float32(0.5))
	assert.LessOrEqual(t, rich, float32(1.0))

	assert.Greater(t, rich, HeuristicConfidence("short garbage"))
}
