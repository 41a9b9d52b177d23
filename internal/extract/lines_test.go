package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinesTemplates(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantDesc string
		wantQty  float64
		wantUnit string
		wantRef  string
	}{
		{
			name:     "qty x description",
			line:     "2 x Hydraulic cylinder 80mm",
			wantDesc: "Hydraulic cylinder 80mm",
			wantQty:  2,
			wantUnit: "pcs",
		},
		{
			name:     "reference desc qty unit",
			line:     "SKF-6205 Deep groove bearing 10 pcs",
			wantDesc: "Deep groove bearing",
			wantQty:  10,
			wantUnit: "pcs",
			wantRef:  "SKF-6205",
		},
		{
			name:     "description colon qty",
			line:     "Joint torique viton 25mm: 12 pièces",
			wantDesc: "Joint torique viton 25mm",
			wantQty:  12,
			wantUnit: "pcs",
		},
		{
			name:     "numbered list",
			line:     "1. Manometre glycerine 0-10 bar",
			wantDesc: "Manometre glycerine 0-10 bar",
			wantQty:  1,
			wantUnit: "pcs",
		},
		{
			name:     "bulleted list",
			line:     "- Vanne papillon DN100 fonte",
			wantDesc: "Vanne papillon DN100 fonte",
			wantQty:  1,
			wantUnit: "pcs",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ExtractLines(tt.line)
			require.Len(t, items, 1)
			assert.Equal(t, tt.wantDesc, items[0].Description)
			assert.Equal(t, tt.wantQty, items[0].Quantity)
			assert.Equal(t, tt.wantUnit, items[0].Unit)
			assert.Equal(t, tt.wantRef, items[0].Reference)
		})
	}
}

func TestExtractLinesFiltersAndDedupes(t *testing.T) {
	text := strings.Join([]string{
		"short",                         // under the length floor
		"2 x Pump seal kit",             //
		"2 x Pump seal kit",             // duplicate description
		strings.Repeat("z", 501),        // over the length ceiling
		"3 x Grease cartridge EP2 400g", //
	}, "\n")

	items := ExtractLines(text)
	require.Len(t, items, 2)
	assert.Equal(t, "Pump seal kit", items[0].Description)
	assert.Equal(t, "Grease cartridge EP2 400g", items[1].Description)
}

func TestExtractLinesCapsItemCount(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&b, "2 x Spare part variant number %03d\n", i)
	}
	items := ExtractLines(b.String())
	assert.Len(t, items, maxGenericItems)
}

func TestEmailBodyFrenchProse(t *testing.T) {
	text := "Bonjour,\n\nMerci de nous faire une cotation de 3 unités pour le " +
		"débitmètre électromagnétique DN50 installé en station.\n\nCordialement,\nMarie Dupont"

	items := ExtractEmailBody(text)
	require.Len(t, items, 1)

	it := items[0]
	assert.True(t, it.NeedsManualReview, "prose extraction is always flagged")
	assert.Equal(t, 3.0, it.Quantity)
	assert.Contains(t, strings.ToLower(it.Description), "débitmètre")
}

func TestEmailBodyEquipmentNounFallback(t *testing.T) {
	text := "Hello,\n\nWe urgently need a replacement pressure gauge 0-16 bar for the compressor skid.\n\nRegards,\nJohn"

	items := ExtractEmailBody(text)
	require.Len(t, items, 1)
	assert.True(t, items[0].NeedsManualReview)
	assert.Contains(t, strings.ToLower(items[0].Description), "pressure gauge")
}

func TestEmailBodyPrefersTabularLines(t *testing.T) {
	text := "Bonjour,\n\n2 x Roulement 6205 ZZ\n4 x Courroie SPB 1800\n\nCordialement"

	items := ExtractEmailBody(text)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.False(t, it.NeedsManualReview, "tabular lines are not flagged")
	}
}

func TestEmailBodyNothingUsable(t *testing.T) {
	assert.Empty(t, ExtractEmailBody("Merci pour votre retour rapide.\n"))
}

func TestEmailBodyNounAfterWideCaseFold(t *testing.T) {
	// İ lowercases to a longer byte sequence; the noun offset must still
	// land on the noun in the original text
	text := "Bonjour,\n\nLivraison İSTANBUL prévue, besoin d'une pompe doseuse 5 l/h, merci de confirmer.\n"
	items := ExtractEmailBody(text)
	require.Len(t, items, 1)
	assert.Equal(t, "pompe doseuse 5 l/h", items[0].Description)
	assert.Equal(t, 1.0, items[0].Quantity)
	assert.True(t, items[0].NeedsManualReview)
}
