package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPurchaseRequisition(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"keyword header", "PURCHASE REQUISITION\nNo: 4500123", true},
		{"item code keyword", "some preamble\nItem Code   Item Description\n", true},
		{"row shape", "1 5 EA 123456 HYDRAULIC PUMP", true},
		{"plain email", "Bonjour,\nmerci de nous faire une offre.\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPurchaseRequisition(tt.text))
		})
	}
}

func TestGlobalRegexStripsTrailingAmounts(t *testing.T) {
	items, method := ExtractRequisitionItems("1 5 EA 123456 HYDRAULIC PUMP ASSEMBLY 1500012 2 2 USD\n")
	require.Equal(t, "global-regex", method)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "HYDRAULIC PUMP ASSEMBLY", it.Description)
	assert.Equal(t, 5.0, it.Quantity)
	assert.Equal(t, "pcs", it.Unit)
	assert.Equal(t, "123456", it.InternalCode)
}

func TestGlobalRegexDedupesByItemCode(t *testing.T) {
	text := strings.Join([]string{
		"1 2 EA 111111 GATE VALVE DN50",
		"2 4 EA 222222 BALL BEARING 6205",
		"3 9 EA 111111 GATE VALVE DN50", // same code again: first wins
	}, "\n")

	items, _ := ExtractRequisitionItems(text)
	require.Len(t, items, 2)

	codes := map[string]int{}
	for _, it := range items {
		codes[it.InternalCode]++
	}
	for code, n := range codes {
		assert.Equal(t, 1, n, "code %s emitted more than once", code)
	}
	assert.Equal(t, 2.0, items[0].Quantity, "first occurrence must win")
}

func TestGlobalRegexContinuationLines(t *testing.T) {
	text := strings.Join([]string{
		"1 1 EA 334455 MECHANICAL SEAL",
		"Cartridge type for slurry service",
		"",
		"2 3 EA 445566 IMPELLER BRONZE",
	}, "\n")

	items, _ := ExtractRequisitionItems(text)
	require.Len(t, items, 2)
	assert.Equal(t, "MECHANICAL SEAL Cartridge type for slurry service", items[0].Description)
	assert.Equal(t, "IMPELLER BRONZE", items[1].Description)
}

func TestContinuationSkipsHeaderNoise(t *testing.T) {
	text := strings.Join([]string{
		"1 1 EA 334455 MECHANICAL SEAL",
		"Quantity UOM Price",
		"Stationary face carbon",
		"Total in USD",
	}, "\n")

	items, _ := ExtractRequisitionItems(text)
	require.Len(t, items, 1)
	assert.Equal(t, "MECHANICAL SEAL Stationary face carbon", items[0].Description)
}

func TestCollapseDuplicateHalf(t *testing.T) {
	half := "CENTRIFUGAL PUMP 50HZ STAINLESS STEEL"
	merged := half + " " + half
	assert.Equal(t, half, collapseDuplicateHalf(merged))

	// distinct halves stay intact
	keep := "CENTRIFUGAL PUMP 50HZ WITH BASEPLATE AND COUPLING GUARD"
	assert.Equal(t, keep, collapseDuplicateHalf(keep))
}

func TestPartNumberLayout(t *testing.T) {
	text := strings.Join([]string{
		"Part Number list",
		"1  SKF-61805  DEEP GROOVE BALL BEARING  4 EA",
		"2  GAR-0221   GASKET SPIRAL WOUND DN80  2 EA",
	}, "\n")

	items, method := ExtractRequisitionItems(text)
	require.Equal(t, "part-number", method)
	require.Len(t, items, 2)
	assert.Equal(t, "SKF-61805", items[0].Reference)
	assert.Equal(t, "SKF-61805", items[0].SupplierCode)
	assert.Equal(t, 4.0, items[0].Quantity)
	assert.Equal(t, "DEEP GROOVE BALL BEARING", items[0].Description)
}

func TestLineMachineAccumulatesAndFlushes(t *testing.T) {
	// interleaved noise defeats the global regex continuation scan on
	// purpose: the row descriptions here carry lowercase starts the
	// line machine must still pick up
	items := extractByLineMachine(strings.Join([]string{
		"1 2 EA 556677 GEARBOX INPUT SHAFT",
		"with keyway and locknut",
		"USD",
		"Line Quantity UOM",
		"2 1 EA 667788 OIL SEAL VITON",
		"Total in USD 1234.00",
	}, "\n"))

	require.Len(t, items, 2)
	assert.Equal(t, "GEARBOX INPUT SHAFT with keyway and locknut", items[0].Description)
	assert.Equal(t, "OIL SEAL VITON", items[1].Description)
}

func TestLineMachineFlushesFinalAccumulator(t *testing.T) {
	items := extractByLineMachine("1 1 EA 998877 COUPLING ELEMENT\nspider insert 95 shore")
	require.Len(t, items, 1)
	assert.Equal(t, "COUPLING ELEMENT spider insert 95 shore", items[0].Description)
}

func TestDirectCodeFallback(t *testing.T) {
	// no unit column at all, so methods 0-2 find nothing
	text := strings.Join([]string{
		"Needed spares:",
		"445566 THRUST WASHER SET",
		"150012 ACCOUNT CHARGE LINE", // 1500-prefixed codes are not items
		"Total cost estimate 900",
	}, "\n")

	items, method := ExtractRequisitionItems(text)
	require.Equal(t, "direct-code", method)
	require.Len(t, items, 1)
	assert.Equal(t, "445566", items[0].InternalCode)
	assert.Equal(t, "THRUST WASHER SET", items[0].Description)
	assert.Equal(t, 1.0, items[0].Quantity)
}

func TestAdditionalDescriptionBackfill(t *testing.T) {
	text := strings.Join([]string{
		"1 2 EA 112233 MECHANICAL SEAL 80MM",
		"2 1 EA 223344 SHAFT SLEEVE",
		"",
		"Additional Description",
		"For GRUNDFOS pump CR32, SERIAL: NB-88812",
		"",
		"Total in USD 0.00",
	}, "\n")

	items, _ := ExtractRequisitionItems(text)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, "GRUNDFOS", it.Brand)
		assert.Equal(t, "NB-88812", it.SerialNumber)
		assert.Contains(t, it.Notes, "CR32")
	}
}

func TestCascadeStopsAtFirstNonEmptyMethod(t *testing.T) {
	// a document that both method 0 and method 3 could read must be
	// handled by method 0 alone
	items, method := ExtractRequisitionItems("1 2 EA 123456 GATE VALVE DN50\n")
	assert.Equal(t, "global-regex", method)
	require.Len(t, items, 1)
	assert.Equal(t, 2.0, items[0].Quantity, "method 3 would have defaulted to 1")
}

func TestRequisitionItemInvariants(t *testing.T) {
	text := strings.Join([]string{
		"1 2 EA 111111 PUMP CASING",
		"2 0 EA 222222 ZERO QTY DEFAULTS TO ONE",
		"3 1 EA 333333 XY", // description too short, dropped
	}, "\n")

	items, _ := ExtractRequisitionItems(text)
	for _, it := range items {
		assert.Greater(t, it.Quantity, 0.0)
		assert.GreaterOrEqual(t, len(it.Description), 3)
	}
	// the zero-quantity row is kept with the documented default
	var zeroRow *Item
	for i := range items {
		if items[i].InternalCode == "222222" {
			zeroRow = &items[i]
		}
	}
	require.NotNil(t, zeroRow)
	assert.Equal(t, 1.0, zeroRow.Quantity)
}

func TestStripTrailingAmounts(t *testing.T) {
	tests := []struct{ in, want string }{
		{"PUMP SEAL KIT 120.50 USD", "PUMP SEAL KIT"},
		{"VALVE BODY 1500012 2 2 USD", "VALVE BODY"},
		{"CYLINDER 80MM", "CYLINDER 80MM"},
		{"GASKET DN100 -", "GASKET DN100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripTrailingAmounts(tt.in), "input %q", tt.in)
	}
}

func TestContinuationAcceptsAccentedCapitals(t *testing.T) {
	text := "1   2   EA   123456   GARNITURE MECANIQUE POMPE\n" +
		"Étanchéité renforcée viton\n"
	items, method := ExtractRequisitionItems(text)
	assert.Equal(t, "global-regex", method)
	require.Len(t, items, 1)
	assert.Equal(t, "GARNITURE MECANIQUE POMPE Étanchéité renforcée viton", items[0].Description)
}
