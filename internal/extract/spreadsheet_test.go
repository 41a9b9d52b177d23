package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSheetItemsBasic(t *testing.T) {
	rows := [][]string{
		{"Demande de prix", "", "", ""},
		{"Désignation", "Quantité", "Référence", "Unité"},
		{"Garniture mécanique 28mm", "2", "GM-2800-V", "pce"},
		{"Roulement à billes 6205", "4", "SKF-6205", "pce"},
	}

	items, found := ResolveSheetItems(rows)
	require.True(t, found)
	require.Len(t, items, 2)

	assert.Equal(t, "Garniture mécanique 28mm", items[0].Description)
	assert.Equal(t, 2.0, items[0].Quantity)
	assert.Equal(t, "pcs", items[0].Unit)
	assert.Equal(t, "GM-2800-V", items[0].Reference)
	assert.Equal(t, "GM-2800-V", items[0].SupplierCode)
}

func TestHeaderRowViaRefAndQty(t *testing.T) {
	// no description header, but code+quantity is enough
	rows := [][]string{
		{"Code article", "Qté"},
		{"VP-100", "3"},
	}
	_, found := ResolveSheetItems(rows)
	assert.True(t, found)
}

func TestHeaderNotStolenByCodeColumn(t *testing.T) {
	rows := [][]string{
		{"Code article", "Désignation", "Qté"},
		{"XJ-40", "Vérin pneumatique double effet", "6"},
	}
	items, found := ResolveSheetItems(rows)
	require.True(t, found)
	require.Len(t, items, 1)
	// "code article" contains "article" but must map to reference, not description
	assert.Equal(t, "Vérin pneumatique double effet", items[0].Description)
	assert.Equal(t, "XJ-40", items[0].Reference)
}

func TestZeroQuantityRowDropped(t *testing.T) {
	rows := [][]string{
		{"Description", "Qty"},
		{"Valve seat ring", "0"},
		{"Valve stem", "2"},
	}
	items, found := ResolveSheetItems(rows)
	require.True(t, found)
	require.Len(t, items, 1)
	assert.Equal(t, "Valve stem", items[0].Description)
}

func TestQuantityRescueFromOtherColumns(t *testing.T) {
	rows := [][]string{
		{"Description", "Qty", "Remarks"},
		{"Expansion joint DN150", "", "12"},
	}
	items, found := ResolveSheetItems(rows)
	require.True(t, found)
	require.Len(t, items, 1)
	assert.Equal(t, 12.0, items[0].Quantity)
}

func TestDescriptionCarriedForward(t *testing.T) {
	// merged description cells leave blanks on following rows
	rows := [][]string{
		{"Description", "Qty"},
		{"Cable gland M20 brass", "10"},
		{"", "25"},
	}
	items, found := ResolveSheetItems(rows)
	require.True(t, found)
	require.Len(t, items, 2)
	assert.Equal(t, "Cable gland M20 brass", items[1].Description)
	assert.Equal(t, 25.0, items[1].Quantity)
}

func TestFooterNoiseDropped(t *testing.T) {
	rows := [][]string{
		{"Description", "Qty"},
		{"Pressure transmitter 0-16bar", "1"},
		{"Total articles", "2"},
		{"Responsable achats: M. Martin", "1"},
		{"Visa", "1"},
	}
	items, found := ResolveSheetItems(rows)
	require.True(t, found)
	require.Len(t, items, 1)
}

func TestTrailingMQuantityForcesMeters(t *testing.T) {
	rows := [][]string{
		{"Description", "Qty", "Unit"},
		{"Câble souple 3G2.5", "25M", "pce"},
	}
	items, found := ResolveSheetItems(rows)
	require.True(t, found)
	require.Len(t, items, 1)
	assert.Equal(t, 25.0, items[0].Quantity)
	assert.Equal(t, "m", items[0].Unit)
}

func TestBareRowNumberNotKeptAsReference(t *testing.T) {
	rows := [][]string{
		{"Ref", "Description", "Qty"},
		{"12", "Shaft coupling spider", "3"},
	}
	items, found := ResolveSheetItems(rows)
	require.True(t, found)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Reference)
	assert.Empty(t, items[0].SupplierCode)
}

func TestNoHeaderFallsBackToGenericText(t *testing.T) {
	rows := [][]string{
		{"some", "unrelated", "cells"},
		{"more", "random", "content"},
	}
	items, found := ResolveSheetItems(rows)
	assert.False(t, found)
	assert.Nil(t, items)
}

func TestFlattenGrid(t *testing.T) {
	grid := [][][]string{
		{
			{"a", "b"},
			{"", ""},
			{"c", ""},
		},
	}
	assert.Equal(t, "a b\nc\n", FlattenGrid(grid))
}

func TestTextQuantityCellDoesNotForceMeters(t *testing.T) {
	// the qty cell holds stray text ending in M; the rescued quantity from
	// another column must not inherit a meters unit from it
	rows := [][]string{
		{"Désignation", "Qté"},
		{"Gaine thermorétractable 25mm", "ITEM", "12"},
	}
	items, ok := ResolveSheetItems(rows)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, 12.0, items[0].Quantity)
	assert.Equal(t, "pcs", items[0].Unit)
}
