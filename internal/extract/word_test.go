package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseDOCX(t *testing.T) {
	data := buildDOCX(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Liste des besoins atelier</w:t></w:r></w:p>
    <w:p><w:r><w:t>2 x </w:t></w:r><w:r><w:t>Roulement 6204 ZZ</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := parseDOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "Liste des besoins atelier\n2 x Roulement 6204 ZZ", text)
}

func TestParseDOCXNotAZip(t *testing.T) {
	_, err := parseDOCX([]byte("plain old bytes"))
	assert.Error(t, err)
}

func TestParseDOCXMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = parseDOCX(buf.Bytes())
	assert.Error(t, err)
}

func TestSalvagePrintableRuns(t *testing.T) {
	raw := append([]byte{0x00, 0x01}, []byte("Pompe doseuse 5 l/h")...)
	raw = append(raw, 0x00, 0x02)
	raw = append(raw, []byte("ab")...) // too short, dropped
	raw = append(raw, 0x00)
	raw = append(raw, []byte("Vanne guillotine DN80")...)

	got := salvagePrintableRuns(raw)
	assert.Contains(t, got, "Pompe doseuse 5 l/h")
	assert.Contains(t, got, "Vanne guillotine DN80")
	assert.NotContains(t, got, "ab\n")
}

func TestParseCSVGridSemicolonSniff(t *testing.T) {
	data := []byte("désignation;quantité;réf\nVanne papillon DN100;4;VP-100\n")
	grid, err := parseCSVGrid(data)
	require.NoError(t, err)
	require.Len(t, grid, 1)
	require.Len(t, grid[0], 2)
	assert.Equal(t, []string{"Vanne papillon DN100", "4", "VP-100"}, grid[0][1])
}

func TestParseCSVGridComma(t *testing.T) {
	data := []byte("description,qty\nSeal kit,2\n")
	grid, err := parseCSVGrid(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Seal kit", "2"}, grid[0][1])
}
