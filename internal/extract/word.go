package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type wordDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    wordBody `xml:"body"`
}

type wordBody struct {
	Paragraphs []wordParagraph `xml:"p"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text string `xml:"t"`
}

// parseDOCX pulls raw text out of word/document.xml inside the DOCX archive.
func parseDOCX(data []byte) (string, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx as zip: %w", err)
	}

	var documentFile *zip.File
	for _, file := range zipReader.File {
		if file.Name == "word/document.xml" {
			documentFile = file
			break
		}
	}
	if documentFile == nil {
		return "", fmt.Errorf("document.xml not found in docx")
	}

	xmlFile, err := documentFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer xmlFile.Close()

	xmlData, err := io.ReadAll(xmlFile)
	if err != nil {
		return "", fmt.Errorf("read document.xml: %w", err)
	}

	var doc wordDocument
	if err := xml.Unmarshal(xmlData, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}

	var b strings.Builder
	for _, para := range doc.Body.Paragraphs {
		for _, run := range para.Runs {
			b.WriteString(run.Text)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

// salvagePrintableRuns pulls readable fragments out of legacy binary .doc
// files: runs of printable characters of four or more, one per line. Crude,
// but enough for the line templates to pick over.
func salvagePrintableRuns(data []byte) string {
	var b strings.Builder
	var run []rune
	flush := func() {
		if len(run) >= 4 {
			b.WriteString(strings.TrimSpace(string(run)))
			b.WriteByte('\n')
		}
		run = run[:0]
	}
	for _, r := range string(data) {
		if unicode.IsPrint(r) && r != 0xFFFD {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return b.String()
}
