package constants

// ExtractionMethod tags how a document's text was obtained.
// Stable values (they end up in the JSON output contract).
const (
	MethodLayoutTool        = "layout-tool"       // pdftotext -layout
	MethodLibraryParser     = "library-parser"    // pure-Go PDF parse
	MethodOCR               = "ocr"               // tesseract, possibly after rotation search
	MethodFilenameHeuristic = "filename-heuristic" // mined from the filename alone
	MethodSpreadsheet       = "spreadsheet"
	MethodWord              = "word"
	MethodText              = "text"
)
