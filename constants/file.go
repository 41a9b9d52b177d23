package constants

import "strings"

// DocumentFormat is the coarse format class used by the extraction dispatcher.
type DocumentFormat string

const (
	PDF         DocumentFormat = "PDF"
	SPREADSHEET DocumentFormat = "SPREADSHEET"
	WORD        DocumentFormat = "WORD"
	IMAGE       DocumentFormat = "IMAGE"
	TEXT        DocumentFormat = "TEXT"
)

// AllowedExtensions holds the file extensions the batch ingester accepts.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"xlsx": {},
	"xls":  {},
	"csv":  {},
	"docx": {},
	"doc":  {},
	"txt":  {},
	"eml":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its format class.
// Dispatch is by extension, not declared content type: declared types are
// unreliable in this corpus (mail gateways routinely mislabel attachments).
func MapExtToFormat(ext string) DocumentFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "xlsx", "xls", "csv":
		return SPREADSHEET
	case "docx", "doc":
		return WORD
	case "jpg", "jpeg", "png", "tif", "tiff", "bmp":
		return IMAGE
	case "txt", "eml":
		return TEXT
	default:
		return ""
	}
}
