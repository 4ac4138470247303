package constants

import (
	"path/filepath"
	"strings"
)

// DocumentKind is the declared media kind of an uploaded document.
type DocumentKind string

const (
	PDF   DocumentKind = "PDF"
	IMAGE DocumentKind = "IMAGE"
)

// AllowedExtensions holds the file extensions accepted for summarization.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tif":  {},
	"tiff": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// IsAllowedFilename reports whether the filename carries one of AllowedExtensions.
func IsAllowedFilename(name string) bool {
	_, ok := AllowedExtensions[NormalizeExt(filepath.Ext(name))]
	return ok
}

// MapExtToKind returns the document kind for an extension, or "" when unsupported.
func MapExtToKind(ext string) DocumentKind {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "png", "jpg", "jpeg", "tif", "tiff":
		return IMAGE
	default:
		return ""
	}
}

// DetectKind decides how a document is extracted: a PDF media type or a .pdf
// name means PDF, anything else goes through OCR as an image.
func DetectKind(filename, mediaType string) DocumentKind {
	if strings.EqualFold(strings.TrimSpace(mediaType), "application/pdf") {
		return PDF
	}
	if MapExtToKind(filepath.Ext(filename)) == PDF {
		return PDF
	}
	return IMAGE
}
