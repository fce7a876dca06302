package constants

import (
	"path/filepath"
	"strings"
)

// Jenis berkas yang dikenal pipeline upload
const (
	FileKindImage   = "image"
	FileKindPDF     = "pdf"
	FileKindCSV     = "csv"
	FileKindDoc     = "doc"
	FileKindUnknown = "unknown"
)

func DetectFileKindFromExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileKindImage
	case ".pdf":
		return FileKindPDF
	case ".csv":
		return FileKindCSV
	case ".doc", ".docx":
		return FileKindDoc
	default:
		return FileKindUnknown
	}
}
