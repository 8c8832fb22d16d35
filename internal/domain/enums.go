package domain

import "strings"

// DocumentType identifies which procurement document a PDF holds.
type DocumentType string

const (
	DocumentTypePO  DocumentType = "PO"
	DocumentTypeGRN DocumentType = "GRN"
	DocumentTypeMRN DocumentType = "MRN"
)

// AllDocumentTypes returns the document types in processing order.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypePO, DocumentTypeGRN, DocumentTypeMRN}
}

// FormField is the multipart field that carries the upload for this document type.
func (t DocumentType) FormField() string {
	return strings.ToLower(string(t)) + "_file"
}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
}

// RunStatus is the terminal state of one processing run.
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)
