package domain

import "errors"

var (
	ErrConfigMissing       = errors.New("configuration is missing")
	ErrMissingUpload       = errors.New("please upload PO, GRN and MRN PDFs")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrInvalidPDF          = errors.New("file is not a readable PDF")
	ErrMalformedResponse   = errors.New("model response is not valid JSON")
	ErrInferenceFailed     = errors.New("inference call failed")
	ErrUnknownProvider     = errors.New("unknown inference provider")
)
