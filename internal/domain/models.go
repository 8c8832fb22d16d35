package domain

// Overlay field names written onto PO-seeded rows.
const (
	FieldGRNNo          = "GRN no"
	FieldGRNDate        = "GRN Date"
	FieldDeliveredQty   = "Delivered Qty"
	FieldRemarks        = "Remarks"
	FieldMRNNo          = "MRN no"
	FieldRejectedAmount = "Rejected Amount"
)

// OverlayFields lists the GRN/MRN placeholders every merged row starts with, in column order.
var OverlayFields = []string{
	FieldGRNNo,
	FieldGRNDate,
	FieldDeliveredQty,
	FieldRemarks,
	FieldMRNNo,
	FieldRejectedAmount,
}

// ExtractionResult is the structured data the model returned for one document.
// Keys are trusted as returned; nothing checks them against the schema.
type ExtractionResult struct {
	DocumentType DocumentType `json:"document_type"`
	Header       *Record      `json:"header"`
	Items        []*Record    `json:"items"`
}
