// Package merge folds GRN and MRN extractions onto PO line items by position.
//
// Item N of each document is assumed to describe the same goods line. Nothing
// verifies that assumption; a missing or reordered item shifts every later row.
package merge

import (
	"poextract/internal/domain"
)

// Summary describes how many GRN/MRN items found a PO row.
type Summary struct {
	Rows       int `json:"rows"`
	GRNItems   int `json:"grn_items"`
	GRNApplied int `json:"grn_applied"`
	GRNDropped int `json:"grn_dropped"`
	MRNItems   int `json:"mrn_items"`
	MRNApplied int `json:"mrn_applied"`
	MRNDropped int `json:"mrn_dropped"`
}

// overlay names the header and item fields one document writes onto a row.
type overlay struct {
	header []string
	item   []string
}

var (
	grnOverlay = overlay{
		header: []string{domain.FieldGRNNo, domain.FieldGRNDate},
		item:   []string{domain.FieldDeliveredQty, domain.FieldRemarks},
	}
	mrnOverlay = overlay{
		header: []string{domain.FieldMRNNo},
		item:   []string{domain.FieldRejectedAmount},
	}
)

// Positional builds one row per PO item and overwrites the GRN/MRN fields of
// row i with GRN/MRN item i. Items past the last PO row are dropped; they never
// create rows. A nil result is treated as a document with no header and no items.
func Positional(po, grn, mrn *domain.ExtractionResult) ([]*domain.Record, Summary) {
	rows := seedRows(po)
	sum := Summary{Rows: len(rows)}

	sum.GRNItems, sum.GRNApplied = apply(rows, grn, grnOverlay)
	sum.GRNDropped = sum.GRNItems - sum.GRNApplied
	sum.MRNItems, sum.MRNApplied = apply(rows, mrn, mrnOverlay)
	sum.MRNDropped = sum.MRNItems - sum.MRNApplied

	return rows, sum
}

func seedRows(po *domain.ExtractionResult) []*domain.Record {
	if po == nil {
		return nil
	}
	rows := make([]*domain.Record, 0, len(po.Items))
	for _, item := range po.Items {
		row := domain.NewRecord()
		row.Merge(po.Header)
		row.Merge(item)
		for _, f := range domain.OverlayFields {
			row.Set(f, "")
		}
		rows = append(rows, row)
	}
	return rows
}

func apply(rows []*domain.Record, doc *domain.ExtractionResult, ov overlay) (items, applied int) {
	if doc == nil {
		return 0, 0
	}
	for i, item := range doc.Items {
		if i >= len(rows) {
			break
		}
		for _, f := range ov.header {
			rows[i].Set(f, doc.Header.Get(f))
		}
		for _, f := range ov.item {
			rows[i].Set(f, item.Get(f))
		}
		applied++
	}
	return len(doc.Items), applied
}
