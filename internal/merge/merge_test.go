package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poextract/internal/domain"
	"poextract/internal/merge"
)

func poDoc(items ...*domain.Record) *domain.ExtractionResult {
	return &domain.ExtractionResult{
		DocumentType: domain.DocumentTypePO,
		Header:       domain.RecordOf("po no", "100", "CHAIN", "Acme"),
		Items:        items,
	}
}

func grnDoc(items ...*domain.Record) *domain.ExtractionResult {
	return &domain.ExtractionResult{
		DocumentType: domain.DocumentTypeGRN,
		Header:       domain.RecordOf("GRN no", "G1", "GRN Date", "2024-01-01"),
		Items:        items,
	}
}

func mrnDoc(items ...*domain.Record) *domain.ExtractionResult {
	return &domain.ExtractionResult{
		DocumentType: domain.DocumentTypeMRN,
		Header:       domain.RecordOf("MRN no", "M1"),
		Items:        items,
	}
}

func TestPositional_EndToEndSingleRow(t *testing.T) {
	po := &domain.ExtractionResult{
		Header: domain.RecordOf("po no", "100"),
		Items:  []*domain.Record{domain.RecordOf("Material Description", "Widget", "Quantity", "5")},
	}
	grn := grnDoc(domain.RecordOf("Delivered Qty", "5", "Remarks", "OK"))
	mrn := mrnDoc(domain.RecordOf("Rejected Amount", "0"))

	rows, sum := merge.Positional(po, grn, mrn)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, []string{
		"po no", "Material Description", "Quantity",
		"GRN no", "GRN Date", "Delivered Qty", "Remarks", "MRN no", "Rejected Amount",
	}, row.Keys())
	for _, k := range row.Keys() {
		assert.NotEmpty(t, row.Get(k), "field %q left at placeholder", k)
	}
	assert.Equal(t, "G1", row.Get("GRN no"))
	assert.Equal(t, "2024-01-01", row.Get("GRN Date"))
	assert.Equal(t, "M1", row.Get("MRN no"))
	assert.Equal(t, "0", row.Get("Rejected Amount"))

	assert.Equal(t, merge.Summary{Rows: 1, GRNItems: 1, GRNApplied: 1, MRNItems: 1, MRNApplied: 1}, sum)
}

func TestPositional_MismatchedCounts(t *testing.T) {
	po := poDoc(
		domain.RecordOf("Material Description", "A"),
		domain.RecordOf("Material Description", "B"),
		domain.RecordOf("Material Description", "C"),
	)
	grn := grnDoc(
		domain.RecordOf("Delivered Qty", "1", "Remarks", "r1"),
		domain.RecordOf("Delivered Qty", "2", "Remarks", "r2"),
	)
	mrn := mrnDoc(
		domain.RecordOf("Rejected Amount", "10"),
		domain.RecordOf("Rejected Amount", "20"),
		domain.RecordOf("Rejected Amount", "30"),
		domain.RecordOf("Rejected Amount", "40"),
	)

	rows, sum := merge.Positional(po, grn, mrn)
	require.Len(t, rows, 3)

	assert.Equal(t, "1", rows[0].Get("Delivered Qty"))
	assert.Equal(t, "2", rows[1].Get("Delivered Qty"))
	assert.Equal(t, "G1", rows[1].Get("GRN no"))

	for _, f := range []string{"GRN no", "GRN Date", "Delivered Qty", "Remarks"} {
		v, ok := rows[2].Lookup(f)
		assert.True(t, ok, f)
		assert.Empty(t, v, f)
	}

	assert.Equal(t, "10", rows[0].Get("Rejected Amount"))
	assert.Equal(t, "20", rows[1].Get("Rejected Amount"))
	assert.Equal(t, "30", rows[2].Get("Rejected Amount"))
	for _, r := range rows {
		assert.NotEqual(t, "40", r.Get("Rejected Amount"))
	}

	assert.Equal(t, merge.Summary{
		Rows: 3, GRNItems: 2, GRNApplied: 2, GRNDropped: 0,
		MRNItems: 4, MRNApplied: 3, MRNDropped: 1,
	}, sum)
}

func TestPositional_NoPOItems(t *testing.T) {
	rows, sum := merge.Positional(
		poDoc(),
		grnDoc(domain.RecordOf("Delivered Qty", "1")),
		mrnDoc(domain.RecordOf("Rejected Amount", "1")),
	)
	assert.Empty(t, rows)
	assert.Equal(t, 0, sum.Rows)
	assert.Equal(t, 1, sum.GRNDropped)
	assert.Equal(t, 1, sum.MRNDropped)
}

func TestPositional_RowSeededFromHeaderAndItem(t *testing.T) {
	po := poDoc(domain.RecordOf("Material Description", "Widget", "Quantity", "5"))

	rows, _ := merge.Positional(po, grnDoc(), mrnDoc())
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"po no", "CHAIN", "Material Description", "Quantity",
		"GRN no", "GRN Date", "Delivered Qty", "Remarks", "MRN no", "Rejected Amount",
	}, rows[0].Keys())
	assert.Equal(t, "Acme", rows[0].Get("CHAIN"))
	assert.Equal(t, "", rows[0].Get("GRN no"))
}

func TestPositional_ItemFieldOverridesHeader(t *testing.T) {
	po := &domain.ExtractionResult{
		Header: domain.RecordOf("po no", "100", "SITE", "header-site"),
		Items:  []*domain.Record{domain.RecordOf("SITE", "item-site")},
	}

	rows, _ := merge.Positional(po, nil, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "item-site", rows[0].Get("SITE"))
	assert.Equal(t, []string{"po no", "SITE"}, rows[0].Keys()[:2])
}

func TestPositional_MissingOverlayHeaderKeyIsEmpty(t *testing.T) {
	po := poDoc(domain.RecordOf("Material Description", "A"))
	grn := &domain.ExtractionResult{
		Header: domain.RecordOf("GRN Date", "2024-02-02"),
		Items:  []*domain.Record{domain.RecordOf("Delivered Qty", "7")},
	}

	rows, sum := merge.Positional(po, grn, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Get("GRN no"))
	assert.Equal(t, "2024-02-02", rows[0].Get("GRN Date"))
	assert.Equal(t, "7", rows[0].Get("Delivered Qty"))
	assert.Equal(t, "", rows[0].Get("Remarks"))
	assert.Equal(t, 0, sum.MRNItems)
}

func TestPositional_ExtraItemFieldsIgnored(t *testing.T) {
	po := poDoc(domain.RecordOf("Material Description", "A"))
	grn := grnDoc(domain.RecordOf("Delivered Qty", "1", "Batch", "B-9"))

	rows, _ := merge.Positional(po, grn, nil)
	_, ok := rows[0].Lookup("Batch")
	assert.False(t, ok)
}
