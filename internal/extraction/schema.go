package extraction

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"poextract/internal/domain"
)

// Schema is the extraction template for one document type: header field
// names and the field names of a single line item, both in prompt order.
type Schema struct {
	Header []string
	Item   []string
}

var schemas = map[domain.DocumentType]Schema{
	domain.DocumentTypePO: {
		Header: []string{
			"CHAIN",
			"SITE",
			"STATE",
			"Vendor Code",
			"vendor name",
			"po no",
			"po date",
			"DELIVERY DATE",
		},
		Item: []string{
			"Material Description",
			"Quantity",
			"total pcs",
			"Base Cost",
			"Total Base Value",
		},
	},
	domain.DocumentTypeGRN: {
		Header: []string{domain.FieldGRNNo, domain.FieldGRNDate},
		Item:   []string{domain.FieldDeliveredQty, domain.FieldRemarks},
	},
	domain.DocumentTypeMRN: {
		Header: []string{domain.FieldMRNNo},
		Item:   []string{domain.FieldRejectedAmount},
	},
}

// SchemaFor returns the fixed schema for docType. Unknown types get the MRN
// schema, mirroring the catch-all branch of the prompt variants.
func SchemaFor(docType domain.DocumentType) Schema {
	if s, ok := schemas[docType]; ok {
		return s
	}
	return schemas[domain.DocumentTypeMRN]
}

// JSON renders the schema as a two-space indented template with empty
// placeholder values: {"header": {...}, "items": [{...}]}.
func (s Schema) JSON() (string, error) {
	header := orderedmap.New[string, string]()
	for _, f := range s.Header {
		header.Set(f, "")
	}
	item := orderedmap.New[string, string]()
	for _, f := range s.Item {
		item.Set(f, "")
	}

	tmpl := orderedmap.New[string, any]()
	tmpl.Set("header", header)
	tmpl.Set("items", []*orderedmap.OrderedMap[string, string]{item})

	out, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
