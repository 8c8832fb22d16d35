package extraction

import (
	"fmt"

	"github.com/rotisserie/eris"

	"poextract/internal/domain"
)

// Per-type rules that disambiguate the source layouts. These are business
// rules and must stay word-for-word.
const (
	poInstructions = `
- Extract item-wise data exactly as visible
- CHAIN is the company name written at the top
- Base Cost MUST come only from the column labeled "Base Cost"
- Do NOT use MRP
`

	grnInstructions = `
VERY IMPORTANT – FOLLOW EXACTLY:

1. Delivered Qty MUST be taken from the column labeled "Accepted Qty / MRP"
2. This column has TWO values:
   - TOP value = Accepted Quantity → USE THIS AS Delivered Qty
   - BOTTOM value = MRP → IGNORE THIS COMPLETELY
3. Remarks MUST be taken from the column labeled:
   "Reason - Short Description"
4. Extract ONE item per table row
5. Do NOT use Challan Qty
6. Do NOT use Received Qty
7. Do NOT use totals
`

	mrnInstructions = `
- Extract Rejected Amount from MRN item table
- Use the Total Amount for the rejected material
- Do NOT infer or calculate values
`
)

const promptTemplate = `
You are an expert at reading Indian %s PDFs.

%s

Extract data EXACTLY as per the schema.
Return STRICT JSON ONLY.

Schema:
%s

PDF Text:
<<<
%s
>>>
`

// InstructionsFor returns the extraction rules for docType. Anything that is
// not PO or GRN gets the MRN rules.
func InstructionsFor(docType domain.DocumentType) string {
	switch docType {
	case domain.DocumentTypePO:
		return poInstructions
	case domain.DocumentTypeGRN:
		return grnInstructions
	default:
		return mrnInstructions
	}
}

// BuildPrompt assembles the role statement, the type-specific rules, the
// schema template and the raw PDF text between <<< and >>> markers.
func BuildPrompt(docType domain.DocumentType, pdfText string) (string, error) {
	schemaJSON, err := SchemaFor(docType).JSON()
	if err != nil {
		return "", eris.Wrapf(err, "extraction: render %s schema", docType)
	}
	return fmt.Sprintf(promptTemplate, docType, InstructionsFor(docType), schemaJSON, pdfText), nil
}
