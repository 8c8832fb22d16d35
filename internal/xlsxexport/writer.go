package xlsxexport

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"poextract/internal/domain"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DefaultFileName is the download name used when none is configured.
const DefaultFileName = "PO_GRN_MRN_Extracted.xlsx"

// DefaultSheetName is the name of the only sheet in the workbook.
const DefaultSheetName = "Sheet1"

// CheckSheetName reports whether name can be used as the sheet name, using
// the same rules excelize applies when renaming. Empty means DefaultSheetName.
func CheckSheetName(name string) error {
	if name == "" {
		return nil
	}
	switch {
	case len(utf16.Encode([]rune(name))) > excelize.MaxSheetNameLength:
		return excelize.ErrSheetNameLength
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return excelize.ErrSheetNameSingleQuote
	case strings.ContainsAny(name, ":\\/?*[]"):
		return excelize.ErrSheetNameInvalid
	}
	return nil
}

// Columns returns the union of all row keys in first-seen order.
func Columns(rows []*domain.Record) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range rows {
		for _, k := range r.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// Render writes rows to a single-sheet workbook and returns its bytes.
// The first row holds the column names; every cell is written as a string.
// A row without a given column gets an empty cell. There is no index column.
func Render(rows []*domain.Record, sheet string) ([]byte, error) {
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheet); err != nil {
			return nil, eris.Wrapf(err, "xlsxexport: name sheet %q", sheet)
		}
	}

	cols := Columns(rows)
	for c, name := range cols {
		if err := setString(f, sheet, c+1, 1, name); err != nil {
			return nil, err
		}
	}
	for r, row := range rows {
		for c, name := range cols {
			v, ok := row.Lookup(name)
			if !ok {
				continue
			}
			if err := setString(f, sheet, c+1, r+2, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, eris.Wrap(err, "xlsxexport: write workbook")
	}
	return buf.Bytes(), nil
}

func setString(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return eris.Wrap(err, "xlsxexport: cell name")
	}
	if err := f.SetCellStr(sheet, cell, value); err != nil {
		return eris.Wrapf(err, "xlsxexport: set %s", cell)
	}
	return nil
}

// nonFilename matches characters that are not safe in a download filename.
var nonFilename = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a configured workbook name for Content-Disposition.
// Unsafe characters become "_", runs of "_" collapse, and the result is capped
// at 100 chars.
func SanitizeFilename(name string) string {
	s := nonFilename.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_.")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the sanitized download name, always ending in .xlsx.
// An empty result falls back to DefaultFileName.
func BuildFilename(name string) string {
	s := SanitizeFilename(strings.TrimSuffix(strings.TrimSpace(name), ".xlsx"))
	if s == "" {
		return DefaultFileName
	}
	return s + ".xlsx"
}
