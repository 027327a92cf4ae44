// Package bom ingests bill-of-materials files and drives batch
// recommendation runs over their components.
package bom

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/bomadvisor/substitute-cli/internal/model"
)

// Column keyword lists, matched case-insensitively as substrings against
// header cells. Bilingual because real BOM sheets are.
var (
	mpnKeywords  = []string{"mpn", "part", "part_number", "part number", "partnumber", "型号", "规格型号", "器件型号"}
	nameKeywords = []string{"name", "component", "component_name", "名称", "元件名称", "器件名称"}
	descKeywords = []string{"description", "desc", "描述", "规格", "说明", "特性"}
)

// mpnShapeRe matches values that mix letters and digits, the usual shape of
// a part number.
var mpnShapeRe = regexp.MustCompile(`[A-Za-z].*\d|\d.*[A-Za-z]`)

// ColumnsInfo reports which header cells were chosen for each field.
type ColumnsInfo struct {
	MPNColumn         string `json:"mpn_column"`
	NameColumn        string `json:"name_column"`
	DescriptionColumn string `json:"description_column"`
}

// ReadComponents parses a .csv or .xlsx BOM file into a de-duplicated
// component list. Rows without a part number are skipped; duplicates are
// dropped by case-sensitive exact match on the part number.
func ReadComponents(path string) ([]model.PartQuery, ColumnsInfo, error) {
	var (
		rows [][]string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, ColumnsInfo{}, eris.Errorf("bom: unsupported file format %q", ext)
	}
	if err != nil {
		return nil, ColumnsInfo{}, err
	}
	if len(rows) == 0 {
		return nil, ColumnsInfo{}, eris.New("bom: file contains no rows")
	}

	header := rows[0]
	body := rows[1:]

	mpnIdx := matchColumn(header, mpnKeywords)
	nameIdx := matchColumn(header, nameKeywords)
	descIdx := matchColumn(header, descKeywords)

	if mpnIdx < 0 {
		mpnIdx = sniffMPNColumn(body)
	}

	// Positional fallback: first three columns in order.
	if mpnIdx < 0 && len(header) >= 1 {
		mpnIdx = 0
	}
	if nameIdx < 0 && len(header) >= 2 && mpnIdx != 1 {
		nameIdx = 1
	}
	if descIdx < 0 && len(header) >= 3 && mpnIdx != 2 && nameIdx != 2 {
		descIdx = 2
	}

	var (
		components []model.PartQuery
		seen       = make(map[string]struct{})
	)
	for _, row := range body {
		mpn := cellAt(row, mpnIdx)
		if mpn == "" {
			continue
		}
		if _, dup := seen[mpn]; dup {
			continue
		}
		seen[mpn] = struct{}{}
		components = append(components, model.PartQuery{
			MPN:         mpn,
			Name:        cellAt(row, nameIdx),
			Description: cellAt(row, descIdx),
		})
	}

	info := ColumnsInfo{
		MPNColumn:         cellAt(header, mpnIdx),
		NameColumn:        cellAt(header, nameIdx),
		DescriptionColumn: cellAt(header, descIdx),
	}
	return components, info, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "bom: open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "bom: parse csv")
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "bom: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("bom: xlsx file has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = strings.TrimSpace(cell.String())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// matchColumn returns the index of the first header cell containing any of
// the keywords, or -1.
func matchColumn(header []string, keywords []string) int {
	for i, cell := range header {
		lower := strings.ToLower(cell)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return i
			}
		}
	}
	return -1
}

// sniffMPNColumn looks for a column whose first few values all mix letters
// and digits.
func sniffMPNColumn(body [][]string) int {
	if len(body) == 0 {
		return -1
	}
	width := len(body[0])
	for col := 0; col < width; col++ {
		samples := 0
		matched := 0
		for _, row := range body {
			if samples >= 5 {
				break
			}
			v := cellAt(row, col)
			if v == "" {
				continue
			}
			samples++
			if mpnShapeRe.MatchString(v) {
				matched++
			}
		}
		if samples > 0 && samples == matched {
			return col
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
