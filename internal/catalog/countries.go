package catalog

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CountryTable maps country codes to country names, keeping table order for listing.
type CountryTable struct {
	byCode map[int]string
	names  []string
}

// Name returns the country for code.
func (t *CountryTable) Name(code int) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.byCode[code]
	return name, ok
}

// Names returns the distinct non-empty country names in table order.
func (t *CountryTable) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// LoadCountryTable reads the country-code workbook at path.
func LoadCountryTable(path string) (*CountryTable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read country table: %w", err)
	}
	return ParseCountryTable(content)
}

// ParseCountryTable reads the first sheet of an xlsx workbook with "Country Code" and
// "Country" header columns.
func ParseCountryTable(content []byte) (*CountryTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("country table has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("country table is empty")
	}

	codeCol, nameCol := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case colCountryCode:
			codeCol = i
		case colCountry:
			nameCol = i
		}
	}
	if codeCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("country table needs %q and %q columns", colCountryCode, colCountry)
	}

	t := &CountryTable{byCode: make(map[int]string)}
	seen := make(map[string]struct{})
	for n, row := range rows[1:] {
		codeText, name := cell(row, codeCol), cell(row, nameCol)
		if codeText == "" {
			continue
		}
		code, err := strconv.Atoi(codeText)
		if err != nil {
			return nil, fmt.Errorf("country table row %d: invalid country code %q", n+2, codeText)
		}
		if _, dup := t.byCode[code]; !dup {
			t.byCode[code] = name
		}
		if name == "" {
			continue
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			t.names = append(t.names, name)
		}
	}
	return t, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
