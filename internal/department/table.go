package department

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// DefaultTable is the built-in department table for the civil
// engineering exam. One canonical category per corpus partition; the
// extra keys are the abbreviations and older spellings that appear in
// bookmarked URLs and old client builds.
func DefaultTable() map[string]string {
	return map[string]string{
		"道路":              "道路",
		"道路部門":            "道路",
		"road":            "道路",
		"土質及び基礎":          "土質及び基礎",
		"土質・基礎":           "土質及び基礎",
		"土質基礎":            "土質及び基礎",
		"土質":              "土質及び基礎",
		"soil":            "土質及び基礎",
		"鋼構造及びコンクリート":     "鋼構造及びコンクリート",
		"鋼構造":             "鋼構造及びコンクリート",
		"鋼コン":             "鋼構造及びコンクリート",
		"コンクリート":          "鋼構造及びコンクリート",
		"河川、砂防及び海岸・海洋":    "河川、砂防及び海岸・海洋",
		"河川砂防":            "河川、砂防及び海岸・海洋",
		"河川":              "河川、砂防及び海岸・海洋",
		"砂防":              "河川、砂防及び海岸・海洋",
		"トンネル":            "トンネル",
		"tunnel":          "トンネル",
		"施工計画、施工設備及び積算":   "施工計画、施工設備及び積算",
		"施工計画":            "施工計画、施工設備及び積算",
		"施工":              "施工計画、施工設備及び積算",
		"建設環境":            "建設環境",
		"環境":              "建設環境",
		"都市及び地方計画":        "都市及び地方計画",
		"都市計画":            "都市及び地方計画",
	}
}

// LoadTable reads a department table from a CSV file with two columns
// per row: identifier, canonical category. A header row starting with
// "identifier" is skipped. Duplicate identifiers mapping to different
// categories are an error; the historical alias files contradicted each
// other, and a silent last-one-wins here reintroduces that ambiguity.
func LoadTable(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open department file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read department file %s: %w", path, err)
	}

	table := make(map[string]string, len(rows))
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], "identifier") {
			continue
		}
		identifier := strings.TrimSpace(row[0])
		category := strings.TrimSpace(row[1])
		if identifier == "" || category == "" {
			return nil, fmt.Errorf("department file %s row %d: empty identifier or category", path, i+1)
		}
		if existing, ok := table[identifier]; ok && existing != category {
			return nil, fmt.Errorf("department file %s: identifier %q maps to both %q and %q",
				path, identifier, existing, category)
		}
		table[identifier] = category
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("department file %s contains no mappings", path)
	}
	return table, nil
}
