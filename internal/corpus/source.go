package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Record is one raw row from the corpus source, before structural
// validation. Field parsing belongs to the source; deciding whether the
// row makes a valid Question belongs to the Repository.
type Record struct {
	ID            string
	Category      string
	QuestionType  string
	Year          string
	Prompt        string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption string
}

// Source hands the Repository the full record set in one call.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

const csvFieldCount = 10

// CSVSource reads the question corpus from a CSV file with the columns
// id, category, question_type, year, prompt, option_a..option_d,
// correct_option. A leading header row is skipped.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Records(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = csvFieldCount
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read corpus file %s: %w", s.Path, err)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], "id") {
			continue
		}
		records = append(records, Record{
			ID:            row[0],
			Category:      row[1],
			QuestionType:  row[2],
			Year:          row[3],
			Prompt:        row[4],
			OptionA:       row[5],
			OptionB:       row[6],
			OptionC:       row[7],
			OptionD:       row[8],
			CorrectOption: row[9],
		})
	}
	return records, nil
}
