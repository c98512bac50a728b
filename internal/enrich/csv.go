package enrich

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

// ParseLeadsCSV reads a lead-export CSV and returns parsed leads. Columns
// are matched by header name, case-insensitively; only "name" is
// required. Rows are deduplicated by website, and leads without an id
// column get a generated one.
func ParseLeadsCSV(csvPath string) ([]model.Lead, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read")
	}

	if len(records) < 2 {
		return nil, eris.New("csv: no data rows")
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	if _, ok := colIdx["name"]; !ok {
		return nil, eris.New(`csv: missing required column "name"`)
	}

	seen := make(map[string]bool)
	var leads []model.Lead

	for _, row := range records[1:] {
		name := getCol(row, colIdx, "name")
		if name == "" {
			continue
		}

		website := strings.ToLower(getCol(row, colIdx, "website"))
		if website != "" {
			if seen[website] {
				continue
			}
			seen[website] = true
		}

		id := getCol(row, colIdx, "id")
		if id == "" {
			id = uuid.New().String()
		}

		leads = append(leads, model.Lead{
			ID:           id,
			Name:         name,
			Address:      getCol(row, colIdx, "address"),
			City:         getCol(row, colIdx, "city"),
			State:        getCol(row, colIdx, "state"),
			Website:      website,
			ContactName:  getCol(row, colIdx, "contact_name"),
			ContactEmail: getCol(row, colIdx, "contact_email"),
			ContactPhone: getCol(row, colIdx, "contact_phone"),
			BusinessType: getCol(row, colIdx, "business_type"),
		})
	}

	if len(leads) == 0 {
		return nil, eris.New("csv: no valid leads found")
	}

	return leads, nil
}

// getCol safely retrieves a column value from a CSV row.
func getCol(row []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
