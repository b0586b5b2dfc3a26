package utils

import (
	"encoding/csv"
	"io"
)

// ParseCSV reads the whole stream into rows. Kiosk offline exports have a
// ragged trailing column on some firmware versions, so per-record field
// count checking is disabled.
func ParseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return records, nil
}
