package utils

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVToMap reads a two column CSV file (header row first) and returns the first column as key
// and the second as value. Rows with an empty value are skipped.
func CSVToMap(filePath string) (map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open the file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read the file: %v", err)
	}

	data := make(map[string]string)

	for i, row := range rows {
		if i == 0 {
			// Skip header row
			continue
		}
		if len(row) < 2 {
			continue
		}

		key := row[0]
		value := row[1]
		if value == "" {
			continue
		}
		data[key] = value
	}

	return data, nil
}
