package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// CSVStore reads the maintenance log from a local CSV export. Used for
// development and offline runs.
type CSVStore struct {
	path string
}

// NewCSVStore creates a CSV file backed store.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// FetchAll reads every row of the CSV file. The first row is the header.
func (s *CSVStore) FetchAll(ctx context.Context) ([]map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows

	raw, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rowsFromValues(raw), nil
}

var _ Store = (*CSVStore)(nil)
