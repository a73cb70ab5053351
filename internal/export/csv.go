package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/clockr/internal/session"
)

// ToCSV writes the same two-table report as ToXLSX, flattened into one
// CSV stream.
func ToCSV(rec session.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, row := range reportRows(rec) {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
