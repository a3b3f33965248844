package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/energy-analytics/internal/domain/dataset"
	"github.com/okian/energy-analytics/internal/domain/model"
)

// WriteCSV writes records with the timestamp,consumption header the
// dashboard reads.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{dataset.TimestampColumn, dataset.ConsumptionColumn}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.Format(time.DateTime),
			strconv.FormatFloat(r.Consumption, 'f', 3, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to path, creating parent directories.
func WriteFile(path string, records []model.Record) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, records)
}
