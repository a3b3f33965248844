// Package dataset parses energy consumption CSV files into datasets.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/energy-analytics/internal/domain/model"
)

// Required column names, matched case-insensitively.
const (
	TimestampColumn   = "timestamp"
	ConsumptionColumn = "consumption"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-like forms accepted in the timestamp column.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// LoadFile reads and parses the CSV at path. A missing file yields
// ErrDatasetAbsent so callers can treat it as "no data" rather than a failure.
func LoadFile(path string) (model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Dataset{}, fmt.Errorf("%w: %s", ErrDatasetAbsent, path)
		}
		return model.Dataset{}, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads CSV content with a header row containing at least the
// timestamp and consumption columns. Row order is preserved. Missing or
// non-finite consumption values are kept as NaN gaps; other non-numeric
// values are rejected.
func Parse(r io.Reader, source string) (model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Dataset{}, &DataFormatError{Source: source, Reason: "file is empty; a header row is required"}
		}
		return model.Dataset{}, csvError(source, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	tsIdx, consIdx := -1, -1
	columns := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		columns[i] = name
		switch strings.ToLower(name) {
		case TimestampColumn:
			if tsIdx < 0 {
				tsIdx = i
			}
		case ConsumptionColumn:
			if consIdx < 0 {
				consIdx = i
			}
		}
	}
	if tsIdx < 0 {
		return model.Dataset{}, &DataFormatError{Source: source, Line: 1, Column: TimestampColumn, Reason: "missing required column"}
	}
	if consIdx < 0 {
		return model.Dataset{}, &DataFormatError{Source: source, Line: 1, Column: ConsumptionColumn, Reason: "missing required column"}
	}

	ds := model.Dataset{Columns: columns, Source: source, LoadedAt: time.Now()}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Dataset{}, csvError(source, err)
		}
		line, _ := cr.FieldPos(0)

		if isBlank(row) {
			continue
		}

		ts, err := ParseTimestamp(row[tsIdx])
		if err != nil {
			return model.Dataset{}, &DataFormatError{
				Source: source, Line: line, Column: columns[tsIdx], Value: row[tsIdx],
				Reason: "timestamp is not a recognised date-time", Err: err,
			}
		}
		value, err := parseConsumption(row[consIdx])
		if err != nil {
			return model.Dataset{}, &DataFormatError{
				Source: source, Line: line, Column: columns[consIdx], Value: row[consIdx],
				Reason: "consumption is not numeric", Err: err,
			}
		}

		rec := model.Record{Timestamp: ts, Consumption: value}
		for i, v := range row {
			if i == tsIdx || i == consIdx {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string, len(row)-2)
			}
			rec.Extra[columns[i]] = v
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// missingMarkers are cell values read as a missing reading, compared
// case-insensitively after trimming.
var missingMarkers = map[string]bool{
	"": true, "na": true, "n/a": true, "#n/a": true, "<na>": true, "null": true, "none": true,
}

// parseConsumption reads a consumption cell. Empty cells, missing markers and
// non-finite numbers (NaN, Inf) become NaN, a gap in the series.
func parseConsumption(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if missingMarkers[strings.ToLower(cell)] {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), nil
	}
	return v, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// csvError maps encoding/csv failures (bad quoting, field count) onto DataFormatError.
func csvError(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &DataFormatError{Source: source, Line: pe.Line, Reason: pe.Err.Error(), Err: err}
	}
	return &DataFormatError{Source: source, Reason: err.Error(), Err: err}
}
