// Package model contains domain models passed between layers.
package model

import (
	"math"
	"time"
)

// Record is one observation from an energy CSV. A missing meter reading is
// stored as NaN; see HasReading.
type Record struct {
	Timestamp   time.Time         `json:"timestamp"`
	Consumption float64           `json:"consumption"` // kWh
	Extra       map[string]string `json:"extra,omitempty"`
}

// HasReading reports whether the record carries a finite consumption value.
func (r Record) HasReading() bool {
	return !math.IsNaN(r.Consumption) && !math.IsInf(r.Consumption, 0)
}

// Dataset is an ordered sequence of records, kept in file order.
type Dataset struct {
	Records  []Record  `json:"records"`
	Columns  []string  `json:"columns"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.Records) }

// Empty reports whether the dataset has no records.
func (d Dataset) Empty() bool { return len(d.Records) == 0 }

// Gaps counts records without a reading.
func (d Dataset) Gaps() int {
	n := 0
	for _, r := range d.Records {
		if !r.HasReading() {
			n++
		}
	}
	return n
}

// Last returns the final record in file order. ok is false on an empty dataset.
func (d Dataset) Last() (Record, bool) {
	if len(d.Records) == 0 {
		return Record{}, false
	}
	return d.Records[len(d.Records)-1], true
}

// Span returns the earliest and latest timestamps regardless of row order.
func (d Dataset) Span() (from, to time.Time) {
	for i, r := range d.Records {
		if i == 0 || r.Timestamp.Before(from) {
			from = r.Timestamp
		}
		if i == 0 || r.Timestamp.After(to) {
			to = r.Timestamp
		}
	}
	return from, to
}
