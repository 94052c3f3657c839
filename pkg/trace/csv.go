package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader matches the legacy artifact layout: one header row, then one
// row per sample in insertion order.
var csvHeader = []string{"Angle", "Distance"}

// WriteCSV serializes the samples as CSV. Infinite distances are written as
// "+Inf" and survive a ReadCSV round trip.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Angle, 'g', -1, 64),
			strconv.FormatFloat(s.Distance, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a trace written by WriteCSV, preserving insertion order.
func ReadCSV(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[0] != csvHeader[0] || header[1] != csvHeader[1] {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var samples []Sample
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(samples)+1, err)
		}

		angle, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad angle %q", len(samples)+1, row[0])
		}
		dist, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad distance %q", len(samples)+1, row[1])
		}
		samples = append(samples, Sample{Angle: angle, Distance: dist})
	}
}
