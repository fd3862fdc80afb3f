package linkage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV reads leverage samples as "wheel_travel_mm,leverage_ratio"
// records. Lines starting with '#' are comments, and a first record that
// does not parse as numbers is treated as a header.
func ReadCSV(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var samples []Sample
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read leverage samples: %w", err)
		}

		travel, errT := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		ratio, errR := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errT != nil || errR != nil {
			if line == 1 {
				continue
			}

			return nil, fmt.Errorf("read leverage samples: record %d: %q", line, strings.Join(rec, ","))
		}
		samples = append(samples, Sample{TravelMm: travel, Ratio: ratio})
	}

	return samples, nil
}

// ReadCSVFile reads leverage samples from the CSV file at path.
func ReadCSVFile(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f)
}
