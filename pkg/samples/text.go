package samples

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// isMissing reports whether token marks an absent value.
func isMissing(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "nan", "na", "n/a", "-", "null":
		return true
	default:
		return false
	}
}

func parseValue(token string) (float64, error) {
	if isMissing(token) {
		return math.NaN(), nil
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, token)
	}

	return value, nil
}

// parseText reads whitespace separated numbers. Lines starting with '#'
// are comments.
func parseText(data []byte) (Document, error) {
	var values []float64

	lineNo := 0

	for line := range strings.Lines(string(data)) {
		lineNo++

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		for _, field := range strings.Fields(trimmed) {
			value, err := parseValue(field)
			if err != nil {
				return Document{}, fmt.Errorf("line %d: %w", lineNo, err)
			}

			values = append(values, value)
		}
	}

	return Document{Samples: values}, nil
}

// parseCSV reads one column. A first row that does not parse is a header.
func parseCSV(data []byte, column int) (Document, error) {
	if column < 0 {
		return Document{}, fmt.Errorf("%w: %d", ErrMissingColumn, column)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.ReuseRecord = true

	var values []float64

	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Document{}, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if column >= len(record) {
			return Document{}, fmt.Errorf("line %d: %w: %d of %d", line, ErrMissingColumn, column, len(record))
		}

		value, err := parseValue(record[column])
		if err != nil {
			if row == 0 {
				continue
			}

			return Document{}, fmt.Errorf("line %d: %w", line, err)
		}

		values = append(values, value)
	}

	return Document{Samples: values}, nil
}
