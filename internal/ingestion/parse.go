package ingestion

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// parseTable decodes the upload into trimmed data rows. The first
// non-blank row is always treated as the header and dropped without
// being validated; blank lines are dropped and never counted.
func parseTable(fileName string, payload []byte) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload)
	case ".xlsx":
		return parseExcel(payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) ([][]string, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return dataRows(records, blankLine), nil
}

func parseExcel(payload []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return dataRows(records, blankRow), nil
}

// dataRows drops rows matched by skip, treats the first remaining row as
// the header, and trims the rest. CSV skips only truly blank lines, so a
// delimiter-only row like ",,,," stays in and gets rejected downstream;
// xlsx skips any all-empty row since sheets pad with them.
func dataRows(records [][]string, skip func([]string) bool) [][]string {
	var rows [][]string
	headerSeen := false
	for _, record := range records {
		trimmed := trimRow(record)
		if skip(trimmed) {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		rows = append(rows, trimmed)
	}
	return rows
}

func trimRow(row []string) []string {
	trimmed := make([]string, len(row))
	for i, cell := range row {
		trimmed[i] = strings.TrimSpace(cell)
	}
	return trimmed
}

// blankLine matches CSV records produced by empty or whitespace-only
// lines. A record with more than one field came from a delimited line
// and is data even when every field is empty.
func blankLine(row []string) bool {
	return len(row) == 0 || (len(row) == 1 && row[0] == "")
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}
