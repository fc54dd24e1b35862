package ingestion

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSVDiscardsByteOrderMark(t *testing.T) {
	payload := append([]byte{0xEF, 0xBB, 0xBF}, []byte(
		"deal_id,from_currency,to_currency,date_time,amount\n"+
			"DEAL1,USD,EUR,2024-01-15 10:30:00,100.00\n",
	)...)

	rows, err := parseTable("deals.csv", payload)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "DEAL1", rows[0][0])
}

func TestParseCSVTrimsFieldsAndDropsBlankLines(t *testing.T) {
	payload := []byte(
		"deal_id,from_currency,to_currency,date_time,amount\n" +
			"\n" +
			" DEAL1 , USD ,EUR,2024-01-15 10:30:00, 100.00 \n" +
			"   \n",
	)

	rows, err := parseTable("deals.csv", payload)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, []string{"DEAL1", "USD", "EUR", "2024-01-15 10:30:00", "100.00"}, rows[0])
}

func TestParseCSVKeepsDelimiterOnlyRows(t *testing.T) {
	// ",,,," decodes to five empty fields: it is a data row, not a
	// blank line, and must reach validation for an outcome.
	payload := []byte(
		"deal_id,from_currency,to_currency,date_time,amount\n" +
			",,,,\n",
	)

	rows, err := parseTable("deals.csv", payload)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, []string{"", "", "", "", ""}, rows[0])
}

func TestParseExcelSkipsEmptyRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"deal_id", "from_currency", "to_currency", "date_time", "amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"DEAL1", "USD", "EUR", "2024-01-15 10:30:00", "100.00"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, parseErr := parseTable("deals.xlsx", buf.Bytes())
	require.NoError(t, parseErr)
	require.Len(t, rows, 1)
	require.Equal(t, "DEAL1", rows[0][0])
}

func TestParseCSVHeaderIsAlwaysSkipped(t *testing.T) {
	// The first non-blank row is dropped even when it looks like data.
	payload := []byte(
		"DEAL1,USD,EUR,2024-01-15 10:30:00,100.00\n" +
			"DEAL2,EUR,GBP,2024-01-15 10:31:00,50.00\n",
	)

	rows, err := parseTable("deals.csv", payload)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "DEAL2", rows[0][0])
}

func TestParseExcelReadsFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"deal_id", "from_currency", "to_currency", "date_time", "amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"DEAL1", "USD", "EUR", "2024-01-15 10:30:00", "100.00"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, parseErr := parseTable("deals.xlsx", buf.Bytes())
	require.NoError(t, parseErr)
	require.Len(t, rows, 1)
	require.Equal(t, "DEAL1", rows[0][0])
}

func TestParseTableUnsupportedExtension(t *testing.T) {
	_, err := parseTable("deals.json", []byte("{}"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
