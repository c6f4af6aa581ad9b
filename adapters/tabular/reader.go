package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"salespulse/domain/series"
	"salespulse/internal"
	"salespulse/internal/errors"
)

// Table is a loaded tabular file: trimmed headers plus string records.
type Table struct {
	Columns []string
	Records [][]string
}

// Reader loads CSV and Excel sales exports.
type Reader struct {
	filePath string
	fileType string // "csv" or "xlsx"
	logger   *internal.Logger
}

// NewReader creates a reader for the given file. The extension selects
// the format; anything that is not .xlsx is treated as CSV.
func NewReader(filePath string) *Reader {
	fileType := "csv"
	if strings.ToLower(filepath.Ext(filePath)) == ".xlsx" {
		fileType = "xlsx"
	}
	return &Reader{filePath: filePath, fileType: fileType, logger: internal.DefaultLogger}
}

// Read loads the file into a Table. A file with headers but no data rows
// is a valid empty table; a missing or unreadable file is an input error.
func (r *Reader) Read() (*Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.InputErrorf("input file not found: %s", r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.InputErrorf("input file %s has no header row", r.filePath)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make([]string, len(headers))
		for j := range headers {
			if j < len(row) {
				record[j] = strings.TrimSpace(row[j])
			}
		}
		records = append(records, record)
	}

	r.logger.Info("[Tabular] %s file loaded (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(records))
	return &Table{Columns: headers, Records: records}, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(errors.InputErrorf("failed to open CSV file %s", r.filePath), err.Error())
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.InputError("malformed CSV input"), err.Error())
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(errors.InputErrorf("failed to open Excel file %s", r.filePath), err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InputErrorf("Excel file %s has no sheets", r.filePath)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.InputErrorf("failed to read sheet %s", sheets[0]), err.Error())
	}
	return rows, nil
}

// Rows applies a column mapping to the table, producing raw pipeline
// rows. A mapped column absent from the header is a config error; a
// non-numeric value cell is an input error naming the offending value.
func (t *Table) Rows(mapping ColumnMapping) ([]series.RawRow, error) {
	dateIdx, err := t.columnIndex(mapping.DateColumn, "date")
	if err != nil {
		return nil, err
	}
	valueIdx, err := t.columnIndex(mapping.ValueColumn, "value")
	if err != nil {
		return nil, err
	}
	entityIdx, err := t.columnIndex(mapping.EntityColumn, "entity")
	if err != nil {
		return nil, err
	}

	rows := make([]series.RawRow, 0, len(t.Records))
	for _, record := range t.Records {
		value, err := parseNumeric(record[valueIdx])
		if err != nil {
			return nil, errors.InputErrorf("non-numeric value %q in column %q", record[valueIdx], mapping.ValueColumn)
		}
		rows = append(rows, series.RawRow{
			EntityID: record[entityIdx],
			Date:     record[dateIdx],
			Value:    value,
		})
	}
	return rows, nil
}

func (t *Table) columnIndex(name, role string) (int, error) {
	if name == "" {
		return 0, errors.ConfigError(fmt.Sprintf("no %s column selected", role))
	}
	for i, col := range t.Columns {
		if col == name {
			return i, nil
		}
	}
	return 0, errors.ConfigError(fmt.Sprintf("selected %s column %q not present in input", role, name))
}

// parseNumeric tolerates currency formatting: leading symbols and
// thousands separators are stripped before parsing.
func parseNumeric(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(cleaned, 64)
}
