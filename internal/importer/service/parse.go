package service

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/smallbiznis/rentfolio/internal/importer/domain"
	"github.com/xuri/excelize/v2"
)

type fileFormat string

const (
	formatCSV  fileFormat = "csv"
	formatXLSX fileFormat = "xlsx"
)

func detectFormat(fileName string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		return formatCSV, nil
	case ".xlsx":
		return formatXLSX, nil
	}
	return "", domain.ErrUnsupportedFormat
}

// saveUpload spools the request body to a temp file so parsing and the later
// execute call can both read it. The extension is preserved for format
// detection on re-reads.
func saveUpload(reader io.Reader, fileName string, maxBytes int64) (string, error) {
	tmp, err := os.CreateTemp("", "rentfolio-import-*"+strings.ToLower(filepath.Ext(fileName)))
	if err != nil {
		return "", err
	}

	written, err := io.Copy(tmp, io.LimitReader(reader, maxBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if written > maxBytes {
		os.Remove(tmp.Name())
		return "", domain.ErrFileTooLarge
	}
	if written == 0 {
		os.Remove(tmp.Name())
		return "", domain.ErrEmptyFile
	}
	return tmp.Name(), nil
}

// parseFile reads the stored upload back into a header row plus data rows.
// Rows shorter than the header are padded, longer rows are truncated, and
// rows that are entirely blank are dropped.
func parseFile(path, fileName string) ([]string, [][]string, error) {
	format, err := detectFormat(fileName)
	if err != nil {
		return nil, nil, err
	}

	var records [][]string
	switch format {
	case formatCSV:
		records, err = readCSV(path)
	case formatXLSX:
		records, err = readXLSX(path)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, domain.ErrEmptyFile
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if blankRow(record) {
			continue
		}
		row := make([]string, len(headers))
		copy(row, record)
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrEmptyFile
	}
	return f.GetRows(sheets[0])
}

func blankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
