// Package tabular converts spreadsheets to and from rows of string cells.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const defaultSheet = "Sheet1"

var (
	ErrUnsupportedFormat = errors.New("unsupported_format")
	ErrEmptyWorkbook     = errors.New("empty_workbook")
)

var xlsxMagic = []byte("PK\x03\x04")

// ParseFormat accepts "xlsx" and "csv" in any case. Empty means xlsx.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Read parses the whole input. The format is sniffed from the content, with
// the file name extension as a hint for empty or ambiguous input. Rows are
// padded with blank cells to the width of the widest row.
func Read(r io.Reader, filename string) ([][]string, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(xlsxMagic))

	format := FormatCSV
	if bytes.Equal(head, xlsxMagic) || (len(head) == 0 && strings.EqualFold(filepath.Ext(filename), FormatXLSX.Extension())) {
		format = FormatXLSX
	}

	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(br)
	default:
		rows, err = readCSV(br)
	}
	if err != nil {
		return nil, err
	}
	return pad(rows), nil
}

// Write encodes rows in format. sheet names the worksheet for xlsx output.
func Write(w io.Writer, format Format, sheet string, rows [][]string) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatXLSX:
		return writeXLSX(w, sheet, rows)
	default:
		return ErrUnsupportedFormat
	}
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func writeCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func writeXLSX(w io.Writer, sheet string, rows [][]string) error {
	book := excelize.NewFile()
	defer book.Close()

	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := book.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := book.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func pad(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows
}
