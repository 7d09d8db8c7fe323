// Package ingest turns uploaded spreadsheets and PDFs into the rows and documents the core
// engines consume.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fiscal-service/internal/core/rows"
	"fiscal-service/internal/core/textnorm"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// maxHeaderSearch bounds how many leading rows are scanned for the header line.
const maxHeaderSearch = 40

var (
	ErrUnsupportedFormat = errors.New("formato de planilha não suportado")
	ErrEmptyWorkbook     = errors.New("planilha sem linhas")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRows loads the first sheet of an .xlsx, .xls or .csv file and returns one row per
// data line keyed by the original header text. The header is the line, among the first
// ones, with the most cells recognised by schema.
func ReadRows(r io.Reader, filename string, schema rows.Schema) ([]rows.Row, error) {
	sheet, err := ReadSheet(r, filename)
	if err != nil {
		return nil, err
	}
	if len(sheet) == 0 {
		return nil, ErrEmptyWorkbook
	}

	canon := rows.NewCanonicalizer(schema)
	headerRowIndex := findHeaderRow(sheet, canon)
	header := sheet[headerRowIndex]

	out := []rows.Row{}
	for i := headerRowIndex + 1; i < len(sheet); i++ {
		line := sheet[i]
		if blankLine(line) || totalLine(line) {
			continue
		}
		row := make(rows.Row, len(header))
		for idx, h := range header {
			h = strings.TrimSpace(h)
			if h == "" || idx >= len(line) {
				continue
			}
			row[h] = strings.TrimSpace(line[idx])
		}
		out = append(out, row)
	}
	return out, nil
}

// ReadSheet returns the raw cells of the first sheet, choosing the loader by extension.
func ReadSheet(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo %s: %w", filename, err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return loadCSV(data)
	case ".xlsx", ".xlsm", ".xls":
		return loadGenericExcel(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// loadCSV reads a ';' separated file. Files that are not valid UTF-8 are decoded as
// ISO-8859-1, the encoding payroll systems export by default.
func loadCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao interpretar CSV: %w", err)
	}
	return records, nil
}

// loadGenericExcel tries excelize first and falls back to the legacy .xls reader.
func loadGenericExcel(data []byte) ([][]string, error) {
	reader := bytes.NewReader(data)

	f, err := excelize.OpenReader(reader)
	if err == nil {
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyWorkbook
		}
		return f.GetRows(sheets[0])
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("erro ao reposicionar leitura da planilha: %w", err)
	}
	workbook, err := xls.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, fmt.Errorf("o arquivo .xls não contém planilhas")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter planilha do arquivo .xls: %w", err)
	}
	var allRows [][]string
	for _, row := range sheet.GetRows() {
		var line []string
		for _, cell := range row.GetCols() {
			line = append(line, cell.GetString())
		}
		allRows = append(allRows, line)
	}
	return allRows, nil
}

// findHeaderRow picks the first line with the highest number of recognised headers.
// Sheets with no recognisable header fall back to the first line.
func findHeaderRow(sheet [][]string, canon *rows.Canonicalizer) int {
	limit := min(len(sheet), maxHeaderSearch)
	best, bestHits := 0, 0
	for i := 0; i < limit; i++ {
		hits := 0
		seen := map[rows.Field]bool{}
		for _, cell := range sheet[i] {
			if f, ok := canon.Resolve(cell); ok && !seen[f] {
				seen[f] = true
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}
	return best
}

func blankLine(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// totalLine reports footer lines such as "TOTAL GERAL" or "Totais".
func totalLine(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		first := textnorm.Fold(cell)
		return first == "TOTAL" || first == "TOTAIS" || strings.HasPrefix(first, "TOTAL GERAL")
	}
	return false
}
