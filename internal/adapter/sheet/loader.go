// Package sheet reads incident registers from spreadsheet files into raw
// tables.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither workbooks
	// nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoHeader is returned when the first row of the sheet is empty.
	ErrNoHeader = errors.New("no header row")
	// ErrSheetNotFound is returned when the requested worksheet is absent.
	ErrSheetNotFound = errors.New("sheet not found")
)

// Options controls how a file is read.
type Options struct {
	// Sheet names the worksheet to read. The first sheet is used when empty.
	Sheet string
}

// Supported reports whether filename has an extension Load can read.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, opts Options) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, filepath.Base(path), opts)
}

// Load reads a whole register. The format is chosen by the extension of
// filename. The first row is the header; fully blank rows are skipped. Either
// the whole table is returned or an error.
func Load(r io.Reader, filename string, opts Options) (domain.RawTable, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(r, opts.Sheet)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return domain.RawTable{}, fmt.Errorf("load %q: %w", filename, ErrUnsupportedFormat)
	}
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("load %q: %w", filename, err)
	}

	t, err := tableFromRows(rows)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("load %q: %w", filename, err)
	}
	return t, nil
}

func readWorkbook(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrSheetNotFound
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fmt.Errorf("%q: %w", sheet, ErrSheetNotFound)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

var utf8BOM = []byte("\ufeff")

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// sniffDelimiter picks ';' when the header line has more semicolons than
// commas. Registers exported with a Russian locale use ';'.
func sniffDelimiter(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func tableFromRows(rows [][]string) (domain.RawTable, error) {
	if len(rows) == 0 || isBlankRow(rows[0]) {
		return domain.RawTable{}, ErrNoHeader
	}

	columns := uniqueHeaders(rows[0])
	t := domain.RawTable{Columns: columns, Rows: make([]domain.RawRecord, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(domain.RawRecord, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// uniqueHeaders names blank headers "unnamed: N" and suffixes repeated ones
// with ".1", ".2" and so on.
func uniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "unnamed: " + strconv.Itoa(i)
		}
		if seen[name] > 0 {
			base := name
			for n := seen[base]; ; n++ {
				candidate := base + "." + strconv.Itoa(n)
				if seen[candidate] == 0 {
					name = candidate
					seen[base] = n + 1
					break
				}
			}
		}
		seen[name]++
		out[i] = name
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Reader loads files with fixed options. It implements pipeline.Loader.
type Reader struct {
	opts Options
}

// NewReader returns a Reader that applies opts to every file.
func NewReader(opts Options) *Reader {
	return &Reader{opts: opts}
}

// Load reads one file.
func (r *Reader) Load(rd io.Reader, filename string) (domain.RawTable, error) {
	return Load(rd, filename, r.opts)
}
