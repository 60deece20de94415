package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Format identifies a supported input file format
type Format string

const (
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatTXT     Format = "txt"
	FormatJSON    Format = "json"
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
	FormatUnknown Format = "unknown"
)

// formatDescriptions maps each supported extension to a human label
var formatDescriptions = map[string]string{
	"csv":  "Comma-separated values",
	"tsv":  "Tab-separated values",
	"txt":  "Delimited text",
	"json": "JSON array of records",
	"xlsx": "Excel workbook",
	"xls":  "Legacy Excel workbook",
}

// DetectFormat maps a filename extension to a Format
func DetectFormat(filename string) Format {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "csv":
		return FormatCSV
	case "tsv":
		return FormatTSV
	case "txt":
		return FormatTXT
	case "json":
		return FormatJSON
	case "xlsx":
		return FormatXLSX
	case "xls":
		return FormatXLS
	default:
		return FormatUnknown
	}
}

// SupportedFormats returns the supported extensions in sorted order
func SupportedFormats() []string {
	out := make([]string, 0, len(formatDescriptions))
	for ext := range formatDescriptions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// FormatDescriptions returns extension to description mappings
func FormatDescriptions() map[string]string {
	out := make(map[string]string, len(formatDescriptions))
	for k, v := range formatDescriptions {
		out[k] = v
	}
	return out
}

// Read parses an uploaded file into a Frame based on its extension.
// The reader is consumed fully; callers enforce size limits upstream.
func Read(r io.Reader, filename string) (*Frame, error) {
	format := DetectFormat(filename)
	if format == FormatUnknown {
		ext := strings.TrimPrefix(filepath.Ext(filename), ".")
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s file: %w", format, err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	switch format {
	case FormatCSV:
		return readDelimited(data, ',')
	case FormatTSV:
		return readDelimited(data, '\t')
	case FormatTXT:
		return readText(data)
	case FormatJSON:
		return readJSON(data)
	case FormatXLSX, FormatXLS:
		return readExcel(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// decodeText returns valid UTF-8 text, falling back to a Latin-1
// interpretation when the bytes are not valid UTF-8.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data)
	}

	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}

// readDelimited parses CSV-style text with the given separator
func readDelimited(data []byte, sep rune) (*Frame, error) {
	reader := csv.NewReader(strings.NewReader(decodeText(data)))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing delimited data: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrEmpty
	}
	return New(records[0], records[1:])
}

// readText sniffs the delimiter of a .txt file. Tab wins when present
// in the header line; otherwise runs of whitespace split the fields.
func readText(data []byte) (*Frame, error) {
	text := decodeText(data)
	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}

	if strings.ContainsRune(firstLine, '\t') {
		return readDelimited(data, '\t')
	}
	if strings.ContainsRune(firstLine, ',') {
		return readDelimited(data, ',')
	}

	var records [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, strings.Fields(line))
	}
	if len(records) < 2 {
		return nil, ErrEmpty
	}
	return New(records[0], records[1:])
}

// readJSON parses an array of flat JSON objects
func readJSON(data []byte) (*Frame, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing JSON records: %w", err)
	}
	return FromMaps(records)
}

// readExcel parses the first sheet of a workbook, first row as header
func readExcel(data []byte) (*Frame, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrEmpty
	}
	return New(rows[0], rows[1:])
}
