package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedHeader is returned when the header row itself cannot be parsed.
var ErrMalformedHeader = errors.New("malformed CSV header row")

// HeaderError reports required columns missing from the CSV header.
type HeaderError struct {
	Missing []string
	Found   []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("CSV is missing required columns: %s (found: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// RowError is a failure confined to one CSV record. Row is 1-based with
// the header as row 1, so the first data record is row 2.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Columns declares which canonical headers an import needs.
type Columns struct {
	Required []string
	Optional []string
}

// All returns required then optional headers.
func (c Columns) All() []string {
	return append(append([]string{}, c.Required...), c.Optional...)
}

// HeaderIndex maps a canonical header to its column position in the file.
type HeaderIndex map[string]int

// MakeHeaderIndex matches the file's header cells against the canonical
// names, ignoring case and surrounding whitespace. The first matching
// column wins when a header is repeated. It returns a HeaderError if any
// required header is absent.
func MakeHeaderIndex(header []string, cols Columns) (HeaderIndex, error) {
	byKey := make(map[string]int, len(header))
	found := make([]string, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		found = append(found, h)
		key := strings.ToLower(h)
		if _, seen := byKey[key]; !seen {
			byKey[key] = i
		}
	}

	idx := make(HeaderIndex, len(cols.Required)+len(cols.Optional))
	var missing []string
	for _, name := range cols.Required {
		pos, ok := byKey[strings.ToLower(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[name] = pos
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing, Found: found}
	}

	for _, name := range cols.Optional {
		if pos, ok := byKey[strings.ToLower(name)]; ok {
			idx[name] = pos
		}
	}
	return idx, nil
}

// Record is one data row keyed by canonical header, values trimmed.
// Optional headers absent from the file map to "".
type Record map[string]string

// Reader yields records from CSV text after validating its header.
type Reader struct {
	csv   *csv.Reader
	cols  []string
	index HeaderIndex
}

// NewReader reads the header row and builds the header index.
// An empty input yields a HeaderError listing every required header.
func NewReader(r io.Reader, cols Columns) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &HeaderError{Missing: cols.Required, Found: []string{}}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idx, err := MakeHeaderIndex(header, cols)
	if err != nil {
		return nil, err
	}

	return &Reader{csv: cr, cols: cols.All(), index: idx}, nil
}

// Next returns the next non-blank record and its row number, which is
// the line the record starts on (the header is row 1). Blank lines and
// blank records are skipped but still counted. A malformed record is
// returned as a RowError so the caller can record it and keep going. At
// the end of input Next returns io.EOF.
func (r *Reader) Next() (Record, int, error) {
	for {
		fields, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, parseErr.StartLine, RowError{Row: parseErr.StartLine, Err: parseErr.Err}
			}
			return nil, 0, RowError{Err: err}
		}

		if blank(fields) {
			continue
		}

		// encoding/csv drops empty lines, so count rows by line.
		row, _ := r.csv.FieldPos(0)

		rec := make(Record, len(r.cols))
		for _, name := range r.cols {
			if pos, ok := r.index[name]; ok && pos < len(fields) {
				rec[name] = strings.TrimSpace(fields[pos])
			} else {
				rec[name] = ""
			}
		}
		return rec, row, nil
	}
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
