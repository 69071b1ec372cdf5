package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Template is a downloadable CSV skeleton for one import.
type Template struct {
	Filename string
	Header   []string
	Example  []string
}

// WriteTo writes the header and example row with CRLF line endings.
func (t Template) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	out := csv.NewWriter(cw)
	out.UseCRLF = true
	if err := out.Write(t.Header); err != nil {
		return cw.n, fmt.Errorf("failed to write template header: %w", err)
	}
	if err := out.Write(t.Example); err != nil {
		return cw.n, fmt.Errorf("failed to write template example: %w", err)
	}
	out.Flush()
	return cw.n, out.Error()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
