// Package csvimport reads uploaded CSV files for bulk import: it decodes
// legacy text encodings, matches headers loosely and yields trimmed
// records keyed by canonical column name.
package csvimport

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported by Decode.
const (
	EncodingUTF8BOM     = "utf-8-sig"
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin-1"
	EncodingWindows1252 = "windows-1252"
)

// ErrDecode is returned when no supported encoding can decode the input.
var ErrDecode = errors.New("file could not be decoded as UTF-8, Latin-1 or Windows-1252")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw upload bytes to text. It tries UTF-8 with a byte
// order mark, plain UTF-8, Latin-1 and finally Windows-1252, returning the
// first that succeeds along with its name.
//
// Latin-1 maps every byte, so bytes in 0x80-0x9F decide between the two
// single-byte encodings: text produced by Windows tools (curly quotes,
// dashes, the euro sign) is read as Windows-1252, unless it holds a byte
// Windows-1252 leaves unassigned, in which case Latin-1 is used after all.
func Decode(data []byte) (string, string, error) {
	if rest, ok := bytes.CutPrefix(data, utf8BOM); ok {
		if utf8.Valid(rest) {
			return string(rest), EncodingUTF8BOM, nil
		}
	} else if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}

	// Prefer Windows-1252 only when it can read every byte.
	if hasC1Bytes(data) && !hasUndefinedWindows1252(data) {
		if text, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
			return string(text), EncodingWindows1252, nil
		}
	}

	text, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", ErrDecode
	}
	return string(text), EncodingLatin1, nil
}

func hasC1Bytes(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return true
		}
	}
	return false
}

// hasUndefinedWindows1252 reports bytes with no assigned character in
// Windows-1252.
func hasUndefinedWindows1252(data []byte) bool {
	for _, b := range data {
		switch b {
		case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
			return true
		}
	}
	return false
}
