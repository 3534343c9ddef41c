// Package charset decodes raw export bytes into UTF-8.
//
// The exports come out of a spreadsheet tool whose declared encoding does not
// always match what it writes. Decode takes the bytes as UTF-8 when they are
// valid and otherwise decodes them once as ISO-8859-1. There is no second
// fallback.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects how input bytes are interpreted.
type Mode string

const (
	// Auto keeps valid UTF-8 and falls back to Latin-1 otherwise.
	Auto Mode = "auto"
	// UTF8 requires valid UTF-8.
	UTF8 Mode = "utf-8"
	// Latin1 always decodes as ISO-8859-1.
	Latin1 Mode = "latin-1"
)

// Encoding names the encoding that was actually used.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "iso-8859-1"
)

// ErrInvalidUTF8 is returned in UTF8 mode when the input is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("input is not valid utf-8")

const utf8BOM = "\uFEFF"

// ParseMode maps a configuration string onto a Mode. The empty string is Auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "utf-8", "utf8":
		return UTF8, nil
	case "latin-1", "latin1", "iso-8859-1":
		return Latin1, nil
	default:
		return "", fmt.Errorf("unknown encoding %q", s)
	}
}

// Decode returns raw as UTF-8 bytes with any leading BOM removed.
func Decode(raw []byte, mode Mode) ([]byte, Encoding, error) {
	switch mode {
	case Latin1:
		out, err := decodeLatin1(raw)
		return out, EncodingLatin1, err
	case UTF8:
		if !utf8.Valid(raw) {
			return nil, "", ErrInvalidUTF8
		}
		return stripBOM(raw), EncodingUTF8, nil
	case Auto, "":
		if utf8.Valid(raw) {
			return stripBOM(raw), EncodingUTF8, nil
		}
		out, err := decodeLatin1(raw)
		return out, EncodingLatin1, err
	default:
		return nil, "", fmt.Errorf("unknown encoding mode %q", mode)
	}
}

// ReadAll drains r and decodes it with Decode.
func ReadAll(r io.Reader, mode Mode) ([]byte, Encoding, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read: %w", err)
	}
	return Decode(raw, mode)
}

// NormalizeHeader trims a header cell and puts it in NFC form so that
// composed and decomposed spellings of the same name compare equal.
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), utf8BOM)
	return norm.NFC.String(strings.TrimSpace(s))
}

func decodeLatin1(raw []byte) ([]byte, error) {
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("decode latin-1: %w", err)
	}
	return stripBOM(out), nil
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte(utf8BOM))
}
