package utils

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// ErrInvalidUTF8 is returned when UTF-8 input contains invalid byte sequences.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw file content in the named encoding to a Go string.
//
// UTF-8 input has a leading byte order mark removed and is rejected when it
// contains invalid sequences. Other encodings are looked up by their WHATWG
// or IANA name ("windows-1252", "ISO-8859-1", "Shift_JIS", ...) and decoded.
func DecodeText(data []byte, encodingName string) (string, error) {
	if encodingName == "" {
		encodingName = "utf-8"
	}

	enc, err := htmlindex.Get(encodingName)
	if err != nil {
		return "", fmt.Errorf("unsupported encoding %q: %w", encodingName, err)
	}

	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", ErrInvalidUTF8
		}
		return string(data), nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", encodingName, err)
	}
	return string(decoded), nil
}
