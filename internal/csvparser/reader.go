package csvparser

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Field states of recordReader.
const (
	startField = iota
	inField
	inQuotedField
	quoteInQuotedField
)

// recordReader splits delimited text into records using the lenient
// comma-and-double-quote dialect spreadsheets export:
//
//   - a quote inside an unquoted field is kept literally (5" screen)
//   - text after a closing quote continues the field ("a"b -> ab)
//   - "" inside a quoted field is one quote
//   - quoted fields keep their line breaks byte-for-byte, \r\n included
//   - an unterminated quoted field runs to the end of input
//   - blank lines are skipped
//
// Records end at \n, \r\n or \r outside quotes.
type recordReader struct {
	r     *bufio.Reader
	comma rune

	// line is the current input line; recordLine is where the last record
	// returned by Read started.
	line       int
	recordLine int
}

func newRecordReader(r io.Reader, comma rune) *recordReader {
	return &recordReader{r: bufio.NewReader(r), comma: comma}
}

// Read returns the next non-blank record, or io.EOF.
func (rr *recordReader) Read() ([]string, error) {
	for {
		record, err := rr.readRecord()
		if err != nil {
			return nil, err
		}
		if record != nil {
			return record, nil
		}
	}
}

// readRecord reads one line's worth of record. A blank line yields nil.
func (rr *recordReader) readRecord() ([]string, error) {
	var (
		fields  []string
		field   strings.Builder
		state   = startField
		started bool
	)
	rr.line++
	rr.recordLine = rr.line

	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}

	for {
		c, _, err := rr.r.ReadRune()
		if errors.Is(err, io.EOF) {
			if !started {
				return nil, io.EOF
			}
			endField()
			return fields, nil
		}
		if err != nil {
			return nil, err
		}

		if !started && (c == '\n' || c == '\r') {
			rr.skipLF(c)
			return nil, nil
		}
		started = true

		switch state {
		case startField:
			switch c {
			case '"':
				state = inQuotedField
			case rr.comma:
				endField()
			case '\n', '\r':
				rr.skipLF(c)
				endField()
				return fields, nil
			default:
				field.WriteRune(c)
				state = inField
			}

		case inField:
			switch c {
			case rr.comma:
				endField()
				state = startField
			case '\n', '\r':
				rr.skipLF(c)
				endField()
				return fields, nil
			default:
				field.WriteRune(c)
			}

		case inQuotedField:
			if c == '"' {
				state = quoteInQuotedField
				continue
			}
			if c == '\n' {
				rr.line++
			}
			field.WriteRune(c)

		case quoteInQuotedField:
			switch c {
			case '"':
				field.WriteRune('"')
				state = inQuotedField
			case rr.comma:
				endField()
				state = startField
			case '\n', '\r':
				rr.skipLF(c)
				endField()
				return fields, nil
			default:
				field.WriteRune(c)
				state = inField
			}
		}
	}
}

// skipLF consumes the \n of a \r\n terminator.
func (rr *recordReader) skipLF(c rune) {
	if c != '\r' {
		return
	}
	next, _, err := rr.r.ReadRune()
	if err == nil && next != '\n' {
		rr.r.UnreadRune()
	}
}
