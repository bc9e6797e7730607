package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned for input bytes that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in input")

// RecordError reports a read failure while splitting the input into records.
type RecordError struct {
	Line int // 1-based line where the failing record starts
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record on line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

type fieldState int

const (
	startField fieldState = iota
	inField
	inQuotedField
	quoteInQuotedField
)

// RecordReader splits delimited text into records.
//
// A quote only opens a quoted section at the start of a field. Inside it a
// doubled quote stands for one quote and line breaks are kept. Text following
// the closing quote is appended literally up to the next delimiter or line
// end, so `"Granny" Smith` reads as `Granny Smith`. Empty lines are skipped and
// an unterminated quoted field ends at EOF.
type RecordReader struct {
	r     *bufio.Reader
	comma rune
	line  int // newlines consumed so far
}

// NewRecordReader returns a RecordReader splitting fields on comma.
func NewRecordReader(r io.Reader, comma rune) *RecordReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &RecordReader{r: br, comma: comma}
}

// Read returns the next record, or io.EOF when the input is exhausted.
func (rr *RecordReader) Read() ([]string, error) {
	for {
		c, _, err := rr.r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, &RecordError{Line: rr.line + 1, Err: err}
		}
		if c == '\n' || c == '\r' {
			rr.endLine(c)
			continue
		}
		_ = rr.r.UnreadRune()
		break
	}

	start := rr.line + 1
	var (
		record []string
		field  strings.Builder
		state  = startField
	)
	for {
		c, size, err := rr.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return append(record, field.String()), nil
		}
		if err != nil {
			return nil, &RecordError{Line: start, Err: err}
		}
		if c == utf8.RuneError && size == 1 {
			return nil, &RecordError{Line: rr.line + 1, Err: ErrInvalidUTF8}
		}

		switch state {
		case inQuotedField:
			if c == '"' {
				state = quoteInQuotedField
				continue
			}
			if c == '\n' {
				rr.line++
			}
			field.WriteRune(c)
			continue
		case quoteInQuotedField:
			if c == '"' {
				field.WriteRune(c)
				state = inQuotedField
				continue
			}
		case startField:
			if c == '"' {
				state = inQuotedField
				continue
			}
		}

		switch c {
		case rr.comma:
			record = append(record, field.String())
			field.Reset()
			state = startField
		case '\n', '\r':
			rr.endLine(c)
			return append(record, field.String()), nil
		default:
			field.WriteRune(c)
			state = inField
		}
	}
}

// endLine consumes the rest of a "\r\n" pair and counts the line.
func (rr *RecordReader) endLine(c rune) {
	rr.line++
	if c != '\r' {
		return
	}
	next, _, err := rr.r.ReadRune()
	if err == nil && next != '\n' {
		_ = rr.r.UnreadRune()
	}
}
