package core

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRecords(t *testing.T, input string) [][]string {
	t.Helper()
	rr := NewRecordReader(strings.NewReader(input), ';')
	var out [][]string
	for {
		rec, err := rr.Read()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestRecordReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{"plain", "a;b\nc;d\n", [][]string{{"a", "b"}, {"c", "d"}}},
		{"no final newline", "a;b", [][]string{{"a", "b"}}},
		{"trailing delimiter", "a;\n", [][]string{{"a", ""}}},
		{"crlf endings", "a;b\r\nc;d\r\n", [][]string{{"a", "b"}, {"c", "d"}}},
		{"empty lines skipped", "a\n\n\r\nb\n", [][]string{{"a"}, {"b"}}},
		{"quoted delimiter", "\"a;b\";c\n", [][]string{{"a;b", "c"}}},
		{"doubled quote", "\"say \"\"hi\"\"\";x\n", [][]string{{`say "hi"`, "x"}}},
		{"empty quoted field", "\"\";x\n", [][]string{{"", "x"}}},
		{"text after closing quote", "1;\"Granny\" Smith;5\n2;Pear;3\n", [][]string{{"1", "Granny Smith", "5"}, {"2", "Pear", "3"}}},
		{"quote inside unquoted field", "a\"b;c\n", [][]string{{`a"b`, "c"}}},
		{"stray quote after closed section", "\"a\"b\"c;d\n", [][]string{{`ab"c`, "d"}}},
		{"quoted line break", "\"a\nb\";c\nd;e\n", [][]string{{"a\nb", "c"}, {"d", "e"}}},
		{"unterminated quote ends at EOF", "\"abc;d\n", [][]string{{"abc;d\n"}}},
		{"empty input", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readRecords(t, tt.input))
		})
	}
}

func TestRecordReader_InvalidUTF8(t *testing.T) {
	rr := NewRecordReader(strings.NewReader("id;name\n\"multi\nline\";x\n1;\xff\n"), ';')

	for i := 0; i < 2; i++ {
		_, err := rr.Read()
		require.NoError(t, err)
	}

	_, err := rr.Read()
	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 4, recErr.Line)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Equal(t, "FILE003", MapError(err).Code)
	assert.Equal(t, ExitFailure, ExitCode(err))
}
